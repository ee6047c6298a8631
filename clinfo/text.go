package clinfo

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// TextOptions configures WriteText.
type TextOptions struct {
	// Verbose prints the attributes collected with Options.Verbose.
	Verbose bool
}

// WriteText writes the human-readable report of the inventory: one block per platform, with a nested
// block per device, in the order returned by the driver.
//
// Platform and device numbers are 1-based, e.g.: "Platform #1/2", "Device #1/#3".
func WriteText(w io.Writer, inv *Inventory, opts TextOptions) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Number of OpenCL platforms: %d\n", inv.NumPlatforms)

	if q := inv.InvalidQuery; q != nil {
		fmt.Fprintf(bw, "Invoking clGetPlatformInfo with incorrect parameter...\n")
		if q.Err != nil {
			fmt.Fprintf(bw, "OCL exception caught, errorcode: %d\n\n", int32(q.Status))
		} else {
			fmt.Fprintf(bw, "No error returned for parameter %d\n\n", uint32(q.Selector))
		}
	}

	for _, p := range inv.Platforms {
		fmt.Fprintf(bw, "Platform #%d/%d\n", p.Index+1, inv.NumPlatforms)
		if p.Incomplete {
			writeIncompletePlatform(bw, p, opts)
			continue
		}
		fmt.Fprintf(bw, "    Platform name: %s\n", p.Name)
		fmt.Fprintf(bw, "    Platform vendor: %s\n", p.Vendor)
		if opts.Verbose {
			fmt.Fprintf(bw, "    Platform version: %s\n", p.Version)
		}
		fmt.Fprintf(bw, "    Devices available: %d\n", p.NumDevices)
		for _, d := range p.Devices {
			fmt.Fprintf(bw, "    Device #%d/#%d\n", d.Index+1, p.NumDevices)
			fmt.Fprintf(bw, "        Name: %s\n", d.Name)
			fmt.Fprintf(bw, "        Type: %s\n", d.Type.Label())
			fmt.Fprintf(bw, "        Global memory size: %d MB\n", Mebibytes(d.GlobalMemSize))
			fmt.Fprintf(bw, "        Local memory size: %d KB\n", Kibibytes(d.LocalMemSize))
			fmt.Fprintf(bw, "        Available: %s\n", yesNo(d.Available))
			if opts.Verbose {
				fmt.Fprintf(bw, "        Vendor: %s\n", d.Vendor)
				fmt.Fprintf(bw, "        Max compute units: %d\n", d.MaxComputeUnits)
				fmt.Fprintf(bw, "        Max clock frequency: %d MHz\n", d.MaxClockFrequency)
			}
		}
	}
	// bufio.Writer keeps the first write error, and returns it on Flush.
	return errors.Wrap(bw.Flush(), "failed to write OpenCL inventory")
}

// writeIncompletePlatform writes the platform attributes read before the enumeration failed.
func writeIncompletePlatform(w io.Writer, p PlatformReport, opts TextOptions) {
	if p.Name == "" {
		return
	}
	fmt.Fprintf(w, "    Platform name: %s\n", p.Name)
	if p.Vendor == "" {
		return
	}
	fmt.Fprintf(w, "    Platform vendor: %s\n", p.Vendor)
	if opts.Verbose && p.Version != "" {
		fmt.Fprintf(w, "    Platform version: %s\n", p.Version)
	}
}
