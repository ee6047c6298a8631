// clinfo lists the OpenCL platforms and devices available, with their name, vendor, type and memory sizes.
//
// The OpenCL library (libOpenCL) is loaded at runtime: see -driver and the OPENCL_LIBRARY_PATH
// environment variable. It exits with a non-zero code if the library can't be loaded or a query fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gomlx/gocl/clinfo"
	"github.com/gomlx/gocl/opencl"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagDriver = flag.String("driver", opencl.DefaultDriverName,
		fmt.Sprintf("OpenCL library name (e.g.: %q) or absolute path to it. Libraries are searched in the paths in $%s, "+
			"or in the system library paths if it is not set.", opencl.DefaultDriverName, opencl.LibraryPathsEnv))
	flagFormat       = flag.String("format", "text", "Output format: text or json.")
	flagDeviceType   = flag.String("device_type", "all", "Device types to list: all, default, cpu, gpu, accelerator, custom, or a combination separated by \"|\".")
	flagInvalidQuery = flag.Bool("invalid_query", true, "Demonstrate a failing query: call clGetPlatformInfo with an invalid parameter on the first platform.")
	flagVerbose      = flag.Bool("verbose_device", false, "Also list platform version and device vendor, compute units and clock frequency.")
	flagListDrivers  = flag.Bool("list_drivers", false, "List the OpenCL libraries found in the search paths and exit.")
)

// config holds the parsed flags.
type config struct {
	format  string
	collect clinfo.Options
}

func main() {
	// Initialize and set default values for flags
	klog.InitFlags(nil)
	flag.Parse()

	if *flagListDrivers {
		listDrivers(os.Stdout, opencl.AvailableDrivers())
		return
	}

	cfg, err := configFromFlags()
	if err != nil {
		klog.Fatalf("Invalid flags: %v", err)
	}

	driver, err := opencl.LoadDriver(*flagDriver)
	if err != nil {
		klog.Fatalf("Can't init OpenCL driver: %+v", err)
	}
	klog.V(1).Infof("Using %s", driver)

	if err := run(context.Background(), os.Stdout, driver, cfg); err != nil {
		klog.Fatalf("%+v", err)
	}
}

func configFromFlags() (cfg config, err error) {
	switch *flagFormat {
	case "text", "json":
		cfg.format = *flagFormat
	default:
		return cfg, errors.Errorf("unknown -format=%q, valid values are text or json", *flagFormat)
	}
	cfg.collect.DeviceType, err = opencl.ParseDeviceType(*flagDeviceType)
	if err != nil {
		return cfg, errors.WithMessage(err, "invalid -device_type")
	}
	cfg.collect.InvalidQuery = *flagInvalidQuery
	cfg.collect.Verbose = *flagVerbose
	return cfg, nil
}

// run enumerates the driver and writes the report to w.
//
// If the enumeration fails, what was collected up to the failure is still written, and the
// enumeration error is returned.
func run(ctx context.Context, w io.Writer, driver opencl.Driver, cfg config) error {
	inv, collectErr := clinfo.Collect(ctx, driver, cfg.collect)
	var writeErr error
	switch cfg.format {
	case "json":
		writeErr = clinfo.WriteJSON(w, inv)
	default:
		writeErr = clinfo.WriteText(w, inv, clinfo.TextOptions{Verbose: cfg.collect.Verbose})
	}
	if collectErr != nil {
		if writeErr != nil {
			klog.Errorf("Failed to write partial report: %v", writeErr)
		}
		return collectErr
	}
	return writeErr
}

// listDrivers prints the paths of the candidate OpenCL libraries.
func listDrivers(w io.Writer, paths []string) {
	if len(paths) == 0 {
		fmt.Fprintf(w, "No OpenCL library found: set $%s to the directory with libOpenCL.\n", opencl.LibraryPathsEnv)
		return
	}
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}
