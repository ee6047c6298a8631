// Package clinfo enumerates the OpenCL platforms and devices of a driver and renders the result.
//
// Collect walks the driver in a fixed order (platforms, then each platform's devices) and returns an
// Inventory, which can be rendered with WriteText or WriteJSON.
package clinfo

import (
	"context"

	"github.com/gomlx/gocl/opencl"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// InvalidPlatformInfo is the selector used to demonstrate a failing query: it's not a valid
// cl_platform_info, so the driver returns CL_INVALID_VALUE.
const InvalidPlatformInfo opencl.PlatformInfo = 239

// Options for Collect.
type Options struct {
	// DeviceType passed to clGetDeviceIDs. Zero means opencl.DeviceTypeAll.
	DeviceType opencl.DeviceType

	// InvalidQuery issues, on the first platform, a clGetPlatformInfo with an invalid selector, and records
	// the error returned. The error doesn't stop the enumeration.
	InvalidQuery bool

	// Verbose also collects the platform version, and the device's vendor, max compute units and
	// max clock frequency.
	Verbose bool
}

// Inventory is the result of the enumeration.
type Inventory struct {
	// NumPlatforms reported by the driver.
	NumPlatforms int

	// InvalidQuery is the result of the invalid selector query, if Options.InvalidQuery was set and there
	// was at least one platform.
	InvalidQuery *InvalidQueryResult

	// Platforms in the order returned by the driver. If the enumeration failed, the last platform
	// may be Incomplete, or have fewer Devices than its NumDevices.
	Platforms []PlatformReport
}

// InvalidQueryResult holds the outcome of the invalid selector query.
type InvalidQueryResult struct {
	Selector opencl.PlatformInfo

	// Status returned by the driver: CL_INVALID_VALUE for a conforming driver.
	Status opencl.Status

	// Err is the error returned by the query, nil if the driver accepted the selector.
	Err error
}

// PlatformReport holds what was collected of one platform.
type PlatformReport struct {
	Index   int // 0-based.
	Name    string
	Vendor  string
	Version string // Only collected with Options.Verbose.

	// NumDevices reported by the driver.
	NumDevices int
	Devices    []DeviceReport

	// Incomplete is set if querying the platform attributes or listing its devices failed: only the
	// attributes read before the failure are set, in the order Name, Vendor, Version.
	Incomplete bool
}

// DeviceReport holds what was collected of one device.
type DeviceReport struct {
	Index         int // 0-based, within the platform.
	Name          string
	Type          opencl.DeviceType
	GlobalMemSize uint64 // Bytes.
	LocalMemSize  uint64 // Bytes.
	Available     bool

	// Only collected with Options.Verbose.
	Vendor            string
	MaxComputeUnits   uint32
	MaxClockFrequency uint32 // MHz.
}

// Collect enumerates platforms and devices of the driver.
//
// Failing queries (except the invalid selector demonstration) stop the enumeration: Collect then returns
// the error along with the partial inventory collected so far, which is never nil.
//
// ctx is checked between platforms and between devices.
func Collect(ctx context.Context, driver opencl.Driver, opts Options) (*Inventory, error) {
	inv := &Inventory{}
	deviceType := opts.DeviceType
	if deviceType == 0 {
		deviceType = opencl.DeviceTypeAll
	}

	platforms, err := opencl.Platforms(driver)
	if err != nil {
		return inv, errors.WithMessage(err, "failed to list OpenCL platforms")
	}
	inv.NumPlatforms = len(platforms)
	klog.V(1).Infof("%s: %d platform(s)", driver, len(platforms))

	if opts.InvalidQuery && len(platforms) > 0 {
		inv.InvalidQuery = invalidQuery(platforms[0])
	}

	for platformIdx, platform := range platforms {
		if err := ctx.Err(); err != nil {
			return inv, errors.WithStack(err)
		}
		inv.Platforms = append(inv.Platforms, PlatformReport{Index: platformIdx})
		report := &inv.Platforms[len(inv.Platforms)-1]
		devices, err := collectPlatform(platform, deviceType, opts, report)
		if err != nil {
			report.Incomplete = true
			return inv, errors.WithMessagef(err, "while enumerating platform #%d", platformIdx+1)
		}
		if err := collectDevices(ctx, devices, opts, report); err != nil {
			return inv, errors.WithMessagef(err, "while enumerating platform #%d", platformIdx+1)
		}
	}
	return inv, nil
}

// invalidQuery queries the platform with an invalid selector: the failure is recorded and logged, but
// it's not propagated.
func invalidQuery(platform *opencl.Platform) *InvalidQueryResult {
	result := &InvalidQueryResult{Selector: InvalidPlatformInfo}
	_, err := platform.Info(InvalidPlatformInfo)
	if err == nil {
		klog.Warningf("clGetPlatformInfo accepted the invalid selector %d", InvalidPlatformInfo)
		return result
	}
	result.Err = err
	result.Status, _ = opencl.StatusOf(err)
	klog.V(1).Infof("Invalid query failed as expected: %v", err)
	return result
}

// collectPlatform collects the platform attributes and lists its devices.
func collectPlatform(platform *opencl.Platform, deviceType opencl.DeviceType, opts Options, report *PlatformReport) (devices []*opencl.Device, err error) {
	if report.Name, err = platform.Name(); err != nil {
		return
	}
	if report.Vendor, err = platform.Vendor(); err != nil {
		return
	}
	if opts.Verbose {
		if report.Version, err = platform.Version(); err != nil {
			return
		}
	}
	devices, err = platform.Devices(deviceType)
	if err != nil {
		return
	}
	report.NumDevices = len(devices)
	return
}

// collectDevices appends a DeviceReport to the platform report for each device successfully queried.
func collectDevices(ctx context.Context, devices []*opencl.Device, opts Options, report *PlatformReport) error {
	for deviceIdx, device := range devices {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		deviceReport := DeviceReport{Index: deviceIdx}
		if err := collectDevice(device, opts, &deviceReport); err != nil {
			return errors.WithMessagef(err, "while querying device #%d", deviceIdx+1)
		}
		report.Devices = append(report.Devices, deviceReport)
	}
	return nil
}

func collectDevice(device *opencl.Device, opts Options, report *DeviceReport) (err error) {
	if report.Name, err = device.Name(); err != nil {
		return err
	}
	if report.Type, err = device.Type(); err != nil {
		return err
	}
	if report.GlobalMemSize, err = device.GlobalMemSize(); err != nil {
		return err
	}
	if report.LocalMemSize, err = device.LocalMemSize(); err != nil {
		return err
	}
	if report.Available, err = device.Available(); err != nil {
		return err
	}
	if !opts.Verbose {
		return nil
	}
	if report.Vendor, err = device.Vendor(); err != nil {
		return err
	}
	if report.MaxComputeUnits, err = device.MaxComputeUnits(); err != nil {
		return err
	}
	if report.MaxClockFrequency, err = device.MaxClockFrequency(); err != nil {
		return err
	}
	return nil
}
