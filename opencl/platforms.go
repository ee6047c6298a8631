package opencl

import (
	"fmt"
)

// Platform is a lightweight reference to an OpenCL platform: a vendor's driver exposing zero or more
// devices. It doesn't own the underlying handle.
type Platform struct {
	driver Driver
	id     PlatformID
}

// Platforms lists the platforms available through the driver, in the order returned by the driver.
//
// An ICD loader with no vendor drivers installed returns CL_PLATFORM_NOT_FOUND_KHR: that is reported
// as no platforms, not as an error.
func Platforms(driver Driver) ([]*Platform, error) {
	ids, err := queryList("clGetPlatformIDs", 0, driver.PlatformIDs)
	if err != nil {
		if status, _ := StatusOf(err); status == PlatformNotFoundKHR {
			return []*Platform{}, nil
		}
		return nil, err
	}
	platforms := make([]*Platform, len(ids))
	for ii, id := range ids {
		platforms[ii] = NewPlatform(driver, id)
	}
	return platforms, nil
}

// NewPlatform creates a Platform reference from a handle returned by the driver.
func NewPlatform(driver Driver, id PlatformID) *Platform {
	return &Platform{driver: driver, id: id}
}

// ID returns the opaque platform handle.
func (p *Platform) ID() PlatformID {
	return p.id
}

// Info queries a string attribute of the platform, using the two-phase protocol.
//
// Any selector value is passed through to the driver: an invalid one results in an *Error with
// code CL_INVALID_VALUE, recorded at the location of the caller.
func (p *Platform) Info(param PlatformInfo) (string, error) {
	return queryString("clGetPlatformInfo", 1, func(dst []byte) (int, Status) {
		return p.driver.PlatformInfo(p.id, param, dst)
	})
}

// Name returns CL_PLATFORM_NAME.
func (p *Platform) Name() (string, error) { return p.Info(PlatformName) }

// Vendor returns CL_PLATFORM_VENDOR.
func (p *Platform) Vendor() (string, error) { return p.Info(PlatformVendor) }

// Version returns CL_PLATFORM_VERSION, e.g.: "OpenCL 3.0 CUDA 12.4.131".
func (p *Platform) Version() (string, error) { return p.Info(PlatformVersion) }

// Profile returns CL_PLATFORM_PROFILE: "FULL_PROFILE" or "EMBEDDED_PROFILE".
func (p *Platform) Profile() (string, error) { return p.Info(PlatformProfile) }

// Extensions returns CL_PLATFORM_EXTENSIONS, a space separated list.
func (p *Platform) Extensions() (string, error) { return p.Info(PlatformExtensions) }

// Devices lists the platform's devices matching deviceType (use DeviceTypeAll for all of them), in the
// order returned by the driver.
//
// If no device matches, the driver returns CL_DEVICE_NOT_FOUND, which is reported as an empty list.
func (p *Platform) Devices(deviceType DeviceType) ([]*Device, error) {
	ids, err := queryList("clGetDeviceIDs", 0, func(dst []DeviceID) (int, Status) {
		return p.driver.DeviceIDs(p.id, deviceType, dst)
	})
	if err != nil {
		if status, _ := StatusOf(err); status == DeviceNotFound {
			return []*Device{}, nil
		}
		return nil, err
	}
	devices := make([]*Device, len(ids))
	for ii, id := range ids {
		devices[ii] = NewDevice(p.driver, p, id)
	}
	return devices, nil
}

// String implements fmt.Stringer.
func (p *Platform) String() string {
	return fmt.Sprintf("OpenCL platform 0x%x", uintptr(p.id))
}
