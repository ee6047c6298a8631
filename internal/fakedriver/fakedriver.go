// Package fakedriver implements an in-memory opencl.Driver, following the semantics of the OpenCL C API,
// to test enumeration without an OpenCL installation.
//
// It's internal and only meant for tests.
package fakedriver

import (
	"encoding/binary"
	"fmt"

	"github.com/gomlx/gocl/opencl"
)

// Device configured in the fake driver.
type Device struct {
	Name          string
	Vendor        string
	Type          opencl.DeviceType
	GlobalMemSize uint64
	LocalMemSize  uint64
	Available     bool
	ComputeUnits  uint32
	ClockMHz      uint32
}

// Platform configured in the fake driver.
type Platform struct {
	Name, Vendor, Version, Profile, Extensions string
	Devices                                    []Device
}

// Call records one call to the driver.
type Call struct {
	Function string
	Param    uint32
	Size     int // Length of the destination: 0 for size queries.
}

// Driver implements opencl.Driver. Platform ids are 1-based indices into Platforms, and device ids
// are platform*1000 + 1-based device index.
//
// It is not safe for concurrent use.
type Driver struct {
	Platforms []Platform

	// PlatformIDsStatus, if set, is returned by every PlatformIDs call.
	PlatformIDsStatus opencl.Status

	// Fail maps a "function:param" key (e.g.: "clGetDeviceInfo:CL_DEVICE_NAME") or a function name to a
	// status to return instead of executing the call.
	Fail map[string]opencl.Status

	// ShrinkOnFill makes the fill call of the id lists report one element less than the size call,
	// emulating a device going away in between.
	ShrinkOnFill bool

	// Calls made, in order.
	Calls []Call
}

// New creates a fake driver with the given platforms.
func New(platforms ...Platform) *Driver {
	return &Driver{Platforms: platforms, Fail: make(map[string]opencl.Status)}
}

// Assert Driver implements opencl.Driver.
var _ opencl.Driver = (*Driver)(nil)

func (d *Driver) record(function string, param uint32, paramName string, size int) (opencl.Status, bool) {
	d.Calls = append(d.Calls, Call{Function: function, Param: param, Size: size})
	if status, found := d.Fail[function+":"+paramName]; found {
		return status, true
	}
	if status, found := d.Fail[function]; found {
		return status, true
	}
	return opencl.Success, false
}

func (d *Driver) platform(id opencl.PlatformID) (*Platform, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(d.Platforms) {
		return nil, false
	}
	return &d.Platforms[idx], true
}

func (d *Driver) device(id opencl.DeviceID) (*Device, bool) {
	p, found := d.platform(opencl.PlatformID(int(id) / 1000))
	if !found {
		return nil, false
	}
	idx := int(id)%1000 - 1
	if idx < 0 || idx >= len(p.Devices) {
		return nil, false
	}
	return &p.Devices[idx], true
}

// fillIDs implements the two-phase protocol for the id lists.
func fillIDs[T any](all []T, dst []T, shrink bool) (int, opencl.Status) {
	if len(dst) == 0 {
		return len(all), opencl.Success
	}
	n := copy(dst, all)
	if shrink && n > 0 {
		n--
	}
	return n, opencl.Success
}

// fillValue implements the two-phase protocol for attribute values: CL_INVALID_VALUE if dst is not
// empty but is smaller than the value.
func fillValue(value []byte, dst []byte) (int, opencl.Status) {
	if len(dst) == 0 {
		return len(value), opencl.Success
	}
	if len(dst) < len(value) {
		return 0, opencl.InvalidValue
	}
	copy(dst, value)
	return len(value), opencl.Success
}

// cString returns the NUL terminated bytes of s.
func cString(s string) []byte {
	return append([]byte(s), 0)
}

// PlatformIDs implements opencl.Driver.
func (d *Driver) PlatformIDs(dst []opencl.PlatformID) (int, opencl.Status) {
	if status, failed := d.record("clGetPlatformIDs", 0, "", len(dst)); failed {
		return 0, status
	}
	if d.PlatformIDsStatus != opencl.Success {
		return 0, d.PlatformIDsStatus
	}
	ids := make([]opencl.PlatformID, len(d.Platforms))
	for ii := range ids {
		ids[ii] = opencl.PlatformID(ii + 1)
	}
	return fillIDs(ids, dst, d.ShrinkOnFill)
}

// PlatformInfo implements opencl.Driver.
func (d *Driver) PlatformInfo(platform opencl.PlatformID, param opencl.PlatformInfo, dst []byte) (int, opencl.Status) {
	if status, failed := d.record("clGetPlatformInfo", uint32(param), param.String(), len(dst)); failed {
		return 0, status
	}
	p, found := d.platform(platform)
	if !found {
		return 0, opencl.InvalidPlatform
	}
	var value string
	switch param {
	case opencl.PlatformName:
		value = p.Name
	case opencl.PlatformVendor:
		value = p.Vendor
	case opencl.PlatformVersion:
		value = p.Version
	case opencl.PlatformProfile:
		value = p.Profile
	case opencl.PlatformExtensions:
		value = p.Extensions
	default:
		return 0, opencl.InvalidValue
	}
	return fillValue(cString(value), dst)
}

// DeviceIDs implements opencl.Driver.
func (d *Driver) DeviceIDs(platform opencl.PlatformID, deviceType opencl.DeviceType, dst []opencl.DeviceID) (int, opencl.Status) {
	if status, failed := d.record("clGetDeviceIDs", uint32(deviceType), "", len(dst)); failed {
		return 0, status
	}
	p, found := d.platform(platform)
	if !found {
		return 0, opencl.InvalidPlatform
	}
	var ids []opencl.DeviceID
	for ii, device := range p.Devices {
		if deviceType == opencl.DeviceTypeAll || device.Type&deviceType != 0 {
			ids = append(ids, opencl.DeviceID(int(platform)*1000+ii+1))
		}
	}
	if len(ids) == 0 {
		return 0, opencl.DeviceNotFound
	}
	return fillIDs(ids, dst, d.ShrinkOnFill)
}

// DeviceInfo implements opencl.Driver.
func (d *Driver) DeviceInfo(device opencl.DeviceID, param opencl.DeviceInfo, dst []byte) (int, opencl.Status) {
	if status, failed := d.record("clGetDeviceInfo", uint32(param), param.String(), len(dst)); failed {
		return 0, status
	}
	dev, found := d.device(device)
	if !found {
		return 0, opencl.InvalidDevice
	}
	var value []byte
	switch param {
	case opencl.DeviceName:
		value = cString(dev.Name)
	case opencl.DeviceVendor:
		value = cString(dev.Vendor)
	case opencl.DeviceTypeInfo:
		value = binary.NativeEndian.AppendUint64(nil, uint64(dev.Type))
	case opencl.DeviceGlobalMemSize:
		value = binary.NativeEndian.AppendUint64(nil, dev.GlobalMemSize)
	case opencl.DeviceLocalMemSize:
		value = binary.NativeEndian.AppendUint64(nil, dev.LocalMemSize)
	case opencl.DeviceAvailable:
		var available uint32
		if dev.Available {
			available = 1
		}
		value = binary.NativeEndian.AppendUint32(nil, available)
	case opencl.DeviceMaxComputeUnits:
		value = binary.NativeEndian.AppendUint32(nil, dev.ComputeUnits)
	case opencl.DeviceMaxClockFrequency:
		value = binary.NativeEndian.AppendUint32(nil, dev.ClockMHz)
	default:
		return 0, opencl.InvalidValue
	}
	return fillValue(value, dst)
}

// CountCalls returns how many calls were made to the given function.
func (d *Driver) CountCalls(function string) int {
	var count int
	for _, call := range d.Calls {
		if call.Function == function {
			count++
		}
	}
	return count
}

// String implements fmt.Stringer.
func (d *Driver) String() string {
	return fmt.Sprintf("fake OpenCL driver with %d platform(s)", len(d.Platforms))
}
