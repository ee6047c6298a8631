package opencl

import (
	"fmt"
)

// Device is a lightweight reference to a compute device (CPU, GPU, accelerator) of a Platform.
// It doesn't own the underlying handle: devices returned by clGetDeviceIDs are owned by the driver.
type Device struct {
	driver   Driver
	platform *Platform
	id       DeviceID
}

// NewDevice creates a Device reference from a handle returned by the driver. platform can be nil.
func NewDevice(driver Driver, platform *Platform, id DeviceID) *Device {
	return &Device{driver: driver, platform: platform, id: id}
}

// ID returns the opaque device handle.
func (d *Device) ID() DeviceID {
	return d.id
}

// Platform the device was listed from. It may be nil if the device was created directly with NewDevice.
func (d *Device) Platform() *Platform {
	return d.platform
}

func (d *Device) query(param DeviceInfo) func(dst []byte) (int, Status) {
	return func(dst []byte) (int, Status) {
		return d.driver.DeviceInfo(d.id, param, dst)
	}
}

// Info queries a string (char[]) attribute of the device, using the two-phase protocol.
func (d *Device) Info(param DeviceInfo) (string, error) {
	return queryString("clGetDeviceInfo", 1, d.query(param))
}

// Uint32Info queries a cl_uint attribute of the device.
func (d *Device) Uint32Info(param DeviceInfo) (uint32, error) {
	return queryScalar[uint32]("clGetDeviceInfo", 1, d.query(param))
}

// Uint64Info queries a cl_ulong attribute of the device.
func (d *Device) Uint64Info(param DeviceInfo) (uint64, error) {
	return queryScalar[uint64]("clGetDeviceInfo", 1, d.query(param))
}

// Name returns CL_DEVICE_NAME.
func (d *Device) Name() (string, error) { return d.Info(DeviceName) }

// Vendor returns CL_DEVICE_VENDOR.
func (d *Device) Vendor() (string, error) { return d.Info(DeviceVendor) }

// DriverVersion returns CL_DRIVER_VERSION.
func (d *Device) DriverVersion() (string, error) { return d.Info(DriverVersion) }

// Version returns CL_DEVICE_VERSION.
func (d *Device) Version() (string, error) { return d.Info(DeviceVersion) }

// Type returns the CL_DEVICE_TYPE bitmask. Use DeviceType.Label to classify it.
func (d *Device) Type() (DeviceType, error) {
	return queryScalar[DeviceType]("clGetDeviceInfo", 0, d.query(DeviceTypeInfo))
}

// GlobalMemSize returns CL_DEVICE_GLOBAL_MEM_SIZE, in bytes.
func (d *Device) GlobalMemSize() (uint64, error) { return d.Uint64Info(DeviceGlobalMemSize) }

// LocalMemSize returns CL_DEVICE_LOCAL_MEM_SIZE, in bytes.
func (d *Device) LocalMemSize() (uint64, error) { return d.Uint64Info(DeviceLocalMemSize) }

// MaxMemAllocSize returns CL_DEVICE_MAX_MEM_ALLOC_SIZE, in bytes.
func (d *Device) MaxMemAllocSize() (uint64, error) { return d.Uint64Info(DeviceMaxMemAllocSize) }

// MaxComputeUnits returns CL_DEVICE_MAX_COMPUTE_UNITS.
func (d *Device) MaxComputeUnits() (uint32, error) { return d.Uint32Info(DeviceMaxComputeUnits) }

// MaxClockFrequency returns CL_DEVICE_MAX_CLOCK_FREQUENCY, in MHz.
func (d *Device) MaxClockFrequency() (uint32, error) { return d.Uint32Info(DeviceMaxClockFrequency) }

// Available returns CL_DEVICE_AVAILABLE.
func (d *Device) Available() (bool, error) {
	available, err := queryScalar[uint32]("clGetDeviceInfo", 0, d.query(DeviceAvailable))
	return available != 0, err
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("OpenCL device 0x%x", uintptr(d.id))
}
