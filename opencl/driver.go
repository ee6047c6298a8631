package opencl

import "fmt"

// PlatformID is the opaque cl_platform_id handle. It is owned by the driver and valid for the lifetime
// of the process, there is nothing to release.
type PlatformID uintptr

// DeviceID is the opaque cl_device_id handle of a device in a platform. Same ownership as PlatformID.
type DeviceID uintptr

// Driver is the subset of the OpenCL API used to enumerate platforms and devices.
//
// The methods mirror the C functions, including the two-phase protocol: called with an empty dst they
// only return the required size (number of elements for the ids, number of bytes for the attributes);
// called with a non-empty dst they fill it, and return the size of the value.
//
// *Library, returned by LoadDriver, is the implementation backed by the native ICD loader.
type Driver interface {
	// PlatformIDs calls clGetPlatformIDs.
	PlatformIDs(dst []PlatformID) (numPlatforms int, status Status)

	// PlatformInfo calls clGetPlatformInfo.
	PlatformInfo(platform PlatformID, param PlatformInfo, dst []byte) (size int, status Status)

	// DeviceIDs calls clGetDeviceIDs.
	DeviceIDs(platform PlatformID, deviceType DeviceType, dst []DeviceID) (numDevices int, status Status)

	// DeviceInfo calls clGetDeviceInfo.
	DeviceInfo(device DeviceID, param DeviceInfo, dst []byte) (size int, status Status)
}

// PlatformInfo is the cl_platform_info selector of a platform attribute.
type PlatformInfo uint32

// Values copied from CL/cl.h.
const (
	PlatformProfile    PlatformInfo = 0x0900
	PlatformVersion    PlatformInfo = 0x0901
	PlatformName       PlatformInfo = 0x0902
	PlatformVendor     PlatformInfo = 0x0903
	PlatformExtensions PlatformInfo = 0x0904
)

var platformInfoNames = map[PlatformInfo]string{
	PlatformProfile:    "CL_PLATFORM_PROFILE",
	PlatformVersion:    "CL_PLATFORM_VERSION",
	PlatformName:       "CL_PLATFORM_NAME",
	PlatformVendor:     "CL_PLATFORM_VENDOR",
	PlatformExtensions: "CL_PLATFORM_EXTENSIONS",
}

func (p PlatformInfo) String() string {
	if name, found := platformInfoNames[p]; found {
		return name
	}
	return fmt.Sprintf("PlatformInfo(0x%04x)", uint32(p))
}

// DeviceInfo is the cl_device_info selector of a device attribute.
type DeviceInfo uint32

// Values copied from CL/cl.h. The comment gives the C type of the attribute value.
const (
	DeviceTypeInfo          DeviceInfo = 0x1000 // cl_device_type
	DeviceVendorID          DeviceInfo = 0x1001 // cl_uint
	DeviceMaxComputeUnits   DeviceInfo = 0x1002 // cl_uint
	DeviceMaxClockFrequency DeviceInfo = 0x100C // cl_uint
	DeviceMaxMemAllocSize   DeviceInfo = 0x1010 // cl_ulong
	DeviceGlobalMemSize     DeviceInfo = 0x101F // cl_ulong
	DeviceLocalMemSize      DeviceInfo = 0x1023 // cl_ulong
	DeviceAvailable         DeviceInfo = 0x1027 // cl_bool
	DeviceName              DeviceInfo = 0x102B // char[]
	DeviceVendor            DeviceInfo = 0x102C // char[]
	DriverVersion           DeviceInfo = 0x102D // char[]
	DeviceProfile           DeviceInfo = 0x102E // char[]
	DeviceVersion           DeviceInfo = 0x102F // char[]
)

var deviceInfoNames = map[DeviceInfo]string{
	DeviceTypeInfo:          "CL_DEVICE_TYPE",
	DeviceVendorID:          "CL_DEVICE_VENDOR_ID",
	DeviceMaxComputeUnits:   "CL_DEVICE_MAX_COMPUTE_UNITS",
	DeviceMaxClockFrequency: "CL_DEVICE_MAX_CLOCK_FREQUENCY",
	DeviceMaxMemAllocSize:   "CL_DEVICE_MAX_MEM_ALLOC_SIZE",
	DeviceGlobalMemSize:     "CL_DEVICE_GLOBAL_MEM_SIZE",
	DeviceLocalMemSize:      "CL_DEVICE_LOCAL_MEM_SIZE",
	DeviceAvailable:         "CL_DEVICE_AVAILABLE",
	DeviceName:              "CL_DEVICE_NAME",
	DeviceVendor:            "CL_DEVICE_VENDOR",
	DriverVersion:           "CL_DRIVER_VERSION",
	DeviceProfile:           "CL_DEVICE_PROFILE",
	DeviceVersion:           "CL_DEVICE_VERSION",
}

func (d DeviceInfo) String() string {
	if name, found := deviceInfoNames[d]; found {
		return name
	}
	return fmt.Sprintf("DeviceInfo(0x%04x)", uint32(d))
}
