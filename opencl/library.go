package opencl

/*
#include "cl_api.h"
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Names of the C entry points resolved from the loaded library.
const (
	symGetPlatformIDs  = "clGetPlatformIDs"
	symGetPlatformInfo = "clGetPlatformInfo"
	symGetDeviceIDs    = "clGetDeviceIDs"
	symGetDeviceInfo   = "clGetDeviceInfo"
)

// Library is a loaded OpenCL ICD loader (libOpenCL) and implements Driver by calling the
// corresponding C functions.
//
// Loaded libraries are singletons and cached (LoadDriver returns the same *Library if called with the
// same name or path), and they are never unloaded.
type Library struct {
	name, path string
	dllHandle  dllHandleWrapper

	// Pointers to the C functions, resolved with dlsym.
	getPlatformIDs, getPlatformInfo, getDeviceIDs, getDeviceInfo unsafe.Pointer
}

// Assert Library implements Driver.
var _ Driver = (*Library)(nil)

// newLibrary resolves the query functions from the library handle.
// Internal: use LoadDriver instead.
func newLibrary(name, libraryPath string, dllHandle dllHandleWrapper) (*Library, error) {
	l := &Library{name: name, path: libraryPath, dllHandle: dllHandle}
	for _, sym := range []struct {
		name string
		ptr  *unsafe.Pointer
	}{
		{symGetPlatformIDs, &l.getPlatformIDs},
		{symGetPlatformInfo, &l.getPlatformInfo},
		{symGetDeviceIDs, &l.getDeviceIDs},
		{symGetDeviceInfo, &l.getDeviceInfo},
	} {
		ptr, err := dllHandle.Symbol(sym.name)
		if err != nil {
			return nil, errors.WithMessagef(err, "library %q doesn't look like an OpenCL library", libraryPath)
		}
		if ptr == nil {
			return nil, errors.Errorf("library %q resolved symbol %q to NULL", libraryPath, sym.name)
		}
		*sym.ptr = ptr
	}
	klog.V(1).Infof("resolved OpenCL query functions from %s", libraryPath)
	return l, nil
}

// Name returns the name used to load the library, e.g.: "OpenCL".
func (l *Library) Name() string {
	return l.name
}

// Path returns the path from where the library was loaded.
func (l *Library) Path() string {
	return l.path
}

// String implements fmt.Stringer.
func (l *Library) String() string {
	if l.path == l.name {
		return fmt.Sprintf("OpenCL library (%s)", l.path)
	}
	return fmt.Sprintf("OpenCL library %q (%s)", l.name, l.path)
}

// PlatformIDs implements Driver, calling clGetPlatformIDs.
func (l *Library) PlatformIDs(dst []PlatformID) (numPlatforms int, status Status) {
	var count C.cl_uint
	ret := C.call_clGetPlatformIDs(l.getPlatformIDs, C.cl_uint(len(dst)),
		(*C.cl_platform_id)(sliceData(dst)), &count)
	return int(count), Status(ret)
}

// PlatformInfo implements Driver, calling clGetPlatformInfo.
func (l *Library) PlatformInfo(platform PlatformID, param PlatformInfo, dst []byte) (size int, status Status) {
	var sizeRet C.size_t
	ret := C.call_clGetPlatformInfo(l.getPlatformInfo, C.cl_platform_id(platform), C.cl_uint(param),
		C.size_t(len(dst)), sliceData(dst), &sizeRet)
	return int(sizeRet), Status(ret)
}

// DeviceIDs implements Driver, calling clGetDeviceIDs.
func (l *Library) DeviceIDs(platform PlatformID, deviceType DeviceType, dst []DeviceID) (numDevices int, status Status) {
	var count C.cl_uint
	ret := C.call_clGetDeviceIDs(l.getDeviceIDs, C.cl_platform_id(platform), C.cl_bitfield(deviceType),
		C.cl_uint(len(dst)), (*C.cl_device_id)(sliceData(dst)), &count)
	return int(count), Status(ret)
}

// DeviceInfo implements Driver, calling clGetDeviceInfo.
func (l *Library) DeviceInfo(device DeviceID, param DeviceInfo, dst []byte) (size int, status Status) {
	var sizeRet C.size_t
	ret := C.call_clGetDeviceInfo(l.getDeviceInfo, C.cl_device_id(device), C.cl_uint(param),
		C.size_t(len(dst)), sliceData(dst), &sizeRet)
	return int(sizeRet), Status(ret)
}
