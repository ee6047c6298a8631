// Package opencl implements a minimal Go wrapper over the query surface of the OpenCL C API:
// listing platforms and devices and reading their attributes.
//
// The OpenCL ICD loader (libOpenCL) is loaded at runtime with `dlopen`, see LoadDriver. Everything else
// works over the Driver interface, which mirrors the four C entry points used:
//
//	clGetPlatformIDs, clGetPlatformInfo, clGetDeviceIDs, clGetDeviceInfo
//
// Every call returns a Status, and non-success values are converted to *Error, which carries the code
// and the location of the failing call.
package opencl
