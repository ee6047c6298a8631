package opencl

/*
#include <stdlib.h>
*/
import "C"
import "unsafe"

// File implements several CGO helper utilities.

// cFree calls C.free() on the unsafe.Pointer version of data.
func cFree[T any](data *T) {
	C.free(unsafe.Pointer(data))
}

// sliceData returns an unsafe.Pointer to the first element of s, or nil if s is empty: that's how the
// OpenCL API distinguishes a size query from a fill call.
func sliceData[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
