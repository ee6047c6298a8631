package opencl

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/pkg/errors"
)

// This file implements the two-phase query protocol of the OpenCL API: first ask for the size of the
// value, then allocate exactly that and ask again to fill it.
//
// The skip parameter of the helpers selects the call site recorded in the returned *Error: skip=0 is
// the function calling the helper, skip=1 its caller, and so on.

// queryList runs the two-phase protocol for a list of T: query(nil) returns the number of elements,
// query(dst) fills dst, which is allocated with exactly that many elements.
//
// It returns an empty (non-nil) slice if the driver reports zero elements, without issuing the fill call:
// the OpenCL API rejects a fill call with zero entries.
func queryList[T any](call string, skip int, query func(dst []T) (int, Status)) ([]T, error) {
	size, status := query(nil)
	if err := toError(status, call, skip+1); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errors.Errorf("%s reported a negative size %d", call, size)
	}
	dst := make([]T, size)
	if size == 0 {
		return dst, nil
	}
	filledSize, status := query(dst)
	if err := toError(status, call, skip+1); err != nil {
		return nil, err
	}
	if filledSize != size {
		return nil, errors.Wrapf(ErrSizeMismatch, "%s reported size %d, but then filled %d", call, size, filledSize)
	}
	return dst, nil
}

// queryString runs the two-phase protocol for a char[] attribute. The returned string is cut at the
// first NUL, so it never exceeds the size reported by the driver.
func queryString(call string, skip int, query func(dst []byte) (int, Status)) (string, error) {
	buf, err := queryList(call, skip+1, query)
	if err != nil {
		return "", err
	}
	if nulPos := bytes.IndexByte(buf, 0); nulPos >= 0 {
		buf = buf[:nulPos]
	}
	return string(buf), nil
}

// queryScalar reads a fixed-size attribute (cl_uint, cl_bool, cl_ulong, cl_bitfield) with a single call
// into a buffer of the size of T. The value is decoded in the native byte order.
func queryScalar[T ~uint32 | ~uint64](call string, skip int, query func(dst []byte) (int, Status)) (T, error) {
	var value T
	buf := make([]byte, unsafe.Sizeof(value))
	size, status := query(buf)
	if err := toError(status, call, skip+1); err != nil {
		return value, err
	}
	if size != len(buf) {
		return value, errors.Wrapf(ErrSizeMismatch, "%s returned %d bytes for a %d bytes value", call, size, len(buf))
	}
	switch len(buf) {
	case 4:
		value = T(binary.NativeEndian.Uint32(buf))
	case 8:
		value = T(binary.NativeEndian.Uint64(buf))
	}
	return value, nil
}
