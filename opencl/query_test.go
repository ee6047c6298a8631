package opencl

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// listQuery emulates an OpenCL id list query over values, and counts the calls.
func listQuery[T any](values []T, calls *int) func(dst []T) (int, Status) {
	return func(dst []T) (int, Status) {
		*calls++
		if len(dst) == 0 {
			return len(values), Success
		}
		return copy(dst, values), Success
	}
}

// bytesQuery emulates an OpenCL attribute query returning value.
func bytesQuery(value []byte) func(dst []byte) (int, Status) {
	return func(dst []byte) (int, Status) {
		if len(dst) == 0 {
			return len(value), Success
		}
		if len(dst) < len(value) {
			return 0, InvalidValue
		}
		return copy(dst, value), Success
	}
}

func TestQueryList(t *testing.T) {
	var calls int
	ids, err := queryList("clGetPlatformIDs", 0, listQuery([]PlatformID{7, 11, 13}, &calls))
	require.NoError(t, err)
	require.Equal(t, []PlatformID{7, 11, 13}, ids)
	require.Equal(t, 2, calls)

	// Zero elements: no fill call.
	calls = 0
	ids, err = queryList("clGetPlatformIDs", 0, listQuery([]PlatformID{}, &calls))
	require.NoError(t, err)
	require.NotNil(t, ids)
	require.Len(t, ids, 0)
	require.Equal(t, 1, calls)
}

func TestQueryList_Errors(t *testing.T) {
	// Failure of the size call, the location is the caller of queryList.
	_, err := queryList("clGetDeviceIDs", 0, func(dst []DeviceID) (int, Status) { return 0, InvalidPlatform })
	_, _, line, _ := runtime.Caller(0)
	var clErr *Error
	require.True(t, errors.As(err, &clErr))
	require.Equal(t, InvalidPlatform, clErr.Code)
	require.Equal(t, "query_test.go", clErr.File)
	require.Equal(t, line-1, clErr.Line)

	// Failure of the fill call.
	_, err = queryList("clGetDeviceIDs", 0, func(dst []DeviceID) (int, Status) {
		if len(dst) == 0 {
			return 2, Success
		}
		return 0, OutOfResources
	})
	status, ok := StatusOf(err)
	require.True(t, ok)
	require.Equal(t, OutOfResources, status)

	// Fill reports a different size than the size call.
	_, err = queryList("clGetDeviceIDs", 0, func(dst []DeviceID) (int, Status) {
		if len(dst) == 0 {
			return 3, Success
		}
		return 2, Success
	})
	require.ErrorIs(t, err, ErrSizeMismatch)
	_, ok = StatusOf(err)
	require.False(t, ok)
}

func TestQueryString(t *testing.T) {
	str, err := queryString("clGetPlatformInfo", 0, bytesQuery([]byte("Fake Platform\x00")))
	require.NoError(t, err)
	require.Equal(t, "Fake Platform", str)

	// Cut at the first NUL.
	str, err = queryString("clGetPlatformInfo", 0, bytesQuery([]byte("abc\x00def\x00")))
	require.NoError(t, err)
	require.Equal(t, "abc", str)

	// Without terminating NUL, the string never exceeds the reported size.
	value := []byte("abcdef")
	str, err = queryString("clGetPlatformInfo", 0, bytesQuery(value))
	require.NoError(t, err)
	require.Equal(t, "abcdef", str)
	require.LessOrEqual(t, len(str), len(value))

	_, err = queryString("clGetPlatformInfo", 0, func(dst []byte) (int, Status) { return 0, InvalidValue })
	status, _ := StatusOf(err)
	require.Equal(t, InvalidValue, status)
}

func TestQueryScalar(t *testing.T) {
	v64, err := queryScalar[uint64]("clGetDeviceInfo", 0, bytesQuery(binary.NativeEndian.AppendUint64(nil, 1<<30)))
	require.NoError(t, err)
	require.Equal(t, uint64(1<<30), v64)

	v32, err := queryScalar[uint32]("clGetDeviceInfo", 0, bytesQuery(binary.NativeEndian.AppendUint32(nil, 1)))
	require.NoError(t, err)
	require.Equal(t, uint32(1), v32)

	deviceType, err := queryScalar[DeviceType]("clGetDeviceInfo", 0, bytesQuery(binary.NativeEndian.AppendUint64(nil, uint64(DeviceTypeGPU))))
	require.NoError(t, err)
	require.Equal(t, DeviceTypeGPU, deviceType)

	// A cl_uint value read as a cl_ulong: the driver rejects the buffer.
	_, err = queryScalar[uint32]("clGetDeviceInfo", 0, bytesQuery(binary.NativeEndian.AppendUint64(nil, 1)))
	status, _ := StatusOf(err)
	require.Equal(t, InvalidValue, status)

	// Driver writing fewer bytes than the value.
	_, err = queryScalar[uint64]("clGetDeviceInfo", 0, func(dst []byte) (int, Status) { return 4, Success })
	require.ErrorIs(t, err, ErrSizeMismatch)
}
