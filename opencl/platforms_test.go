package opencl_test

import (
	"fmt"
	"testing"

	"github.com/gomlx/gocl/internal/fakedriver"
	"github.com/gomlx/gocl/opencl"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func newTestDriver() *fakedriver.Driver {
	return fakedriver.New(
		fakedriver.Platform{
			Name:       "Portable Computing Language",
			Vendor:     "The pocl project",
			Version:    "OpenCL 3.0 PoCL 6.0",
			Profile:    "FULL_PROFILE",
			Extensions: "cl_khr_icd cl_khr_fp64",
			Devices: []fakedriver.Device{
				{Name: "cpu-haswell", Vendor: "GenuineIntel", Type: opencl.DeviceTypeCPU | opencl.DeviceTypeDefault,
					GlobalMemSize: 1 << 30, LocalMemSize: 32768, Available: true, ComputeUnits: 8, ClockMHz: 3600},
			},
		},
		fakedriver.Platform{
			Name:   "NVIDIA CUDA",
			Vendor: "NVIDIA Corporation",
			Devices: []fakedriver.Device{
				{Name: "GeForce RTX", Type: opencl.DeviceTypeGPU, GlobalMemSize: 8 << 30, LocalMemSize: 49152, Available: true},
				{Name: "Tesla", Type: opencl.DeviceTypeGPU | opencl.DeviceTypeAccelerator, GlobalMemSize: 16 << 30, LocalMemSize: 49152},
			},
		})
}

func TestPlatforms(t *testing.T) {
	driver := newTestDriver()
	platforms, err := opencl.Platforms(driver)
	require.NoError(t, err)
	require.Len(t, platforms, 2)
	// Size call + fill call.
	require.Equal(t, 2, driver.CountCalls("clGetPlatformIDs"))

	p := platforms[0]
	fmt.Printf("%s\n", p)
	require.Equal(t, "Portable Computing Language", must.M1(p.Name()))
	require.Equal(t, "The pocl project", must.M1(p.Vendor()))
	require.Equal(t, "OpenCL 3.0 PoCL 6.0", must.M1(p.Version()))
	require.Equal(t, "FULL_PROFILE", must.M1(p.Profile()))
	require.Equal(t, "cl_khr_icd cl_khr_fp64", must.M1(p.Extensions()))
	require.Equal(t, "NVIDIA CUDA", must.M1(platforms[1].Name()))

	// Empty strings are still NUL terminated by the driver.
	require.Equal(t, "", must.M1(platforms[1].Version()))
}

func TestPlatforms_None(t *testing.T) {
	driver := fakedriver.New()
	platforms, err := opencl.Platforms(driver)
	require.NoError(t, err)
	require.Len(t, platforms, 0)
	// No fill call with zero entries.
	require.Equal(t, 1, driver.CountCalls("clGetPlatformIDs"))

	// ICD loader without vendor drivers.
	driver = newTestDriver()
	driver.PlatformIDsStatus = opencl.PlatformNotFoundKHR
	platforms, err = opencl.Platforms(driver)
	require.NoError(t, err)
	require.Len(t, platforms, 0)
}

func TestPlatforms_Errors(t *testing.T) {
	driver := newTestDriver()
	driver.PlatformIDsStatus = opencl.OutOfHostMemory
	_, err := opencl.Platforms(driver)
	require.Error(t, err)
	status, ok := opencl.StatusOf(err)
	require.True(t, ok)
	require.Equal(t, opencl.OutOfHostMemory, status)

	driver = newTestDriver()
	driver.ShrinkOnFill = true
	_, err = opencl.Platforms(driver)
	require.ErrorIs(t, err, opencl.ErrSizeMismatch)
}

func TestPlatform_InvalidInfo(t *testing.T) {
	driver := newTestDriver()
	platforms := must.M1(opencl.Platforms(driver))
	_, err := platforms[0].Info(opencl.PlatformInfo(239))
	require.Error(t, err)
	fmt.Printf("Received expected error: %v\n", err)
	status, _ := opencl.StatusOf(err)
	require.Equal(t, opencl.InvalidValue, status)
	require.ErrorContains(t, err, "clGetPlatformInfo returned CL_INVALID_VALUE")
	require.ErrorContains(t, err, "platforms_test.go:")

	// Later queries still work.
	require.Equal(t, "Portable Computing Language", must.M1(platforms[0].Name()))
}

func TestPlatform_Devices(t *testing.T) {
	driver := newTestDriver()
	platforms := must.M1(opencl.Platforms(driver))

	devices := must.M1(platforms[1].Devices(opencl.DeviceTypeAll))
	require.Len(t, devices, 2)
	require.Equal(t, platforms[1], devices[0].Platform())
	require.Equal(t, "GeForce RTX", must.M1(devices[0].Name()))
	require.Equal(t, "Tesla", must.M1(devices[1].Name()))

	// Filter by type.
	devices = must.M1(platforms[1].Devices(opencl.DeviceTypeAccelerator))
	require.Len(t, devices, 1)
	require.Equal(t, "Tesla", must.M1(devices[0].Name()))

	// No matching devices: CL_DEVICE_NOT_FOUND is reported as an empty list.
	devices, err := platforms[1].Devices(opencl.DeviceTypeCPU)
	require.NoError(t, err)
	require.NotNil(t, devices)
	require.Len(t, devices, 0)

	// Other errors are propagated.
	driver.Fail["clGetDeviceIDs"] = opencl.InvalidDeviceType
	_, err = platforms[0].Devices(opencl.DeviceTypeAll)
	status, _ := opencl.StatusOf(err)
	require.Equal(t, opencl.InvalidDeviceType, status)
}

func TestDevice_Attributes(t *testing.T) {
	driver := newTestDriver()
	platforms := must.M1(opencl.Platforms(driver))
	device := must.M1(platforms[0].Devices(opencl.DeviceTypeAll))[0]
	fmt.Printf("%s\n", device)

	require.Equal(t, "cpu-haswell", must.M1(device.Name()))
	require.Equal(t, "GenuineIntel", must.M1(device.Vendor()))
	deviceType := must.M1(device.Type())
	require.Equal(t, opencl.DeviceTypeCPU|opencl.DeviceTypeDefault, deviceType)
	require.Equal(t, "CPU", deviceType.Label())
	require.Equal(t, uint64(1<<30), must.M1(device.GlobalMemSize()))
	require.Equal(t, uint64(32768), must.M1(device.LocalMemSize()))
	require.True(t, must.M1(device.Available()))
	require.Equal(t, uint32(8), must.M1(device.MaxComputeUnits()))
	require.Equal(t, uint32(3600), must.M1(device.MaxClockFrequency()))

	gpu := must.M1(platforms[1].Devices(opencl.DeviceTypeAll))[1]
	require.False(t, must.M1(gpu.Available()))
	require.Equal(t, "Unknown", opencl.DeviceType(0).Label())

	// Failing attribute query.
	driver.Fail["clGetDeviceInfo:CL_DEVICE_GLOBAL_MEM_SIZE"] = opencl.OutOfResources
	_, err := device.GlobalMemSize()
	require.Error(t, err)
	var clErr *opencl.Error
	require.ErrorAs(t, err, &clErr)
	require.Equal(t, opencl.OutOfResources, clErr.Code)
	require.Equal(t, "clGetDeviceInfo", clErr.Call)

	// Attribute not known by the driver.
	_, err = device.MaxMemAllocSize()
	status, _ := opencl.StatusOf(err)
	require.Equal(t, opencl.InvalidValue, status)

	// Stale handle.
	stale := opencl.NewDevice(driver, nil, opencl.DeviceID(99_001))
	_, err = stale.Name()
	status, _ = opencl.StatusOf(err)
	require.Equal(t, opencl.InvalidDevice, status)
}
