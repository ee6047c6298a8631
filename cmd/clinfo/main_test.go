package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/gomlx/gocl/clinfo"
	"github.com/gomlx/gocl/internal/fakedriver"
	"github.com/gomlx/gocl/opencl"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func newTestDriver() *fakedriver.Driver {
	return fakedriver.New(fakedriver.Platform{
		Name:   "Fake Platform",
		Vendor: "Fake Vendor",
		Devices: []fakedriver.Device{
			{Name: "gpu0", Type: opencl.DeviceTypeGPU, GlobalMemSize: 4 << 30, LocalMemSize: 65536, Available: true},
		},
	})
}

func TestRun(t *testing.T) {
	cfg := config{format: "text", collect: clinfo.Options{InvalidQuery: true}}
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), &buf, newTestDriver(), cfg))
	require.Equal(t, `Number of OpenCL platforms: 1
Invoking clGetPlatformInfo with incorrect parameter...
OCL exception caught, errorcode: -30

Platform #1/1
    Platform name: Fake Platform
    Platform vendor: Fake Vendor
    Devices available: 1
    Device #1/#1
        Name: gpu0
        Type: GPU
        Global memory size: 4096 MB
        Local memory size: 64 KB
        Available: Yes
`, buf.String())

	buf.Reset()
	cfg.format = "json"
	require.NoError(t, run(context.Background(), &buf, newTestDriver(), cfg))
	var report map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Equal(t, float64(1), report["num_platforms"])
}

func TestRun_Failure(t *testing.T) {
	driver := newTestDriver()
	driver.Fail["clGetDeviceIDs"] = opencl.OutOfHostMemory
	var buf bytes.Buffer
	err := run(context.Background(), &buf, driver, config{format: "text"})
	require.Error(t, err)
	status, _ := opencl.StatusOf(err)
	require.Equal(t, opencl.OutOfHostMemory, status)
	// Platform attributes read before the failure are still printed.
	require.Equal(t, "Number of OpenCL platforms: 1\n"+
		"Platform #1/1\n"+
		"    Platform name: Fake Platform\n"+
		"    Platform vendor: Fake Vendor\n", buf.String())
}

func TestConfigFromFlags(t *testing.T) {
	defer func(format, deviceType string) {
		*flagFormat, *flagDeviceType = format, deviceType
	}(*flagFormat, *flagDeviceType)

	cfg := must.M1(configFromFlags())
	require.Equal(t, "text", cfg.format)
	require.Equal(t, opencl.DeviceTypeAll, cfg.collect.DeviceType)
	require.True(t, cfg.collect.InvalidQuery)

	*flagFormat, *flagDeviceType = "json", "cpu|gpu"
	cfg = must.M1(configFromFlags())
	require.Equal(t, "json", cfg.format)
	require.Equal(t, opencl.DeviceTypeCPU|opencl.DeviceTypeGPU, cfg.collect.DeviceType)

	*flagFormat = "yaml"
	_, err := configFromFlags()
	require.ErrorContains(t, err, "unknown -format")

	*flagFormat, *flagDeviceType = "text", "fpga"
	_, err = configFromFlags()
	require.ErrorContains(t, err, "invalid -device_type")
}

func TestListDrivers(t *testing.T) {
	var buf bytes.Buffer
	listDrivers(&buf, nil)
	require.Contains(t, buf.String(), opencl.LibraryPathsEnv)

	buf.Reset()
	listDrivers(&buf, []string{"/usr/lib/libOpenCL.so.1", "/opt/lib/libOpenCL.so"})
	require.Equal(t, "/usr/lib/libOpenCL.so.1\n/opt/lib/libOpenCL.so\n", buf.String())
}
