package opencl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeviceType_Label(t *testing.T) {
	require.Equal(t, "CPU", DeviceTypeCPU.Label())
	require.Equal(t, "GPU", DeviceTypeGPU.Label())
	require.Equal(t, "Unknown", DeviceType(0).Label())
	require.Equal(t, "Unknown", DeviceTypeAccelerator.Label())
	require.Equal(t, "Unknown", DeviceTypeCustom.Label())

	// CPU has priority over GPU.
	require.Equal(t, "CPU", (DeviceTypeCPU | DeviceTypeGPU).Label())
	require.Equal(t, "GPU", (DeviceTypeGPU | DeviceTypeDefault).Label())
}

func TestDeviceType_String(t *testing.T) {
	require.Equal(t, "ALL", DeviceTypeAll.String())
	require.Equal(t, "NONE", DeviceType(0).String())
	require.Equal(t, "GPU", DeviceTypeGPU.String())
	require.Equal(t, "DEFAULT|GPU", (DeviceTypeGPU | DeviceTypeDefault).String())
	require.Equal(t, "CPU|0x100", (DeviceTypeCPU | 1<<8).String())
}

func TestParseDeviceType(t *testing.T) {
	for s, want := range map[string]DeviceType{
		"all":              DeviceTypeAll,
		"ALL":              DeviceTypeAll,
		"cpu":              DeviceTypeCPU,
		"Gpu":              DeviceTypeGPU,
		"accelerator":      DeviceTypeAccelerator,
		"custom":           DeviceTypeCustom,
		"default":          DeviceTypeDefault,
		"cpu|gpu":          DeviceTypeCPU | DeviceTypeGPU,
		"gpu, accelerator": DeviceTypeGPU | DeviceTypeAccelerator,
	} {
		got, err := ParseDeviceType(s)
		require.NoErrorf(t, err, "ParseDeviceType(%q)", s)
		require.Equalf(t, want, got, "ParseDeviceType(%q)", s)
	}

	_, err := ParseDeviceType("fpga")
	require.ErrorContains(t, err, "unknown device type")
	_, err = ParseDeviceType("")
	require.Error(t, err)
}
