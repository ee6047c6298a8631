package opencl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DeviceType is the cl_device_type bitmask. It's both the type of a device (CL_DEVICE_TYPE attribute)
// and the filter given to clGetDeviceIDs.
type DeviceType uint64

// Values copied from CL/cl.h.
const (
	DeviceTypeDefault     DeviceType = 1 << 0
	DeviceTypeCPU         DeviceType = 1 << 1
	DeviceTypeGPU         DeviceType = 1 << 2
	DeviceTypeAccelerator DeviceType = 1 << 3
	DeviceTypeCustom      DeviceType = 1 << 4
	DeviceTypeAll         DeviceType = 0xFFFFFFFF
)

var deviceTypeBits = []struct {
	bit  DeviceType
	name string
}{
	{DeviceTypeDefault, "DEFAULT"},
	{DeviceTypeCPU, "CPU"},
	{DeviceTypeGPU, "GPU"},
	{DeviceTypeAccelerator, "ACCELERATOR"},
	{DeviceTypeCustom, "CUSTOM"},
}

// Label classifies the device type as "CPU", "GPU" or "Unknown".
//
// The CPU bit is checked first, so a mask with both CPU and GPU bits set is a "CPU".
// Accelerator and custom devices are reported as "Unknown".
func (t DeviceType) Label() string {
	switch {
	case t&DeviceTypeCPU != 0:
		return "CPU"
	case t&DeviceTypeGPU != 0:
		return "GPU"
	default:
		return "Unknown"
	}
}

// String lists the bits set, separated by "|", e.g.: "DEFAULT|GPU". Unknown bits are printed in hex.
func (t DeviceType) String() string {
	if t == DeviceTypeAll {
		return "ALL"
	}
	if t == 0 {
		return "NONE"
	}
	var parts []string
	remaining := t
	for _, b := range deviceTypeBits {
		if t&b.bit != 0 {
			parts = append(parts, b.name)
			remaining &^= b.bit
		}
	}
	if remaining != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint64(remaining)))
	}
	return strings.Join(parts, "|")
}

// ParseDeviceType parses a device type filter: "all", "default", "cpu", "gpu", "accelerator", "custom"
// or a "|" or "," separated combination of them. It's case-insensitive.
func ParseDeviceType(s string) (DeviceType, error) {
	var t DeviceType
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "ALL":
			t |= DeviceTypeAll
		case "DEFAULT":
			t |= DeviceTypeDefault
		case "CPU":
			t |= DeviceTypeCPU
		case "GPU":
			t |= DeviceTypeGPU
		case "ACCELERATOR":
			t |= DeviceTypeAccelerator
		case "CUSTOM":
			t |= DeviceTypeCustom
		default:
			return 0, errors.Errorf("unknown device type %q in %q: valid values are all, default, cpu, gpu, accelerator and custom", part, s)
		}
	}
	if t == 0 {
		return 0, errors.Errorf("empty device type %q", s)
	}
	return t, nil
}
