package clinfo

import (
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct converts the inventory to a structpb.Struct, with the same fields in the text report plus
// the raw sizes in bytes and the full device type mask.
func ToStruct(inv *Inventory) (*structpb.Struct, error) {
	platforms := make([]any, 0, len(inv.Platforms))
	for _, p := range inv.Platforms {
		devices := make([]any, 0, len(p.Devices))
		for _, d := range p.Devices {
			device := map[string]any{
				"index":            d.Index + 1,
				"name":             d.Name,
				"type":             d.Type.Label(),
				"type_mask":        d.Type.String(),
				"global_mem_bytes": d.GlobalMemSize,
				"global_mem_mb":    Mebibytes(d.GlobalMemSize),
				"local_mem_bytes":  d.LocalMemSize,
				"local_mem_kb":     Kibibytes(d.LocalMemSize),
				"available":        d.Available,
			}
			if d.Vendor != "" || d.MaxComputeUnits != 0 || d.MaxClockFrequency != 0 {
				device["vendor"] = d.Vendor
				device["max_compute_units"] = d.MaxComputeUnits
				device["max_clock_frequency_mhz"] = d.MaxClockFrequency
			}
			devices = append(devices, device)
		}
		platform := map[string]any{
			"index":       p.Index + 1,
			"name":        p.Name,
			"vendor":      p.Vendor,
			"num_devices": p.NumDevices,
			"devices":     devices,
		}
		if p.Version != "" {
			platform["version"] = p.Version
		}
		if p.Incomplete {
			platform["incomplete"] = true
		}
		platforms = append(platforms, platform)
	}
	report := map[string]any{
		"num_platforms": inv.NumPlatforms,
		"platforms":     platforms,
	}
	if q := inv.InvalidQuery; q != nil {
		invalid := map[string]any{
			"selector": uint32(q.Selector),
			"status":   int32(q.Status),
		}
		if q.Err != nil {
			invalid["status_name"] = q.Status.String()
			invalid["error"] = q.Err.Error()
		}
		report["invalid_query"] = invalid
	}
	s, err := structpb.NewStruct(report)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert OpenCL inventory to a structpb.Struct")
	}
	return s, nil
}

// WriteJSON writes the inventory as a JSON object, see ToStruct for its contents.
func WriteJSON(w io.Writer, inv *Inventory) error {
	s, err := ToStruct(inv)
	if err != nil {
		return err
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal OpenCL inventory to JSON")
	}
	data = append(data, '\n')
	if _, err = w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write OpenCL inventory")
	}
	return nil
}
