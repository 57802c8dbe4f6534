package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
)

// WritePlanJSON encodes a plan as indented JSON and writes it to w.
func WritePlanJSON(p layout.Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportPlanJSON writes a plan to a JSON file at path.
func ExportPlanJSON(p layout.Plan, path string) error {
	return WriteAtomic(path, 0o644, func(w io.Writer) error {
		return WritePlanJSON(p, w)
	})
}

// ReadPlanJSON decodes a plan written by WritePlanJSON.
func ReadPlanJSON(r io.Reader) (layout.Plan, error) {
	var p layout.Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return layout.Plan{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// ImportPlanJSON reads a plan from a JSON file.
func ImportPlanJSON(path string) (layout.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return layout.Plan{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlanJSON(f)
}
