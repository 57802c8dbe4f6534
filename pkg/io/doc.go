// Package io writes stackmerge outputs to disk.
//
// # Atomic Writes
//
// [WriteAtomic] streams output into a temporary file created next to the
// destination, syncs it, and renames it over the destination. A failed or
// canceled write removes the temporary file and leaves any existing file at
// the destination untouched, so a reader never observes a half-written image.
//
//	err := io.WriteAtomic("merged.png", 0o644, func(w io.Writer) error {
//	    return sink.Encode(w, canvas, opts)
//	})
//
// # Plan Export
//
// [WritePlanJSON] and [ExportPlanJSON] serialize a layout plan: orientation,
// canvas size and each entry's source size, scaled size and offset.
//
//	{
//	  "orientation": "vertical",
//	  "width": 200,
//	  "height": 200,
//	  "entries": [
//	    {"source_width": 100, "source_height": 50, "width": 200, "height": 100, "x": 0, "y": 0},
//	    {"source_width": 200, "source_height": 100, "width": 200, "height": 100, "x": 0, "y": 100}
//	  ]
//	}
package io
