// Package pkg provides the core libraries for stackmerge image composition.
//
// # Overview
//
// Stackmerge concatenates an ordered list of independently sized raster
// images into one picture, stacked top-to-bottom or side-by-side. Every image
// is scaled to the common cross-axis size with its aspect ratio preserved,
// composited with alpha blending, and encoded to PNG, JPEG or WEBP. The pkg
// directory is organized into three areas:
//
//  1. [core] - Domain logic (decode, layout, resample, composite, encode, preview)
//  2. [pipeline] - Orchestration (decode → plan → resample → composite → preview | export)
//  3. Infrastructure - [cache], [config], [errors], [io], [observability], [source]
//
// # Architecture
//
// The typical data flow through stackmerge:
//
//	Files / byte buffers ([source])
//	         ↓
//	    [core/decode] (EXIF orientation, canonical NRGBA)
//	         ↓
//	    [core/layout] (common axis, scaled sizes, offsets)
//	         ↓
//	    [core/resample] (separable filter, alpha-aware)
//	         ↓
//	    [core/composite] (transparent canvas, alpha-over)
//	         ↓
//	    [core/preview] (display bitmap)  |  [core/sink] (PNG/JPEG/WEBP bytes)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	sources, _ := source.Files([]string{"a.png", "b.jpg"})
//
//	res, err := runner.Export(ctx, sources, layout.Vertical, pipeline.ExportOptions{
//	    Destination: "merged.webp",
//	    Lossless:    true,
//	})
//
// # Main Packages
//
// [core/layout] - Pure geometry. [layout.Build] turns source sizes and an
// orientation into a [layout.Plan] whose entries tile the canvas exactly.
//
// [core/resample] - Scaling with Lanczos, Catmull-Rom, Mitchell, linear or box
// kernels. Color is filtered premultiplied so transparent edges do not bleed.
//
// [core/sink] - Output formats. JPEG has no alpha channel, so the canvas is
// flattened onto a background color (white, a hex value, or the image's
// dominant color) first.
//
// [cache] - Exported artifacts keyed by input content and settings, stored
// on disk or in Redis.
//
// # Testing
//
// Run tests:
//
//	go test ./...                                  # All tests
//	go test ./pkg/core/layout/...                  # Specific package
//	STACKMERGE_TEST_REDIS=redis://localhost:6379/15 go test ./pkg/cache/...
//
// [core]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core
// [core/decode]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/decode
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/layout
// [core/resample]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/resample
// [core/composite]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/composite
// [core/preview]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/preview
// [core/sink]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/sink
// [layout.Build]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/layout#Build
// [layout.Plan]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/core/layout#Plan
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/observability
// [source]: https://pkg.go.dev/github.com/matzehuels/stackmerge/pkg/source
package pkg
