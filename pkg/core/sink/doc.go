// Package sink encodes composited canvases to raster output formats.
//
// # Formats
//
//   - PNG: lossless, keeps the alpha channel
//   - JPEG: lossy, no alpha; the canvas is flattened onto an opaque
//     background before encoding
//   - WEBP: lossy by default, lossless on request; keeps the alpha channel
//
// [ParseFormat] accepts format names and file extensions ("jpg", ".JPEG").
// Anything else is rejected with errors.ErrCodeUnsupportedFormat.
//
// # Quality
//
// Quality is clamped to the codec range by [ClampQuality], never rejected:
// JPEG uses 1..100, WEBP uses 0..100 and PNG ignores it.
//
// # Background
//
// [ParseBackground] reads the flatten color used for formats without alpha.
// It accepts CSS-style hex ("#fff", "#1e1e2e"), the empty string for white,
// and "auto", which picks the dominant color of the canvas itself.
//
//	err := sink.Encode(w, canvas, sink.Options{
//	    Format:  sink.JPEG,
//	    Quality: 90,
//	})
package sink
