// Package layout plans where each source image lands on the merged canvas.
//
// # Overview
//
// Given the ordered dimensions of the decoded images and a stack [Orientation],
// [Build] normalizes every image onto a common cross-axis size and stacks them
// along the main axis. The returned [Plan] holds everything the compositor
// needs:
//
//   - Canvas width and height
//   - Per-image scaled size and offset, in input order
//
// # Scaling Rule
//
// Vertical stacks use the widest image as the common width; every other image
// is scaled (up) to that width and its height follows the aspect ratio:
//
//	height_i = roundHalfEven(h_i * maxWidth / w_i)
//
// Horizontal stacks are symmetric on heights. A single image plans to its own
// size, so no resampling is needed.
//
// # Rounding
//
// The canvas main-axis size is the exact sum of the rounded per-image sizes,
// never a rounding of the unrounded sum. Recomputing the canvas size from the
// raw ratios can therefore differ by up to n-1 pixels; the plan is always
// self-consistent, which is what compositing relies on.
//
// # Errors
//
// [Build] fails with errors.ErrCodeEmptyInput for zero images and with
// errors.ErrCodeInvalidDimensions when any width or height is not positive.
package layout
