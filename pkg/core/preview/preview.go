// Package preview reduces a composited canvas to a display-sized bitmap.
//
// Reduction is pure: it never touches the canvas it is given and never
// influences what gets exported.
package preview

import (
	"image"
	"math"

	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Bounds is the box a preview must fit in.
type Bounds struct {
	MaxWidth  int `toml:"max_width" json:"max_width"`
	MaxHeight int `toml:"max_height" json:"max_height"`
}

// DefaultBounds matches a typical preview pane.
var DefaultBounds = Bounds{MaxWidth: 800, MaxHeight: 800}

// Validate rejects non-positive bounds.
func (b Bounds) Validate() error {
	return errors.ValidateBounds(b.MaxWidth, b.MaxHeight)
}

// Fit returns the largest size with the aspect of size that fits within b.
// Sizes already inside b are returned unchanged.
func (b Bounds) Fit(size image.Point) image.Point {
	if size.X <= b.MaxWidth && size.Y <= b.MaxHeight {
		return size
	}
	scale := math.Min(float64(b.MaxWidth)/float64(size.X), float64(b.MaxHeight)/float64(size.Y))
	w := max(int(math.RoundToEven(float64(size.X)*scale)), 1)
	h := max(int(math.RoundToEven(float64(size.Y)*scale)), 1)
	return image.Pt(min(w, b.MaxWidth), min(h, b.MaxHeight))
}

// Reduce downsizes img to fit b with filter f. It never upscales: an image
// already within b comes back as an unscaled copy.
func Reduce(img *image.NRGBA, b Bounds, f resample.Filter) (*image.NRGBA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "preview source is nil")
	}
	size := b.Fit(img.Bounds().Size())
	return resample.Resize(img, size.X, size.Y, f)
}
