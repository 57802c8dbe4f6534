// Package composite paints resampled bitmaps onto a shared canvas.
//
// The canvas starts fully transparent. Each bitmap is painted at its plan
// offset with alpha-over blending, in plan order. Plan entries never overlap,
// so entries are painted concurrently, each goroutine owning its rectangle.
package composite

import (
	"image"
	"math"
	"sync"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// NewCanvas allocates a fully transparent canvas of the given size.
func NewCanvas(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "canvas must be positive, got %dx%d", w, h)
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}

// Composite paints bitmaps[i] at plan.Entries[i] and returns the canvas.
//
// There must be exactly one bitmap per entry, and each bitmap must match its
// entry's size; otherwise the result is ErrCodeSizeMismatch.
func Composite(plan layout.Plan, bitmaps []*image.NRGBA) (*image.NRGBA, error) {
	if len(bitmaps) != len(plan.Entries) {
		return nil, errors.New(errors.ErrCodeSizeMismatch,
			"plan has %d entries but %d bitmaps were supplied", len(plan.Entries), len(bitmaps))
	}
	for i, e := range plan.Entries {
		if bitmaps[i] == nil {
			return nil, errors.New(errors.ErrCodeSizeMismatch, "bitmap %d is missing", i)
		}
		if got := bitmaps[i].Bounds().Size(); got != e.Size() {
			return nil, errors.New(errors.ErrCodeSizeMismatch,
				"bitmap %d is %dx%d, plan expects %dx%d", i, got.X, got.Y, e.Width, e.Height)
		}
	}

	canvas, err := NewCanvas(plan.Width, plan.Height)
	if err != nil {
		return nil, err
	}
	for i, e := range plan.Entries {
		if !e.Rect().In(canvas.Bounds()) {
			return nil, errors.New(errors.ErrCodeSizeMismatch,
				"entry %d at %v falls outside the %dx%d canvas", i, e.Rect(), plan.Width, plan.Height)
		}
	}

	var wg sync.WaitGroup
	for i, e := range plan.Entries {
		wg.Add(1)
		go func(src *image.NRGBA, at image.Point) {
			defer wg.Done()
			Paint(canvas, src, at)
		}(bitmaps[i], image.Pt(e.X, e.Y))
	}
	wg.Wait()

	return canvas, nil
}

// Paint blends src over dst with its top-left corner at at.
// Pixels falling outside dst are ignored.
func Paint(dst, src *image.NRGBA, at image.Point) {
	sb := src.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si := src.PixOffset(sb.Min.X+x-at.X, sb.Min.Y+y-at.Y)
			di := dst.PixOffset(x, y)
			Over(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
		}
	}
}

// Over blends one non-premultiplied src pixel onto dst in place:
//
//	outA = sa + da*(1-sa)
//	out  = (src*sa + dst*da*(1-sa)) / outA
//
// Color is accumulated on premultiplied values and stored back
// non-premultiplied. A fully transparent result is stored as all zeros.
func Over(dst, src []uint8) {
	sa := float64(src[3]) / 255
	switch sa {
	case 1:
		copy(dst, src)
		return
	case 0:
		return
	}

	da := float64(dst[3]) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	for c := 0; c < 3; c++ {
		v := (float64(src[c])*sa + float64(dst[c])*da*(1-sa)) / outA
		dst[c] = to8(v)
	}
	dst[3] = to8(outA * 255)
}

func to8(v float64) uint8 {
	v = math.RoundToEven(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
