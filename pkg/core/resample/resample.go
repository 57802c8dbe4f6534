// Package resample scales NRGBA bitmaps with separable averaging kernels.
//
// The four channels are filtered as independent planes. Color is never
// multiplied by alpha before filtering, so the color stored under fully
// transparent pixels does not bleed into visible edges and a uniformly
// colored image keeps its color regardless of how its alpha varies.
//
// Each output sample is a normalized weighted sum of source samples along one
// axis, rounded half-to-even and clamped to [0, 255] after the second pass.
// The intermediate pass keeps full float precision.
package resample

import (
	"image"
	"math"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Resize returns a new bitmap of exactly w×h pixels.
//
// When the target size equals the source size the result is a copy of src.
// Either dimension ≤ 0 yields ErrCodeInvalidDimensions.
func Resize(src *image.NRGBA, w, h int, f Filter) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "resample target must be positive, got %dx%d", w, h)
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "resample source is nil")
	}
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw <= 0 || sh <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "resample source is empty (%dx%d)", sw, sh)
	}
	if sw == w && sh == h {
		return clone(src), nil
	}
	if f.Kernel == nil || f.Support <= 0 {
		f = DefaultFilter
	}

	planes := toPlanes(src)
	if sw != w {
		planes = horizontal(planes, sw, sh, w, weights(w, sw, f))
	}
	if sh != h {
		planes = vertical(planes, w, sh, h, weights(h, sh, f))
	}
	return fromPlanes(planes, w, h), nil
}

type tap struct {
	index  int
	weight float64
}

// weights computes, for each of dstSize output samples, the normalized taps
// into a source axis of srcSize samples. When shrinking, the kernel is
// stretched by the scale factor so every source sample contributes.
func weights(dstSize, srcSize int, f Filter) [][]tap {
	du := float64(srcSize) / float64(dstSize)
	scale := math.Max(du, 1)
	radius := math.Ceil(scale * f.Support)

	out := make([][]tap, dstSize)
	for v := range out {
		center := (float64(v)+0.5)*du - 0.5
		begin := max(int(math.Ceil(center-radius)), 0)
		end := min(int(math.Floor(center+radius)), srcSize-1)

		taps := make([]tap, 0, end-begin+1)
		var sum float64
		for u := begin; u <= end; u++ {
			wt := f.Kernel((float64(u) - center) / scale)
			if wt != 0 {
				taps = append(taps, tap{u, wt})
				sum += wt
			}
		}
		if len(taps) == 0 || sum == 0 {
			nearest := min(max(int(math.Floor(center+0.5)), 0), srcSize-1)
			out[v] = []tap{{nearest, 1}}
			continue
		}
		for i := range taps {
			taps[i].weight /= sum
		}
		out[v] = taps
	}
	return out
}

// toPlanes unpacks src into interleaved float RGBA samples, origin at (0,0).
func toPlanes(src *image.NRGBA) []float64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h*4)
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for i := 0; i < w*4; i++ {
			out[y*w*4+i] = float64(row[i])
		}
	}
	return out
}

func horizontal(in []float64, sw, sh, dw int, taps [][]tap) []float64 {
	out := make([]float64, dw*sh*4)
	for y := 0; y < sh; y++ {
		srow := in[y*sw*4:]
		drow := out[y*dw*4:]
		for x, ts := range taps {
			var r, g, b, a float64
			for _, t := range ts {
				p := srow[t.index*4:]
				r += p[0] * t.weight
				g += p[1] * t.weight
				b += p[2] * t.weight
				a += p[3] * t.weight
			}
			d := drow[x*4:]
			d[0], d[1], d[2], d[3] = r, g, b, a
		}
	}
	return out
}

func vertical(in []float64, w, sh, dh int, taps [][]tap) []float64 {
	out := make([]float64, w*dh*4)
	stride := w * 4
	for y, ts := range taps {
		drow := out[y*stride:]
		for i := 0; i < stride; i++ {
			var v float64
			for _, t := range ts {
				v += in[t.index*stride+i] * t.weight
			}
			drow[i] = v
		}
	}
	return out
}

func fromPlanes(in []float64, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, v := range in {
		dst.Pix[i] = clamp8(v)
	}
	return dst
}

func clamp8(v float64) uint8 {
	v = math.RoundToEven(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func clone(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		s := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[s:s+b.Dx()*4])
	}
	return dst
}
