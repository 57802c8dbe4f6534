package composite

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// An opaque image stacked over one with a transparent hole: the first keeps
// its pixels, the hole stays transparent rather than turning black.
func TestCompositeTransparentCenter(t *testing.T) {
	red := color.NRGBA{200, 10, 10, 255}
	blue := color.NRGBA{10, 10, 200, 255}

	first := solid(50, 50, red)
	second := solid(50, 50, blue)
	for y := 10; y < 40; y++ {
		for x := 10; x < 40; x++ {
			second.SetNRGBA(x, y, color.NRGBA{})
		}
	}

	plan, err := layout.Build([]image.Point{{50, 50}, {50, 50}}, layout.Vertical)
	if err != nil {
		t.Fatal(err)
	}
	canvas, err := Composite(plan, []*image.NRGBA{first, second})
	if err != nil {
		t.Fatalf("Composite() error: %v", err)
	}

	if canvas.Bounds() != image.Rect(0, 0, 50, 100) {
		t.Fatalf("canvas bounds = %v", canvas.Bounds())
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if c := canvas.NRGBAAt(x, y); c != red {
				t.Fatalf("first region (%d,%d) = %v, want %v", x, y, c, red)
			}
		}
	}
	if c := canvas.NRGBAAt(25, 75); c.A != 0 {
		t.Errorf("hole pixel = %v, want transparent", c)
	}
	if c := canvas.NRGBAAt(5, 55); c != blue {
		t.Errorf("frame pixel = %v, want %v", c, blue)
	}
}

func TestCompositeHorizontalOffsets(t *testing.T) {
	plan, err := layout.Build([]image.Point{{2, 3}, {4, 3}}, layout.Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	a := solid(2, 3, color.NRGBA{1, 2, 3, 255})
	b := solid(4, 3, color.NRGBA{4, 5, 6, 255})

	canvas, err := Composite(plan, []*image.NRGBA{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if got := canvas.NRGBAAt(1, 2); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("(1,2) = %v", got)
	}
	if got := canvas.NRGBAAt(2, 0); got != (color.NRGBA{4, 5, 6, 255}) {
		t.Errorf("(2,0) = %v", got)
	}
}

func TestCompositeSemiTransparentOnEmptyCanvas(t *testing.T) {
	c := color.NRGBA{90, 180, 30, 128}
	plan, _ := layout.Build([]image.Point{{3, 3}}, layout.Vertical)

	canvas, err := Composite(plan, []*image.NRGBA{solid(3, 3, c)})
	if err != nil {
		t.Fatal(err)
	}
	if got := canvas.NRGBAAt(1, 1); got != c {
		t.Errorf("pixel = %v, want %v unchanged", got, c)
	}
}

func TestCompositeMismatch(t *testing.T) {
	plan, err := layout.Build([]image.Point{{10, 10}, {10, 10}}, layout.Vertical)
	if err != nil {
		t.Fatal(err)
	}
	ok := solid(10, 10, color.NRGBA{A: 255})

	tests := []struct {
		name    string
		bitmaps []*image.NRGBA
	}{
		{"too few", []*image.NRGBA{ok}},
		{"too many", []*image.NRGBA{ok, ok, ok}},
		{"wrong size", []*image.NRGBA{ok, solid(10, 9, color.NRGBA{})}},
		{"nil bitmap", []*image.NRGBA{ok, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Composite(plan, tt.bitmaps)
			if !errors.Is(err, errors.ErrCodeSizeMismatch) {
				t.Errorf("Composite() error = %v, want SIZE_MISMATCH", err)
			}
		})
	}
}

func TestOver(t *testing.T) {
	tests := []struct {
		name     string
		dst, src []uint8
		want     []uint8
	}{
		{"opaque src replaces", []uint8{1, 2, 3, 255}, []uint8{9, 8, 7, 255}, []uint8{9, 8, 7, 255}},
		{"transparent src keeps dst", []uint8{1, 2, 3, 200}, []uint8{9, 8, 7, 0}, []uint8{1, 2, 3, 200}},
		{"half over opaque", []uint8{0, 0, 0, 255}, []uint8{255, 255, 255, 255 / 2}, []uint8{127, 127, 127, 255}},
		{"half over transparent", []uint8{0, 0, 0, 0}, []uint8{200, 100, 50, 128}, []uint8{200, 100, 50, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := append([]uint8(nil), tt.dst...)
			Over(dst, tt.src)
			for i := range dst {
				if dst[i] != tt.want[i] {
					t.Fatalf("Over() = %v, want %v", dst, tt.want)
				}
			}
		})
	}
}

func TestNewCanvas(t *testing.T) {
	c, err := NewCanvas(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range c.Pix {
		if v != 0 {
			t.Fatal("canvas should start fully transparent")
		}
	}
	if _, err := NewCanvas(0, 2); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("NewCanvas(0,2) error = %v", err)
	}
}
