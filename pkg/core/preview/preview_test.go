package preview

import (
	"image"
	"testing"

	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		in   image.Point
		b    Bounds
		want image.Point
	}{
		{"wide", image.Pt(1600, 400), DefaultBounds, image.Pt(800, 200)},
		{"tall", image.Pt(200, 2000), DefaultBounds, image.Pt(80, 800)},
		{"square", image.Pt(1000, 1000), DefaultBounds, image.Pt(800, 800)},
		{"small stays", image.Pt(120, 90), DefaultBounds, image.Pt(120, 90)},
		{"exact fit", image.Pt(800, 800), DefaultBounds, image.Pt(800, 800)},
		{"sliver", image.Pt(10000, 1), DefaultBounds, image.Pt(800, 1)},
		{"uneven box", image.Pt(400, 400), Bounds{300, 100}, image.Pt(100, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Fit(tt.in); got != tt.want {
				t.Errorf("Fit(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReduceNeverUpscales(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	got, err := Reduce(src, DefaultBounds, resample.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Size() != image.Pt(40, 30) {
		t.Fatalf("size = %v, want unchanged 40x30", got.Bounds().Size())
	}
	if &got.Pix[0] == &src.Pix[0] {
		t.Error("Reduce must not return the canvas itself")
	}
	for i := range src.Pix {
		if got.Pix[i] != src.Pix[i] {
			t.Fatalf("pix[%d] changed", i)
		}
	}
}

func TestReduceFitsBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1200, 300))
	got, err := Reduce(src, DefaultBounds, resample.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Size() != image.Pt(800, 200) {
		t.Errorf("size = %v, want 800x200", got.Bounds().Size())
	}
	if src.Bounds().Size() != image.Pt(1200, 300) {
		t.Error("source canvas was modified")
	}
}

func TestReduceIdempotent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 900, 1800))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 13)
	}
	once, err := Reduce(src, DefaultBounds, resample.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Reduce(once, DefaultBounds, resample.Lanczos)
	if err != nil {
		t.Fatal(err)
	}
	if once.Bounds() != twice.Bounds() {
		t.Fatalf("second reduce changed size %v -> %v", once.Bounds(), twice.Bounds())
	}
	for i := range once.Pix {
		if once.Pix[i] != twice.Pix[i] {
			t.Fatalf("second reduce changed pixel byte %d", i)
		}
	}
}

func TestReduceInvalidBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if _, err := Reduce(src, Bounds{0, 100}, resample.Lanczos); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("error = %v, want INVALID_DIMENSIONS", err)
	}
}
