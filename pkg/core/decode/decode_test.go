package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	stackerrors "github.com/matzehuels/stackmerge/pkg/errors"
	"github.com/matzehuels/stackmerge/pkg/source"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// withOrientation splices a minimal EXIF APP1 segment carrying the given
// orientation tag right after the JPEG SOI marker.
func withOrientation(jpg []byte, orientation uint16) []byte {
	var app1 bytes.Buffer
	app1.WriteString("Exif\x00\x00")
	app1.WriteString("MM")
	binary.Write(&app1, binary.BigEndian, uint16(0x002a))
	binary.Write(&app1, binary.BigEndian, uint32(8))
	binary.Write(&app1, binary.BigEndian, uint16(1))      // one IFD entry
	binary.Write(&app1, binary.BigEndian, uint16(0x0112)) // Orientation
	binary.Write(&app1, binary.BigEndian, uint16(3))      // SHORT
	binary.Write(&app1, binary.BigEndian, uint32(1))
	binary.Write(&app1, binary.BigEndian, orientation)
	binary.Write(&app1, binary.BigEndian, uint16(0))
	binary.Write(&app1, binary.BigEndian, uint32(0)) // no next IFD

	var out bytes.Buffer
	out.Write(jpg[:2])
	out.Write([]byte{0xff, 0xe1})
	binary.Write(&out, binary.BigEndian, uint16(app1.Len()+2))
	out.Write(app1.Bytes())
	out.Write(jpg[2:])
	return out.Bytes()
}

func TestBytesPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 7, 3))
	src.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	img, err := Bytes("a.png", encodePNG(t, src))
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if img.Size() != image.Pt(7, 3) {
		t.Errorf("Size() = %v, want (7,3)", img.Size())
	}
	if got := img.Bitmap.NRGBAAt(2, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("pixel = %v, want non-premultiplied value preserved", got)
	}
	if len(img.Hash) != 64 {
		t.Errorf("Hash length = %d, want 64", len(img.Hash))
	}
	if img.Name != "a.png" {
		t.Errorf("Name = %q", img.Name)
	}
}

func TestBytesOffsetBoundsNormalized(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img, err := Bytes("a.png", encodePNG(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bitmap.Rect.Min != (image.Point{}) {
		t.Errorf("bitmap origin = %v, want (0,0)", img.Bitmap.Rect.Min)
	}
}

func TestBytesAppliesOrientation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 20 {
				c = color.RGBA{B: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}

	img, err := Bytes("rotated.jpg", withOrientation(buf.Bytes(), 6))
	if err != nil {
		t.Fatalf("Bytes() error: %v", err)
	}
	if img.Size() != image.Pt(20, 40) {
		t.Fatalf("Size() = %v, want (20,40) after orientation 6", img.Size())
	}

	top := img.Bitmap.NRGBAAt(10, 5)
	bottom := img.Bitmap.NRGBAAt(10, 35)
	if top.R < 200 || top.B > 60 {
		t.Errorf("top pixel = %v, want red (left edge rotated to top)", top)
	}
	if bottom.B < 200 || bottom.R > 60 {
		t.Errorf("bottom pixel = %v, want blue", bottom)
	}
}

func TestBytesErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not an image at all")},
		{"truncated png", encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 8, 8)))[:20]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bytes(tt.name, tt.data)
			if !stackerrors.Is(err, stackerrors.ErrCodeDecode) {
				t.Errorf("Bytes() error = %v, want %s", err, stackerrors.ErrCodeDecode)
			}
		})
	}
}

func TestDecodeSource(t *testing.T) {
	data := encodePNG(t, image.NewNRGBA(image.Rect(0, 0, 5, 6)))

	img, err := Decode(context.Background(), source.Bytes{Label: "mem", Data: data})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Size() != image.Pt(5, 6) {
		t.Errorf("Size() = %v", img.Size())
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(context.Background(), source.File(filepath.Join(t.TempDir(), "nope.png")))
	if !stackerrors.Is(err, stackerrors.ErrCodeDecode) {
		t.Errorf("Decode() error = %v, want %s", err, stackerrors.ErrCodeDecode)
	}
}

func TestDecodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Decode(ctx, source.Bytes{Label: "mem", Data: []byte("x")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Decode() error = %v, want context.Canceled", err)
	}
}

func TestSizes(t *testing.T) {
	imgs := []*Image{
		{Bitmap: image.NewNRGBA(image.Rect(0, 0, 1, 2))},
		{Bitmap: image.NewNRGBA(image.Rect(0, 0, 3, 4))},
	}
	got := Sizes(imgs)
	if got[0] != image.Pt(1, 2) || got[1] != image.Pt(3, 4) {
		t.Errorf("Sizes() = %v", got)
	}
}
