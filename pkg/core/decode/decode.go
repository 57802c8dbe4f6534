// Package decode turns image byte sources into canonical NRGBA bitmaps.
//
// Decoding applies any EXIF orientation tag before the bitmap is returned, so
// every later stage sees the visually correct width and height. Formats are
// resolved through the image package registry: PNG, JPEG and GIF from the
// standard library, WEBP, BMP and TIFF from golang.org/x/image.
package decode

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/stackmerge/pkg/errors"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// Image is a decoded source image. It is immutable once returned.
type Image struct {
	// Name is the source name, used in logs and errors.
	Name string
	// Hash is the SHA-256 of the raw source bytes (hex encoded).
	Hash string
	// Bitmap holds the orientation-corrected pixels, origin at (0, 0).
	Bitmap *image.NRGBA
}

// Size returns the bitmap dimensions.
func (img *Image) Size() image.Point {
	return img.Bitmap.Bounds().Size()
}

// Decode reads src completely and decodes it.
// Any read or decode failure is reported as errors.ErrCodeDecode.
func Decode(ctx context.Context, src source.Source) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(err)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "open %s", src.Name())
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "read %s", src.Name())
	}
	return Bytes(src.Name(), data)
}

// Bytes decodes an in-memory image.
func Bytes(name string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeDecode, "decode %s: empty source", name)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", name)
	}

	bm := imaging.Clone(img)
	if bm.Rect.Dx() <= 0 || bm.Rect.Dy() <= 0 {
		return nil, errors.New(errors.ErrCodeDecode, "decode %s: image has no pixels", name)
	}

	sum := sha256.Sum256(data)
	return &Image{
		Name:   name,
		Hash:   hex.EncodeToString(sum[:]),
		Bitmap: bm,
	}, nil
}

// Sizes returns the dimensions of imgs in order.
func Sizes(imgs []*Image) []image.Point {
	out := make([]image.Point, len(imgs))
	for i, img := range imgs {
		out[i] = img.Size()
	}
	return out
}
