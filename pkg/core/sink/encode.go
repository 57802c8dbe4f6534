package sink

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Options configures Encode.
type Options struct {
	Format     Format
	Quality    int        // clamped per format
	Background Background // flatten color for formats without alpha
	Lossless   bool       // WEBP only
}

// Encode writes img to w in the requested format.
// Codec and writer failures are reported as errors.ErrCodeEncode.
func Encode(w io.Writer, img image.Image, o Options) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New(errors.ErrCodeEncode, "nothing to encode")
	}
	q := ClampQuality(o.Format, o.Quality)

	var err error
	switch o.Format {
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	case JPEG:
		flat := Flatten(img, o.Background.Resolve(img))
		err = imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(q))
	case WEBP:
		err = webp.Encode(w, imaging.Clone(img), &webp.Options{
			Lossless: o.Lossless,
			Quality:  float32(q),
			Exact:    true,
		})
	default:
		return errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format %d", int(o.Format))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s", o.Format)
	}
	return nil
}

// EncodeBytes encodes img into memory.
func EncodeBytes(img image.Image, o Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
