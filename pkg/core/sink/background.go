package sink

import (
	"image"
	"image/color"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/stackmerge/pkg/core/composite"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// White is the default flatten color.
var White = color.NRGBA{255, 255, 255, 255}

// Background is the opaque color a canvas is flattened onto.
type Background struct {
	Color color.NRGBA
	Auto  bool // derive the color from the canvas
}

// ParseBackground parses "", "auto" or a hex color.
func ParseBackground(s string) (Background, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return Background{Color: White}, nil
	case "auto":
		return Background{Auto: true}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Background{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid background color %q", s)
	}
	r, g, b := c.RGB255()
	return Background{Color: color.NRGBA{r, g, b, 255}}, nil
}

// Resolve returns the concrete color for img.
// A zero Background resolves to white.
func (b Background) Resolve(img image.Image) color.NRGBA {
	if b.Auto {
		if img == nil {
			return White
		}
		c := dominantcolor.Find(img)
		return color.NRGBA{c.R, c.G, c.B, 255}
	}
	if b.Color == (color.NRGBA{}) {
		return White
	}
	c := b.Color
	c.A = 255
	return c
}

func (b Background) String() string {
	if b.Auto {
		return "auto"
	}
	return colorful.Color{
		R: float64(b.Color.R) / 255,
		G: float64(b.Color.G) / 255,
		B: float64(b.Color.B) / 255,
	}.Hex()
}

// Flatten composites img over an opaque bg and returns a fully opaque copy.
func Flatten(img image.Image, bg color.NRGBA) *image.NRGBA {
	bg.A = 255
	b := img.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), bg)
	composite.Paint(out, imaging.Clone(img), image.Point{})
	return out
}
