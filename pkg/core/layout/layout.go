package layout

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Orientation selects the stack axis.
type Orientation int

const (
	// Vertical stacks images top-to-bottom (along Y).
	Vertical Orientation = iota
	// Horizontal stacks images left-to-right (along X).
	Horizontal
)

// String returns "vertical" or "horizontal".
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation accepts "vertical"/"v" and "horizontal"/"h", case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return Vertical, errors.New(errors.ErrCodeInvalidInput, "invalid orientation: %q (must be vertical or horizontal)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Entry is the placement of one source image.
type Entry struct {
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	X            int `json:"x"`
	Y            int `json:"y"`
}

// Size returns the scaled size.
func (e Entry) Size() image.Point { return image.Pt(e.Width, e.Height) }

// Rect returns the canvas rectangle the entry occupies.
func (e Entry) Rect() image.Rectangle {
	return image.Rect(e.X, e.Y, e.X+e.Width, e.Y+e.Height)
}

// NeedsResample reports whether the scaled size differs from the source size.
func (e Entry) NeedsResample() bool {
	return e.Width != e.SourceWidth || e.Height != e.SourceHeight
}

// Plan is the complete canvas layout.
type Plan struct {
	Orientation Orientation `json:"orientation"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Entries     []Entry     `json:"entries"`
}

// Size returns the canvas size.
func (p Plan) Size() image.Point { return image.Pt(p.Width, p.Height) }

// MarshalIndent returns the plan as indented JSON.
func (p Plan) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Build computes the plan for sizes stacked along o.
func Build(sizes []image.Point, o Orientation) (Plan, error) {
	if len(sizes) == 0 {
		return Plan{}, errors.New(errors.ErrCodeEmptyInput, "no images to merge")
	}
	if o != Vertical && o != Horizontal {
		return Plan{}, errors.New(errors.ErrCodeInvalidInput, "invalid orientation: %d", int(o))
	}
	for i, s := range sizes {
		if s.X <= 0 || s.Y <= 0 {
			return Plan{}, errors.New(errors.ErrCodeInvalidDimensions, "image %d has invalid size %dx%d", i, s.X, s.Y)
		}
	}

	p := Plan{Orientation: o, Entries: make([]Entry, len(sizes))}

	if o == Vertical {
		target := 0
		for _, s := range sizes {
			target = max(target, s.X)
		}
		y := 0
		for i, s := range sizes {
			h := scale(s.Y, target, s.X)
			p.Entries[i] = Entry{SourceWidth: s.X, SourceHeight: s.Y, Width: target, Height: h, X: 0, Y: y}
			y += h
		}
		p.Width, p.Height = target, y
		return p, nil
	}

	target := 0
	for _, s := range sizes {
		target = max(target, s.Y)
	}
	x := 0
	for i, s := range sizes {
		w := scale(s.X, target, s.Y)
		p.Entries[i] = Entry{SourceWidth: s.X, SourceHeight: s.Y, Width: w, Height: target, X: x, Y: 0}
		x += w
	}
	p.Width, p.Height = x, target
	return p, nil
}

// scale returns roundHalfEven(v * num / den). Since num >= den for every
// entry (num is the maximum), the result is never below v and never zero.
func scale(v, num, den int) int {
	if num == den {
		return v
	}
	return int(math.RoundToEven(float64(v) * float64(num) / float64(den)))
}
