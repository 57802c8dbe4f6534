package cli

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/matzehuels/stackmerge/pkg/core/composite"
	"github.com/matzehuels/stackmerge/pkg/core/preview"
	"github.com/matzehuels/stackmerge/pkg/core/resample"
)

// halfBlock draws two vertically stacked pixels per cell: the foreground
// color paints the top half, the background the bottom half.
const halfBlock = "▀"

// Checkerboard shades shown behind transparent pixels.
var (
	checkerLight = [4]uint8{0x9a, 0x9a, 0x9a, 0xff}
	checkerDark  = [4]uint8{0x66, 0x66, 0x66, 0xff}
)

// terminalBounds returns the pixel box a terminal preview may use: one pixel
// per column and two per row, minus room for the status lines.
func terminalBounds(cols, rows int) preview.Bounds {
	if cols <= 0 || rows <= 0 {
		w, h, err := term.GetSize(os.Stdout.Fd())
		if err != nil || w <= 0 || h <= 0 {
			w, h = 80, 24
		}
		if cols <= 0 {
			cols = w
		}
		if rows <= 0 {
			rows = h - 4
		}
	}
	return preview.Bounds{MaxWidth: max(cols, 1), MaxHeight: max(rows*2, 2)}
}

// fitTerminal shrinks a preview bitmap further to fit the terminal.
func fitTerminal(img *image.NRGBA, b preview.Bounds) (*image.NRGBA, error) {
	return preview.Reduce(img, b, resample.Box)
}

// renderHalfBlocks renders img as rows of half-block cells. Transparent
// regions show a checkerboard.
func renderHalfBlocks(img *image.NRGBA) string {
	r := img.Bounds()
	var b strings.Builder
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		for x := r.Min.X; x < r.Max.X; x++ {
			top := cellColor(img, x, y)
			style := lipgloss.NewStyle().Foreground(top)
			if y+1 < r.Max.Y {
				style = style.Background(cellColor(img, x, y+1))
			}
			b.WriteString(style.Render(halfBlock))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// cellColor returns the pixel at (x, y) blended over the checkerboard.
func cellColor(img *image.NRGBA, x, y int) lipgloss.Color {
	px := checkerLight
	if (x/4+y/4)%2 == 1 {
		px = checkerDark
	}
	i := img.PixOffset(x, y)
	composite.Over(px[:], img.Pix[i:i+4])
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", px[0], px[1], px[2]))
}
