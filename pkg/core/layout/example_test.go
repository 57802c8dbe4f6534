package layout_test

import (
	"fmt"
	"image"

	"github.com/matzehuels/stackmerge/pkg/core/layout"
)

func ExampleBuild() {
	sizes := []image.Point{{100, 50}, {200, 100}}

	p, _ := layout.Build(sizes, layout.Vertical)

	fmt.Println("Canvas:", p.Width, "x", p.Height)
	for _, e := range p.Entries {
		fmt.Printf("%dx%d at (%d,%d)\n", e.Width, e.Height, e.X, e.Y)
	}
	// Output:
	// Canvas: 200 x 200
	// 200x100 at (0,0)
	// 200x100 at (0,100)
}

func ExampleBuild_horizontal() {
	sizes := []image.Point{{100, 50}, {200, 100}}

	p, _ := layout.Build(sizes, layout.Horizontal)

	fmt.Println("Canvas:", p.Width, "x", p.Height)
	// Output:
	// Canvas: 400 x 100
}
