package resample

import (
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/stackmerge/pkg/errors"
)

// Filter is a named resampling kernel.
type Filter struct {
	Name string
	imaging.ResampleFilter
}

// Averaging filters. Nearest-neighbor sampling is deliberately absent.
var (
	Lanczos           = Filter{"lanczos", imaging.Lanczos}
	CatmullRom        = Filter{"catmullrom", imaging.CatmullRom}
	MitchellNetravali = Filter{"mitchell", imaging.MitchellNetravali}
	Linear            = Filter{"linear", imaging.Linear}
	Box               = Filter{"box", imaging.Box}
)

// DefaultFilter is used when no filter is configured.
var DefaultFilter = Lanczos

var filters = map[string]Filter{
	Lanczos.Name:           Lanczos,
	CatmullRom.Name:        CatmullRom,
	MitchellNetravali.Name: MitchellNetravali,
	Linear.Name:            Linear,
	Box.Name:               Box,
}

// FilterByName looks up a filter by name, case-insensitively.
// An empty name selects DefaultFilter.
func FilterByName(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFilter, nil
	}
	if f, ok := filters[name]; ok {
		return f, nil
	}
	return Filter{}, errors.New(errors.ErrCodeInvalidInput,
		"unknown filter %q (available: %s)", name, strings.Join(FilterNames(), ", "))
}

// FilterNames returns the registered filter names in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Filter) String() string { return f.Name }
