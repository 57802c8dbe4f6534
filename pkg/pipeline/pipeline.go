// Package pipeline runs merge invocations for stackmerge.
//
// This package implements the decode → plan → resample → composite pipeline
// and its two outcomes: an in-memory preview or an exported file. The CLI and
// the interactive arranger both go through it, so they behave identically.
//
// # Architecture
//
// One invocation walks a small state machine:
//
//	Idle → Planning → Resampling → Compositing → PreviewReady | Exported
//
// Empty input fails during Planning and returns to Idle with nothing
// retained. Every transition and stage duration is reported through
// [observability.Pipeline].
//
// Decoding and resampling fan out over a bounded worker pool; compositing
// paints disjoint rectangles concurrently. The context is checked before each
// per-image step and again before compositing and encoding.
//
// # Usage
//
// Export straight to a file:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Export(ctx, sources, layout.Vertical, pipeline.ExportOptions{
//	    Destination: "merged.jpg",
//	    Quality:     pipeline.Quality(90),
//	})
//
// Preview first, then export the retained canvas without decoding again:
//
//	pv, err := runner.PlanAndPreview(ctx, sources, layout.Horizontal, pipeline.PreviewOptions{})
//	show(pv.Bitmap)
//	res, err := pv.Export(ctx, pipeline.ExportOptions{Destination: "merged.png"})
//
// [observability.Pipeline]: github.com/matzehuels/stackmerge/pkg/observability.Pipeline
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmerge/pkg/cache"
	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/core/preview"
	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/core/sink"
	"github.com/matzehuels/stackmerge/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and TUI
// =============================================================================

const (
	// DefaultOutput is the export destination when none is given.
	DefaultOutput = "merged_image.png"

	// DefaultFilter is the resampling filter name.
	DefaultFilter = "lanczos"

	// DefaultQuality is the lossy encoder quality.
	DefaultQuality = sink.DefaultQuality
)

// =============================================================================
// Options - Invocation Configuration
// =============================================================================

// Options configures the stages shared by preview and export.
type Options struct {
	Filter  string `json:"filter,omitempty"`
	Workers int    `json:"workers,omitempty"` // 0 uses GOMAXPROCS

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Filter == "" {
		o.Filter = DefaultFilter
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the filter name.
func (o *Options) Validate() error {
	o.SetDefaults()
	_, err := resample.FilterByName(o.Filter)
	return err
}

func (o *Options) filter() resample.Filter {
	f, err := resample.FilterByName(o.Filter)
	if err != nil {
		return resample.DefaultFilter
	}
	return f
}

// PreviewOptions configures PlanAndPreview.
type PreviewOptions struct {
	Options
	Bounds preview.Bounds `json:"bounds"`
}

// Validate applies defaults and checks the preview bounds.
func (o *PreviewOptions) Validate() error {
	if o.Bounds == (preview.Bounds{}) {
		o.Bounds = preview.DefaultBounds
	}
	if err := o.Options.Validate(); err != nil {
		return err
	}
	return o.Bounds.Validate()
}

// ExportOptions configures an export.
type ExportOptions struct {
	Options

	// Destination is the output path. The format is taken from Format, or
	// from the extension when Format is empty.
	Destination string `json:"destination"`
	Format      string `json:"format,omitempty"`

	// Quality applies to JPEG and lossy WEBP; nil selects DefaultQuality.
	// Out-of-range values are clamped to the codec range.
	Quality  *int `json:"quality,omitempty"`
	Lossless bool `json:"lossless,omitempty"`

	// Background is the flatten color for JPEG: hex, "auto" or "" for white.
	Background string `json:"background,omitempty"`

	// Refresh skips the artifact cache lookup; the result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate applies defaults and checks every export field.
func (o *ExportOptions) Validate() error {
	if o.Destination == "" {
		o.Destination = DefaultOutput
	}
	if o.Quality == nil {
		o.Quality = Quality(DefaultQuality)
	}
	if err := o.Options.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateOutputPath(o.Destination); err != nil {
		return err
	}
	_, err := sink.ParseBackground(o.Background)
	return err
}

// Quality returns a pointer to q for ExportOptions.Quality.
func Quality(q int) *int { return &q }

func (o *ExportOptions) quality() int {
	if o.Quality == nil {
		return DefaultQuality
	}
	return *o.Quality
}

// sinkOptions builds encoder options for a resolved format.
func (o *ExportOptions) sinkOptions(f sink.Format) sink.Options {
	bg, _ := sink.ParseBackground(o.Background)
	return sink.Options{
		Format:     f,
		Quality:    o.quality(),
		Background: bg,
		Lossless:   o.Lossless,
	}
}

// artifactKeyOpts lists the settings that change the encoded bytes.
func (o *ExportOptions) artifactKeyOpts(orientation layout.Orientation, f sink.Format) cache.ArtifactKeyOpts {
	bg, _ := sink.ParseBackground(o.Background)
	return cache.ArtifactKeyOpts{
		Orientation: orientation.String(),
		Format:      f.String(),
		Quality:     sink.ClampQuality(f, o.quality()),
		Lossless:    o.Lossless && f == sink.WEBP,
		Filter:      o.Filter,
		Background:  bg.String(),
	}
}

// =============================================================================
// Results
// =============================================================================

// Stats contains invocation timings.
type Stats struct {
	Inputs        int
	DecodeTime    time.Duration
	PlanTime      time.Duration
	ResampleTime  time.Duration
	CompositeTime time.Duration
	PreviewTime   time.Duration
	EncodeTime    time.Duration
}

// ExportResult describes a written file.
type ExportResult struct {
	ID       string
	Path     string // final path, after any extension fix-up
	Format   sink.Format
	Bytes    int
	Notices  []Notice
	CacheHit bool
	Plan     layout.Plan
	Stats    Stats
}
