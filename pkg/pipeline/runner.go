package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackmerge/pkg/cache"
	"github.com/matzehuels/stackmerge/pkg/core/composite"
	"github.com/matzehuels/stackmerge/pkg/core/decode"
	"github.com/matzehuels/stackmerge/pkg/core/layout"
	"github.com/matzehuels/stackmerge/pkg/core/preview"
	"github.com/matzehuels/stackmerge/pkg/core/resample"
	"github.com/matzehuels/stackmerge/pkg/core/sink"
	"github.com/matzehuels/stackmerge/pkg/errors"
	sio "github.com/matzehuels/stackmerge/pkg/io"
	"github.com/matzehuels/stackmerge/pkg/observability"
	"github.com/matzehuels/stackmerge/pkg/source"
)

// Runner executes merge invocations with artifact caching.
//
// The Runner is stateless except for the cache and logger. Each invocation
// owns its bitmaps and canvas exclusively, so multiple goroutines can share
// one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long exported artifacts stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Composition is a composited canvas and everything that produced it.
type Composition struct {
	ID          string
	Orientation layout.Orientation
	Plan        layout.Plan
	Canvas      *image.NRGBA
	InputsHash  string
	Filter      string
	Stats       Stats
}

// Decode reads every source concurrently, keeping input order.
// The first failure aborts the batch.
func (r *Runner) Decode(ctx context.Context, sources []source.Source, opts Options) ([]*decode.Image, error) {
	opts.SetDefaults()
	imgs := make([]*decode.Image, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, src := range sources {
		g.Go(func() error {
			img, err := decode.Decode(gctx, src)
			if err != nil {
				return err
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Canceled(ctx.Err())
		}
		return nil, err
	}
	return imgs, nil
}

// Plan decodes sources and computes their layout without resampling.
func (r *Runner) Plan(ctx context.Context, sources []source.Source, o layout.Orientation, opts Options) (layout.Plan, error) {
	if len(sources) == 0 {
		return layout.Plan{}, errors.New(errors.ErrCodeEmptyInput, "no images to merge")
	}
	imgs, err := r.Decode(ctx, sources, opts)
	if err != nil {
		return layout.Plan{}, err
	}
	return layout.Build(decode.Sizes(imgs), o)
}

// Compose runs decode, plan, resample and composite.
func (r *Runner) Compose(ctx context.Context, sources []source.Source, o layout.Orientation, opts Options) (*Composition, error) {
	imgs, t, stats, err := r.begin(ctx, sources, opts)
	if err != nil {
		return nil, err
	}
	return r.compose(ctx, t, imgs, o, opts, stats)
}

// begin validates, starts an invocation and decodes its inputs.
func (r *Runner) begin(ctx context.Context, sources []source.Source, opts Options) ([]*decode.Image, *tracker, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, Stats{}, err
	}
	t := &tracker{id: uuid.NewString(), state: Idle, logger: opts.Logger}
	stats := Stats{Inputs: len(sources)}

	t.to(ctx, Planning)
	if len(sources) == 0 {
		t.to(ctx, Idle)
		return nil, nil, stats, errors.New(errors.ErrCodeEmptyInput, "no images to merge")
	}

	start := time.Now()
	imgs, err := r.Decode(ctx, sources, opts)
	stats.DecodeTime = t.stage(ctx, "decode", start, err)
	if err != nil {
		t.to(ctx, Idle)
		return nil, nil, stats, err
	}
	opts.Logger.Info("decoded images", "count", len(imgs), "duration", stats.DecodeTime)
	return imgs, t, stats, nil
}

func (r *Runner) compose(ctx context.Context, t *tracker, imgs []*decode.Image, o layout.Orientation, opts Options, stats Stats) (*Composition, error) {
	start := time.Now()
	plan, err := layout.Build(decode.Sizes(imgs), o)
	stats.PlanTime = t.stage(ctx, "plan", start, err)
	if err != nil {
		t.to(ctx, Idle)
		return nil, err
	}
	opts.Logger.Debug("planned layout", "orientation", o, "width", plan.Width, "height", plan.Height)

	t.to(ctx, Resampling)
	start = time.Now()
	bitmaps, err := resampleAll(ctx, imgs, plan, opts)
	stats.ResampleTime = t.stage(ctx, "resample", start, err)
	if err != nil {
		t.to(ctx, Idle)
		return nil, err
	}
	opts.Logger.Info("resampled images", "filter", opts.Filter, "duration", stats.ResampleTime)

	if err := ctx.Err(); err != nil {
		t.to(ctx, Idle)
		return nil, errors.Canceled(err)
	}
	t.to(ctx, Compositing)
	start = time.Now()
	canvas, err := composite.Composite(plan, bitmaps)
	stats.CompositeTime = t.stage(ctx, "composite", start, err)
	if err != nil {
		t.to(ctx, Idle)
		return nil, err
	}
	opts.Logger.Info("composited canvas",
		"width", plan.Width,
		"height", plan.Height,
		"duration", stats.CompositeTime)

	hashes := make([]string, len(imgs))
	for i, img := range imgs {
		hashes[i] = img.Hash
	}
	return &Composition{
		ID:          t.id,
		Orientation: o,
		Plan:        plan,
		Canvas:      canvas,
		InputsHash:  cache.InputsHash(hashes),
		Filter:      opts.Filter,
		Stats:       stats,
	}, nil
}

// resampleAll scales each image to its plan entry on a bounded pool.
// Images already at their planned size are used as-is.
func resampleAll(ctx context.Context, imgs []*decode.Image, plan layout.Plan, opts Options) ([]*image.NRGBA, error) {
	f := opts.filter()
	out := make([]*image.NRGBA, len(imgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, e := range plan.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Canceled(err)
			}
			if !e.NeedsResample() {
				out[i] = imgs[i].Bitmap
				return nil
			}
			bm, err := resample.Resize(imgs[i].Bitmap, e.Width, e.Height, f)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "resample %s", imgs[i].Name)
			}
			out[i] = bm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Canceled(ctx.Err())
		}
		return nil, err
	}
	return out, nil
}

// =============================================================================
// Preview
// =============================================================================

// Preview is a composited canvas held in memory until it is exported.
//
// The canvas is owned by the Preview. After a successful Export it is
// released and the Preview cannot be exported again.
type Preview struct {
	ID     string
	Plan   layout.Plan
	Canvas *image.NRGBA
	Bitmap *image.NRGBA // reduced for display; never written to disk
	State  State
	Stats  Stats

	mu          sync.Mutex
	runner      *Runner
	tracker     *tracker
	orientation layout.Orientation
	inputsHash  string
	filter      string
}

// PlanAndPreview composes sources and reduces the canvas for display.
func (r *Runner) PlanAndPreview(ctx context.Context, sources []source.Source, o layout.Orientation, opts PreviewOptions) (*Preview, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	imgs, t, stats, err := r.begin(ctx, sources, opts.Options)
	if err != nil {
		return nil, err
	}
	comp, err := r.compose(ctx, t, imgs, o, opts.Options, stats)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	bitmap, err := preview.Reduce(comp.Canvas, opts.Bounds, opts.filter())
	comp.Stats.PreviewTime = t.stage(ctx, "preview", start, err)
	if err != nil {
		t.to(ctx, Idle)
		return nil, err
	}
	t.to(ctx, PreviewReady)

	return &Preview{
		ID:          comp.ID,
		Plan:        comp.Plan,
		Canvas:      comp.Canvas,
		Bitmap:      bitmap,
		State:       PreviewReady,
		Stats:       comp.Stats,
		runner:      r,
		tracker:     t,
		orientation: o,
		inputsHash:  comp.InputsHash,
		filter:      comp.Filter,
	}, nil
}

// Export encodes the retained canvas. The filter in opts is ignored; the
// canvas was already resampled with the preview's filter.
func (p *Preview) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State != PreviewReady || p.Canvas == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "preview %s is %s, not ready for export", p.ID, p.State)
	}
	opts.Filter = p.filter
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p.tracker.logger = opts.Logger

	comp := &Composition{
		ID:          p.ID,
		Orientation: p.orientation,
		Plan:        p.Plan,
		Canvas:      p.Canvas,
		InputsHash:  p.inputsHash,
		Filter:      p.filter,
		Stats:       p.Stats,
	}
	res, err := p.runner.export(ctx, p.tracker, comp, opts)
	if err != nil {
		return nil, err
	}
	p.State = Exported
	p.Canvas = nil
	return res, nil
}

// =============================================================================
// Export
// =============================================================================

// Export composes sources and writes the result to opts.Destination.
//
// Encoded output is cached by input content and export settings; a hit skips
// resampling, compositing and encoding. Nothing is written on failure.
func (r *Runner) Export(ctx context.Context, sources []source.Source, o layout.Orientation, opts ExportOptions) (*ExportResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	imgs, t, stats, err := r.begin(ctx, sources, opts.Options)
	if err != nil {
		return nil, err
	}

	if res, ok := r.exportCached(ctx, t, imgs, o, opts, stats); ok {
		return res, nil
	}

	comp, err := r.compose(ctx, t, imgs, o, opts.Options, stats)
	if err != nil {
		return nil, err
	}
	res, err := r.export(ctx, t, comp, opts)
	if err != nil {
		t.to(ctx, Idle)
		return nil, err
	}
	return res, nil
}

// exportCached writes a cached artifact when one exists.
func (r *Runner) exportCached(ctx context.Context, t *tracker, imgs []*decode.Image, o layout.Orientation, opts ExportOptions, stats Stats) (*ExportResult, bool) {
	if opts.Refresh {
		return nil, false
	}
	format, path, notices := ResolveFormat(opts.Format, opts.Destination)

	hashes := make([]string, len(imgs))
	for i, img := range imgs {
		hashes[i] = img.Hash
	}
	key := r.Keyer.ArtifactKey(cache.InputsHash(hashes), opts.artifactKeyOpts(o, format))

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")

	plan, err := layout.Build(decode.Sizes(imgs), o)
	if err != nil {
		return nil, false
	}
	if err := writeOutput(path, data); err != nil {
		opts.Logger.Warn("writing cached artifact failed", "path", path, "error", err)
		return nil, false
	}
	t.to(ctx, Exported)
	logNotices(opts.Logger, notices)
	opts.Logger.Info("exported from cache", "path", path, "bytes", len(data))

	return &ExportResult{
		ID:       t.id,
		Path:     path,
		Format:   format,
		Bytes:    len(data),
		Notices:  notices,
		CacheHit: true,
		Plan:     plan,
		Stats:    stats,
	}, true
}

// export encodes comp.Canvas, writes it atomically and caches the bytes.
func (r *Runner) export(ctx context.Context, t *tracker, comp *Composition, opts ExportOptions) (*ExportResult, error) {
	format, path, notices := ResolveFormat(opts.Format, opts.Destination)
	logNotices(opts.Logger, notices)

	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(err)
	}

	start := time.Now()
	data, err := sink.EncodeBytes(comp.Canvas, opts.sinkOptions(format))
	if err == nil {
		if ctx.Err() != nil {
			err = errors.Canceled(ctx.Err())
		} else {
			err = writeOutput(path, data)
		}
	}
	comp.Stats.EncodeTime = t.stage(ctx, "encode", start, err)
	if err != nil {
		return nil, err
	}
	t.to(ctx, Exported)
	opts.Logger.Info("exported image",
		"path", path,
		"format", format,
		"bytes", len(data),
		"duration", comp.Stats.EncodeTime)

	key := r.Keyer.ArtifactKey(comp.InputsHash, opts.artifactKeyOpts(comp.Orientation, format))
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return &ExportResult{
		ID:      comp.ID,
		Path:    path,
		Format:  format,
		Bytes:   len(data),
		Notices: notices,
		Plan:    comp.Plan,
		Stats:   comp.Stats,
	}, nil
}

func logNotices(logger *log.Logger, notices []Notice) {
	for _, n := range notices {
		logger.Warn(n.Message, "code", n.Code)
	}
}

// writeOutput creates the destination directory and writes data atomically.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "create output directory")
		}
	}
	if err := sio.WriteFileAtomic(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "write %s", path)
	}
	return nil
}
