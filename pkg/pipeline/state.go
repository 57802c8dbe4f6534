package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackmerge/pkg/observability"
)

// State is the lifecycle position of one merge invocation.
type State int

const (
	Idle State = iota
	Planning
	Resampling
	Compositing
	PreviewReady
	Exported
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Planning:
		return "planning"
	case Resampling:
		return "resampling"
	case Compositing:
		return "compositing"
	case PreviewReady:
		return "preview_ready"
	case Exported:
		return "exported"
	}
	return "unknown"
}

// Terminal reports whether s ends an invocation.
func (s State) Terminal() bool {
	return s == PreviewReady || s == Exported
}

// tracker follows one invocation through its states and reports them.
type tracker struct {
	id     string
	state  State
	logger *log.Logger
}

func (t *tracker) to(ctx context.Context, next State) {
	prev := t.state
	t.state = next
	t.logger.Debug("state", "id", t.id, "from", prev, "to", next)
	observability.Pipeline().OnStateChange(ctx, t.id, prev.String(), next.String())
}

// stage reports a finished stage and returns its duration.
func (t *tracker) stage(ctx context.Context, name string, start time.Time, err error) time.Duration {
	d := time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, t.id, name, d, err)
	return d
}
