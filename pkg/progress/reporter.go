package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

var frames = [...]string{
	"▓░░░░░░░░░",
	"▓▓░░░░░░░░",
	"▓▓▓░░░░░░░",
	"▓▓▓▓░░░░░░",
	"▓▓▓▓▓░░░░░",
	"▓▓▓▓▓▓░░░░",
	"▓▓▓▓▓▓▓░░░",
	"▓▓▓▓▓▓▓▓░░",
	"▓▓▓▓▓▓▓▓▓░",
	"▓▓▓▓▓▓▓▓▓▓",
}

// Estimate is the expected generation time for a quality tier.
func Estimate(q domain.Quality) time.Duration {
	switch q {
	case domain.QualityMedium:
		return 50 * time.Second
	case domain.QualityHigh:
		return 120 * time.Second
	}
	return 35 * time.Second
}

// Display is the single message the reporter keeps editing.
type Display interface {
	Update(ctx context.Context, text string) error
}

type DisplayFunc func(ctx context.Context, text string) error

func (f DisplayFunc) Update(ctx context.Context, text string) error {
	return f(ctx, text)
}

// FrameFunc renders one frame: the bar, percent complete and seconds left.
type FrameFunc func(bar string, percent, remaining int) string

type Reporter struct {
	display  Display
	estimate time.Duration
	frame    FrameFunc
	final    string
	now      func() time.Time
}

func NewReporter(display Display, estimate time.Duration, frame FrameFunc, final string) *Reporter {
	return &Reporter{
		display:  display,
		estimate: estimate,
		frame:    frame,
		final:    final,
		now:      time.Now,
	}
}

// Run edits the display once per tick until all frames are shown or ctx is
// canceled. Cancellation is checked before every tick; a canceled run returns
// without the final frame. Run never returns while an edit is in flight.
func (r *Reporter) Run(ctx context.Context) {
	editCtx := context.WithoutCancel(ctx)
	interval := r.estimate / time.Duration(len(frames))
	start := r.now()

	for i, bar := range frames {
		if ctx.Err() != nil {
			return
		}

		remaining := max(0, int((r.estimate - r.now().Sub(start)).Seconds()))
		percent := (i + 1) * 100 / len(frames)
		r.update(editCtx, r.frame(bar, percent, remaining))

		if !wait(ctx, interval) {
			return
		}
	}

	if ctx.Err() != nil {
		return
	}
	r.update(editCtx, r.final)
}

func (r *Reporter) update(ctx context.Context, text string) {
	if err := r.display.Update(ctx, text); err != nil {
		slog.DebugContext(ctx, "progress update skipped", logger.Err(err))
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
