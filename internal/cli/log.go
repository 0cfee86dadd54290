package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes diagnostics to w, prefixed with the wall clock.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// timer measures one planning step. Timings are debug output only, so a
// normal run prints just the plan.
type timer struct {
	logger *log.Logger
	began  time.Time
}

func startTimer(l *log.Logger) timer {
	return timer{logger: l, began: time.Now()}
}

func (t timer) stop(step string) {
	t.logger.Debug(step, "took", time.Since(t.began).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default() for commands run without
// the root command's pre-run hook, as in tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
