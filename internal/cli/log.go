package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procdeck/pkg/observability"
)

// logTimeFormat keeps centiseconds, enough to tell policy runs apart.
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
	})
}

// progress measures a command from start to done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time in parentheses.
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Infof("%s (%s)", msg, elapsed)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default for contexts that carry no
// logger, including a nil one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}

// debugHooks writes policy, tagger and cache events to the logger at debug
// level, so that --verbose shows what each run did.
type debugHooks struct {
	observability.NoopPolicyHooks
	observability.NoopCacheHooks
	logger *log.Logger
}

func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetPolicyHooks(h)
	observability.SetTaggerHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnTag(_ context.Context, tagger string, tokens int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("tag failed", "tagger", tagger, "err", err)
		return
	}
	h.logger.Debug("tagged", "tagger", tagger, "tokens", tokens, "cached", cached, "took", d)
}

func (h debugHooks) OnPolicyComplete(_ context.Context, policy string, shapes, verbs int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("policy done", "policy", policy, "err", err, "took", d)
		return
	}
	h.logger.Debug("policy done", "policy", policy, "shapes", shapes, "verbs", verbs, "took", d)
}

func (h debugHooks) OnCacheHit(_ context.Context, backend string) {
	h.logger.Debug("cache hit", "backend", backend)
}

func (h debugHooks) OnCacheMiss(_ context.Context, backend string) {
	h.logger.Debug("cache miss", "backend", backend)
}

func (h debugHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.logger.Debug("cache set", "backend", backend, "bytes", size)
}
