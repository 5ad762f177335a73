package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procdeck/pkg/diagram"
	errs "github.com/matzehuels/procdeck/pkg/errors"
	"github.com/matzehuels/procdeck/pkg/observability"
	"github.com/matzehuels/procdeck/pkg/table"
	"github.com/matzehuels/procdeck/pkg/tagger"
)

// Deck receives the pages of a run.
type Deck interface {
	AddPage(diagram.Canvas, diagram.Diagram) error
}

// Runner builds the policy pages of a table.
//
// The Runner holds no per-run state: the deck is passed to every call,
// so one Runner can serve many runs as long as the tagger allows it.
type Runner struct {
	Options Options
	Tagger  tagger.Tagger
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil tagger disables the annotation strip;
// a nil logger discards log output.
func NewRunner(opts Options, t tagger.Tagger, logger *log.Logger) *Runner {
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{Options: opts, Tagger: t, Logger: logger}
}

// Run builds one page per selected policy and adds it to d. Policy
// failures are logged and reported; Run itself fails only for invalid
// options or a nil deck.
func (r *Runner) Run(ctx context.Context, tbl table.Table, d Deck) (Report, error) {
	opts := r.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Report{}, fmt.Errorf("invalid options: %w", err)
	}
	if d == nil {
		return Report{}, errs.New(errs.ErrCodeInternal, "no deck to render into")
	}
	policies, _ := opts.SelectedPolicies()

	var annotator *diagram.TextAnnotator
	if r.Tagger != nil {
		annotator = diagram.NewTextAnnotator(r.Tagger)
	}
	builder := diagram.NewBuilder(opts.Metrics(), annotator)
	canvas := opts.Canvas()

	start := time.Now()
	var report Report
	for _, p := range policies {
		stats, err := r.runPolicy(ctx, builder, p, tbl, canvas, d)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Policy: p.ID, Err: err})
			continue
		}
		report.Pages = append(report.Pages, stats)
	}
	report.Duration = time.Since(start)

	r.Logger.Info("built deck",
		"pages", len(report.Pages),
		"failed", len(report.Failures),
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) runPolicy(ctx context.Context, b *diagram.Builder, p diagram.Policy, tbl table.Table, c diagram.Canvas, d Deck) (stats PageStats, err error) {
	start := time.Now()
	observability.Policy().OnPolicyStart(ctx, p.ID)
	defer func() {
		observability.Policy().OnPolicyComplete(ctx, p.ID, stats.Shapes, stats.Verbs, time.Since(start), err)
		if err != nil {
			r.Logger.Error("policy failed", "policy", p.ID, "title", p.Title, "err", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return PageStats{}, err
	}

	r.Logger.Debug("building page", "policy", p.ID, "layout", p.Layout)
	dg, err := b.Build(ctx, p, tbl, c)
	if err != nil {
		return PageStats{}, err
	}
	if err := d.AddPage(c, dg); err != nil {
		return PageStats{}, err
	}

	stats = PageStats{
		Policy:   p.ID,
		Title:    p.Title,
		Shapes:   len(dg.Shapes),
		Verbs:    len(dg.Annotations),
		Duration: time.Since(start),
	}
	r.Logger.Info("built page",
		"policy", p.ID,
		"shapes", stats.Shapes,
		"verbs", stats.Verbs,
		"duration", stats.Duration)
	return stats, nil
}
