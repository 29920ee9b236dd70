// Package batch processes keyword lists strictly sequentially: one item in
// flight, a deliberate pause between items, and cancellation honored only
// at item boundaries so no item is ever left half-written.
package batch

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/keycontent/keycontent/internal/generation"
	"github.com/keycontent/keycontent/internal/intake"
	"github.com/keycontent/keycontent/models"
)

// ItemResult is the outcome for one keyword in a batch.
type ItemResult struct {
	Keyword string
	Intake  models.IntakeResult
	Result  models.GenerationResult
	Err     error
}

// Failed reports whether the keyword produced no successful generation.
func (r ItemResult) Failed() bool {
	return r.Err != nil || !r.Result.Success
}

// Summary aggregates a whole batch run.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	Canceled  bool
	Results   []ItemResult
}

// Worker drives intake and orchestration for each keyword in turn.
type Worker struct {
	intake      *intake.Service
	orch        *generation.Orchestrator
	contentType string
	autoPublish bool
	limiter     *rate.Limiter

	// OnItem, when set, is called after each keyword completes.
	OnItem func(ItemResult)
}

// NewWorker builds a batch worker. delay is the pause enforced between
// consecutive items; zero disables it.
func NewWorker(intakeSvc *intake.Service, orch *generation.Orchestrator, contentType string,
	delay time.Duration, autoPublish bool) *Worker {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Worker{
		intake:      intakeSvc,
		orch:        orch,
		contentType: contentType,
		autoPublish: autoPublish,
		limiter:     limiter,
	}
}

// Run processes the keywords in order. A single keyword's failure never
// stops the batch; cancellation stops it between items, leaving the
// in-flight item to finish first.
func (w *Worker) Run(ctx context.Context, keywords []string, extraInstructions string) Summary {
	var summary Summary
	for _, keyword := range keywords {
		if err := w.limiter.Wait(ctx); err != nil {
			summary.Canceled = true
			break
		}

		item := ItemResult{Keyword: keyword}
		res, err := w.intake.LoadKeyword(keyword, w.autoPublish, extraInstructions)
		if err != nil {
			item.Err = err
		} else {
			item.Intake = res
			// The in-flight item always runs to completion; cancellation
			// is honored at the loop boundary only.
			item.Result = w.orch.GenerateItem(context.WithoutCancel(ctx), w.contentType, res.ItemID)
		}

		summary.Processed++
		if item.Failed() {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, item)
		if w.OnItem != nil {
			w.OnItem(item)
		}
	}
	return summary
}
