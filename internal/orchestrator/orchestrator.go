// Package orchestrator drives a batch of rows through a translator, one row at
// a time, and collects an outcome for every row.
package orchestrator

import (
	"context"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/translator"
)

// ProgressFunc is called once per row after the row resolves. completed is
// 1-based.
type ProgressFunc func(completed, total int, key string)

type Orchestrator struct {
	translator translator.Translator
}

func New(t translator.Translator) *Orchestrator {
	return &Orchestrator{translator: t}
}

// Run translates requests sequentially and never aborts the batch: a row
// that fails yields a Failed outcome and the next row is processed. Blank
// and non-textual rows are skipped without a remote call. The result has
// one entry per request, in input order.
func (o *Orchestrator) Run(ctx context.Context, apiKey string, requests []internal.TranslationRequest, onProgress ProgressFunc) internal.BatchResult {
	result := make(internal.BatchResult, 0, len(requests))

	for i, req := range requests {
		var outcome internal.Outcome
		if req.Translatable() {
			outcome = o.translator.Translate(ctx, apiKey, req.SourceText)
		} else {
			outcome = internal.Skipped()
		}

		result = append(result, internal.RowResult{Request: req, Outcome: outcome})

		if onProgress != nil {
			onProgress(i+1, len(requests), req.Key)
		}
	}

	return result
}
