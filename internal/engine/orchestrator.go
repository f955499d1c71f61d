package engine

import (
	"context"
	"fmt"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// Sync orchestration: the composition point between payload streams and the
// lifecycle/merge routines. Not a state machine; it dispatches tagged
// payloads in the order received, one transaction per payload, and reports
// each outcome.

// Outcome is the result of applying one payload.
type Outcome struct {
	// Index is the payload's position in the applied batch.
	Index int

	Op    model.Op
	Model model.EntityKind

	// Record is the merged snapshot for entity payloads (nil for deletes of
	// unknown ids, which are tolerated no-ops).
	Record *model.Record

	// Link is the merged membership row for link payloads.
	Link *model.Link

	// Err is the domain error for this payload, if any. Errors are
	// surfaced, never swallowed; the caller decides retry policy.
	Err error
}

// Apply dispatches a batch of payloads in order. A payload failure does not
// abort the rest of the batch: out-of-order replication makes partial
// failure (a field change racing ahead of its create) an expected state, and
// the caller needs every outcome to decide what to retry.
//
// Returns an error only when the context is cancelled between payloads.
func (e *Engine) Apply(ctx context.Context, payloads []model.Payload) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(payloads))

	for i, p := range payloads {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("apply: %w", err)
		}
		outcomes = append(outcomes, e.applyOne(ctx, i, p))
	}

	return outcomes, nil
}

func (e *Engine) applyOne(ctx context.Context, index int, p model.Payload) Outcome {
	out := Outcome{Index: index, Op: p.Op, Model: p.Model}

	if err := p.Validate(); err != nil {
		out.Err = err
		return out
	}

	switch p.Op {
	case model.OpCreate:
		out.Record, out.Err = e.Create(ctx, p.Model, *p.Create)
	case model.OpDelete:
		out.Record, out.Err = e.Delete(ctx, p.Model, *p.Delete)
	case model.OpFieldChange:
		out.Record, out.Err = e.MergeField(ctx, p.Model, *p.FieldChange)
	case model.OpLink:
		out.Link, out.Err = e.MergeLink(ctx, *p.LinkChange)
	}

	return out
}

// Failed returns the outcomes that carry errors, preserving order.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
