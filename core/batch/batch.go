// Package batch drives a tagging run over a document: it cuts the sentence
// list into fixed-size batches, sends each batch to the tagger, and stops
// cleanly at the first fault or cancellation so the run can be resumed from
// the reported offset.
package batch

import (
	"context"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/rnctag/core/align"
	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/core/xml"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// DefaultBatchSize is the number of sentences sent per tagging call.
const DefaultBatchSize = 10

// State is the lifecycle state of a run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSalvaged  State = "salvaged"
	StateCancelled State = "cancelled"
	StateCompleted State = "completed"
)

// Options control a single run.
type Options struct {
	// From is the index of the first sentence to tag. Sentences before it
	// are left alone.
	From int
}

// Outcome summarizes a run.
type Outcome struct {
	// RunID identifies the run in the logs.
	RunID string
	// LastOffset is where a later run should resume: the start of the
	// failing batch after a fault, the next unprocessed batch after a
	// cancellation, and the sentence count on completion.
	LastOffset int
	// Faulted is true when the run stopped on a MatchFault or TransportFault.
	Faulted bool
	State   State
	// Batches counts the batches that were applied.
	Batches int
	// Skipped counts tokens dropped by the aligner over the whole run.
	Skipped int
	// Reached counts the sentences that received new children. Sentences a
	// token stream ended before stay as they were.
	Reached int
	// Err is the fault that stopped the run, if any.
	Err error
}

// Controller runs batches through a tagger and an alignment engine.
type Controller struct {
	Tagger    tagging.Tagger
	Engine    *align.Engine
	BatchSize int
}

// New returns a controller using the tagger's crosswalk and the default
// batch size.
func New(t tagging.Tagger) *Controller {
	return &Controller{Tagger: t, Engine: align.New(t.Crosswalk()), BatchSize: DefaultBatchSize}
}

func (c *Controller) size() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// Run tags sentences[opts.From:] batch by batch. Cancellation of ctx is
// checked only between batches; a tagging call in flight always finishes.
// Faults do not abort with an error return: the document keeps every batch
// applied so far and the outcome reports where to resume.
func (c *Controller) Run(ctx context.Context, sentences []*corpus.Sentence, opts Options) Outcome {
	out := Outcome{RunID: uuid.New().String(), State: StateIdle}
	ctx = logging.WithRunID(ctx, out.RunID)
	log := logging.LoggerFromContext(ctx)

	total := len(sentences)
	from := min(max(opts.From, 0), total)
	size := c.size()
	call := context.WithoutCancel(ctx)

	out.State = StateRunning
	log.Info("run_start", "backend", c.Tagger.Name(), "from", from, "total", total, "batch_size", size)

	for i := from; i < total; i += size {
		if err := ctx.Err(); err != nil {
			out.State, out.LastOffset = StateCancelled, i
			logging.Salvage(ctx, i, "cancelled")
			return out
		}
		logging.BatchProgress(ctx, i, total)

		batch := sentences[i:min(i+size, total)]
		texts := make([]string, len(batch))
		for j, s := range batch {
			texts[j] = s.Text()
		}

		tokens, err := c.Tagger.Tag(call, tagging.JoinBatch(texts))
		if err != nil {
			if !errors.Is(err, errors.ErrTransport) {
				err = errors.NewTransport(c.Tagger.Name(), err)
			}
			logging.TransportFault(ctx, c.Tagger.Name(), i, err)
			return c.salvage(ctx, out, i, err)
		}

		res, err := c.Engine.Apply(batch, tokens)
		if err != nil {
			logging.MatchFault(ctx, i, err)
			return c.salvage(ctx, out, i, err)
		}
		out.Batches++
		out.Skipped += res.Skipped
		out.Reached += res.Reached()
		log.Debug("batch_committed", "offset", i, "sentences", len(batch), "reached", res.Reached(), "skipped", res.Skipped)
	}

	out.State, out.LastOffset = StateCompleted, total
	log.Info("run_complete", "batches", out.Batches, "reached", out.Reached, "skipped", out.Skipped)
	return out
}

func (c *Controller) salvage(ctx context.Context, out Outcome, offset int, err error) Outcome {
	out.State = StateSalvaged
	out.LastOffset = offset
	out.Faulted = true
	out.Err = err
	logging.Salvage(ctx, offset, "fault")
	return out
}

// Simple builds a document from plain text lines and tags it one line per
// batch, so a line that cannot be aligned keeps its plain text. The
// outcome's Faulted and Err report the last line left untagged; the run
// itself only stops early on cancellation.
func (c *Controller) Simple(ctx context.Context, lines []string) (*xml.Document, Outcome) {
	doc := corpus.NewDocument(lines)
	sentences, err := corpus.Sentences(doc, corpus.WalkOptions{})
	if err != nil {
		return doc, Outcome{State: StateSalvaged, Faulted: true, Err: err}
	}

	one := *c
	one.BatchSize = 1
	var out Outcome
	for from := 0; ; {
		o := one.Run(ctx, sentences, Options{From: from})
		out.RunID = o.RunID
		out.Batches += o.Batches
		out.Skipped += o.Skipped
		out.Reached += o.Reached
		out.LastOffset, out.State = o.LastOffset, o.State
		if !o.Faulted {
			return doc, out
		}
		// Keep the plain text of the failing line and move on.
		out.Faulted, out.Err = true, o.Err
		from = o.LastOffset + 1
		if from >= len(sentences) {
			out.State, out.LastOffset = StateCompleted, len(sentences)
			return doc, out
		}
	}
}
