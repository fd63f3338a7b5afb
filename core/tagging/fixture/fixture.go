// Package fixture replays recorded tagging responses. Recordings are keyed
// by the exact batch text, so a document can be re-run offline against the
// answers a live backend gave earlier.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/tagging"
)

// Name identifies the backend.
const Name = "fixture"

// Batch is one recorded call.
type Batch struct {
	Text   string          `json:"text"`
	Tokens []tagging.Token `json:"tokens"`
}

// File is the on-disk recording format.
type File struct {
	Crosswalk string  `json:"crosswalk"`
	Batches   []Batch `json:"batches"`
}

// Tagger answers from recorded batches.
type Tagger struct {
	cw      crosswalk.Crosswalk
	batches map[string][]tagging.Token

	mu    sync.Mutex
	calls int
}

// New builds a tagger from in-memory batches.
func New(cw crosswalk.Crosswalk, batches ...Batch) *Tagger {
	t := &Tagger{cw: cw, batches: make(map[string][]tagging.Token, len(batches))}
	for _, b := range batches {
		t.batches[b.Text] = b.Tokens
	}
	return t
}

// Load reads a recording written by Recorder.Save.
func Load(path string) (*Tagger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.NewParse("fixture", path, err.Error())
	}
	cw, err := crosswalk.ByName(f.Crosswalk)
	if err != nil {
		return nil, err
	}
	return New(cw, f.Batches...), nil
}

// Name implements tagging.Tagger.
func (t *Tagger) Name() string { return Name }

// Crosswalk implements tagging.Tagger.
func (t *Tagger) Crosswalk() crosswalk.Crosswalk { return t.cw }

// Tag implements tagging.Tagger. Unknown batch texts are transport faults.
func (t *Tagger) Tag(_ context.Context, text string) ([]tagging.Token, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()

	tokens, ok := t.batches[text]
	if !ok {
		return nil, errors.NewTransport(Name, fmt.Errorf("no recorded response for %d-byte batch", len(text)))
	}
	return append([]tagging.Token(nil), tokens...), nil
}

// Calls returns how many times Tag was invoked.
func (t *Tagger) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Recorder wraps a live tagger and keeps every successful response.
type Recorder struct {
	tagging.Tagger

	mu      sync.Mutex
	batches []Batch
}

// NewRecorder wraps next.
func NewRecorder(next tagging.Tagger) *Recorder {
	return &Recorder{Tagger: next}
}

// Tag implements tagging.Tagger.
func (r *Recorder) Tag(ctx context.Context, text string) ([]tagging.Token, error) {
	tokens, err := r.Tagger.Tag(ctx, text)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.batches = append(r.batches, Batch{Text: text, Tokens: tokens})
	r.mu.Unlock()
	return tokens, nil
}

// Save writes the recorded batches to path.
func (r *Recorder) Save(path string) error {
	r.mu.Lock()
	f := File{Crosswalk: r.Crosswalk().Name(), Batches: r.batches}
	data, err := json.MarshalIndent(f, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "encoding recording")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
