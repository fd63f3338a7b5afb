// Package align reconciles a tagging service's token stream with the
// sentence texts of one batch, producing the annotated children of every
// sentence the stream reached.
package align

import (
	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/subst"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// Engine aligns token streams against sentence texts. It holds only
// immutable tables and may be shared between runs.
type Engine struct {
	Crosswalk crosswalk.Crosswalk
	Subst     *subst.Table
}

// New returns an engine for the given crosswalk using the default
// substitution table.
func New(cw crosswalk.Crosswalk) *Engine {
	return &Engine{Crosswalk: cw, Subst: subst.Default}
}

// Result holds the rebuilt children of a batch.
type Result struct {
	// Children has one entry per sentence. Sentences the token stream never
	// reached are nil and keep their current content.
	Children [][]corpus.Child
	// Skipped counts tokens that could not be placed and were dropped.
	Skipped int
}

// Reached returns the number of sentences that received new children.
func (r Result) Reached() int {
	n := 0
	for _, c := range r.Children {
		if c != nil {
			n++
		}
	}
	return n
}

// Align computes the children of each sentence in texts from tokens. It
// does not touch any document; a *errors.MatchFault is returned when a word
// cannot be found in the remaining text of the batch.
func (e *Engine) Align(texts []string, tokens []tagging.Token) (Result, error) {
	trimmed := make([]string, len(texts))
	for i, t := range texts {
		trimmed[i] = trim(t)
	}
	st := newState(trimmed)
	for _, tok := range tokens {
		if err := e.step(st, tok); err != nil {
			return Result{}, err
		}
	}
	st.finish()
	return Result{Children: st.out, Skipped: st.skipped}, nil
}

// Apply aligns tokens against batch and, only if alignment succeeds,
// replaces the children of every reached sentence. On error the batch is
// left exactly as it was.
func (e *Engine) Apply(batch []*corpus.Sentence, tokens []tagging.Token) (Result, error) {
	texts := make([]string, len(batch))
	for i, s := range batch {
		texts[i] = s.Text()
	}
	res, err := e.Align(texts, tokens)
	if err != nil {
		return res, err
	}
	for i, children := range res.Children {
		if children == nil {
			continue
		}
		if batch[i].Tagged() {
			logging.Retagging(texts[i])
		}
		batch[i].Replace(children)
	}
	return res, nil
}

func (e *Engine) step(st *state, tok tagging.Token) error {
	switch tok.Kind {
	case tagging.Whitespace:
		st.checkDrift(tok, -1)
		st.space()
		return nil
	case tagging.Separator, tagging.Number:
		st.literal(e.Subst, tok)
		return nil
	case tagging.Word, tagging.Ambiguous:
		return e.word(st, tok)
	default:
		st.skip(tok, "")
		return nil
	}
}

func (e *Engine) word(st *state, tok tagging.Token) error {
	pieces := tok.Pieces()
	if len(pieces) == 0 {
		st.skip(tok, "")
		return nil
	}
	if len(tok.Variants) == 0 {
		logging.Warn("word token without analyses", "token", tok.Text)
	}

	first, ok := st.locate(e.Subst, pieces[0])
	if !ok {
		return errors.NewMatchFault(pieces[0], st.sent, st.cursor)
	}
	st.checkDrift(tok, first.start)
	st.advance(first)
	last := first
	for _, piece := range pieces[1:] {
		m, ok := search(e.Subst, st.text(), st.cursor, st.progress, piece)
		if !ok {
			return errors.NewMatchFault(piece, st.sent, st.cursor)
		}
		st.advance(m)
		last = m
	}

	analyses := make([]corpus.Analysis, len(tok.Variants))
	for i, v := range tok.Variants {
		analyses[i] = corpus.Analysis{Lemma: v.Lemma, Gr: e.Crosswalk.Convert(v.Code).Gr()}
	}
	st.emitWord(first.start, max(last.end, last.covered), analyses)
	return nil
}
