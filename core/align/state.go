package align

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/subst"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// state is the cursor of one alignment pass. It is created per batch and
// reset whenever the pass moves to another sentence.
type state struct {
	texts   []string
	batch   string // texts joined as sent to the tagger
	starts  []int  // byte offset of each sentence in batch
	out     [][]corpus.Child
	entered bool
	skipped int

	sent     int  // sentence being aligned
	cursor   int  // bytes of the sentence consumed by tokens
	mark     int  // bytes of the sentence already emitted as children
	progress int  // substitution steps taken on the rune at cursor
	hadSpace bool // the last emission was a space, or nothing was emitted yet
}

func newState(texts []string) *state {
	starts := make([]int, len(texts))
	pos := 0
	for i, t := range texts {
		starts[i] = pos
		pos += len(t) + 1
	}
	return &state{
		texts:  texts,
		batch:  tagging.JoinBatch(texts),
		starts: starts,
		out:    make([][]corpus.Child, len(texts)),
	}
}

func trim(s string) string { return strings.TrimSpace(s) }

func (st *state) text() string {
	if st.sent >= len(st.texts) {
		return ""
	}
	return st.texts[st.sent]
}

func (st *state) ensure() {
	if !st.entered && len(st.texts) > 0 {
		st.enter(0)
	}
}

func (st *state) enter(i int) {
	st.entered = true
	st.sent = i
	st.cursor, st.mark, st.progress = 0, 0, 0
	st.hadSpace = true
	st.out[i] = []corpus.Child{}
}

// leave emits whatever is left of the current sentence as text.
func (st *state) leave() {
	st.emitUpto(len(st.text()))
}

func (st *state) finish() {
	if st.entered {
		st.leave()
	}
}

func (st *state) advance(m match) {
	st.cursor = m.end
	st.progress = m.progress
}

func (st *state) emitText(s string) {
	if s == "" {
		return
	}
	children := st.out[st.sent]
	if n := len(children); n > 0 && !children[n-1].IsWord() {
		children[n-1].Text += s
		return
	}
	st.out[st.sent] = append(children, corpus.TextChild(s))
}

// emitSpace emits a single space unless the last emission already was one.
func (st *state) emitSpace() {
	if !st.hadSpace {
		st.emitText(" ")
	}
	st.hadSpace = true
}

// emitGap emits source text that no token claimed. Every whitespace run
// becomes a single space.
func (st *state) emitGap(s string) {
	for s != "" {
		if n := spaceRun(s); n > 0 {
			st.emitSpace()
			s = s[n:]
			continue
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			i = len(s)
		}
		st.emitText(s[:i])
		st.hadSpace = false
		s = s[i:]
	}
}

// emitUpto emits the source text between the mark and p.
func (st *state) emitUpto(p int) {
	if p > st.mark {
		st.emitGap(st.text()[st.mark:p])
		st.mark = p
	}
}

// emitWord emits the word covering start..end. A space is inserted first
// unless one was just emitted or the word carries on a rune an earlier word
// began to substitute.
func (st *state) emitWord(start, end int, analyses []corpus.Analysis) {
	from := max(start, st.mark)
	end = max(end, from)
	st.emitUpto(from)
	if start >= from {
		st.emitSpace()
	}
	st.out[st.sent] = append(st.out[st.sent], corpus.WordChild(st.text()[from:end], analyses))
	st.mark = end
	st.hadSpace = false
}

func (st *state) skip(tok tagging.Token, expected string) {
	st.skipped++
	logging.SkippedToken(tok.Kind.String(), tok.Text, expected, "sentence", st.sent)
}

// space consumes a run of source whitespace and emits one space for it. A
// space token at the end of a sentence stands for the newline joining the
// batch and emits nothing.
func (st *state) space() {
	if len(st.texts) == 0 {
		return
	}
	st.ensure()
	t := st.text()
	n := spaceRun(t[st.cursor:])
	if n > 0 {
		st.emitUpto(st.cursor)
		st.cursor += n
		st.progress = 0
		st.mark = max(st.mark, st.cursor)
	} else if st.cursor >= len(t) {
		return
	} else if !st.hadSpace {
		logging.Debug("space token without source whitespace", "sentence", st.sent, "offset", st.cursor)
	}
	st.emitSpace()
}

// literal places a separator or number token. A token missing from the
// current sentence moves the pass on only when the rest of the sentence is
// noise (no letters or digits); otherwise the token is skipped.
func (st *state) literal(table *subst.Table, tok tagging.Token) {
	if tok.Text == "" || len(st.texts) == 0 {
		st.skip(tok, "")
		return
	}
	st.ensure()
	for {
		t := st.text()
		if m, ok := search(table, t, st.cursor, st.progress, tok.Text); ok {
			st.checkDrift(tok, m.start)
			st.advance(m)
			st.emitUpto(max(m.end, m.covered))
			st.hadSpace = false
			return
		}
		rest := t[max(st.cursor, st.mark):]
		if hasWordChar(rest) || st.sent+1 >= len(st.texts) {
			st.checkDrift(tok, -1)
			st.skip(tok, preview(rest))
			return
		}
		st.leave()
		st.enter(st.sent + 1)
	}
}

// locate finds the first piece of a word, moving to a later sentence of
// the batch when the current one has no match.
func (st *state) locate(table *subst.Table, piece string) (match, bool) {
	if len(st.texts) == 0 {
		return match{}, false
	}
	st.ensure()
	if m, ok := search(table, st.text(), st.cursor, st.progress, piece); ok {
		return m, true
	}
	for j := st.sent + 1; j < len(st.texts); j++ {
		if m, ok := search(table, st.texts[j], 0, 0, piece); ok {
			st.leave()
			st.enter(j)
			return m, true
		}
	}
	return match{}, false
}

// checkDrift compares a positioned token with the batch text at its claimed
// offset and, when at is not negative, with the sentence position it was
// matched at. Mismatches are only logged.
func (st *state) checkDrift(tok tagging.Token, at int) {
	if tok.Offset < 0 {
		return
	}
	recomputed := ""
	if tok.Offset <= len(st.batch) {
		recomputed = st.batch[tok.Offset:min(tok.Offset+len(tok.Text), len(st.batch))]
	}
	matched := -1
	if at >= 0 {
		matched = st.starts[st.sent] + at
	}
	if recomputed != tok.Text || (matched >= 0 && matched != tok.Offset) {
		logging.Drift(tok.Text, recomputed, tok.Offset, "matched_offset", matched)
	}
}

// preview returns the first few runes of s for log messages.
func preview(s string) string {
	const n = 12
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i, count := 0, 0
	for count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i] + "..."
}
