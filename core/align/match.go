package align

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/rnctag/core/subst"
)

// match describes where a word piece landed in a sentence.
type match struct {
	start    int // first source byte the piece covers
	end      int // cursor after the piece
	progress int // substitution steps taken on the rune at end
	// covered is the end of the source span the piece touched. It exceeds
	// end when the piece stops part way through a substituted rune.
	covered int
}

// matchAt tries to read piece from text starting at p. progress is the
// number of substitution steps already taken on the rune at p.
//
// Each source rune is matched either literally or through its substitution
// sequence. A piece may stop part way through a sequence; the cursor then
// stays in front of that rune and the progress is returned so the next piece
// can carry on from the following step.
func matchAt(table *subst.Table, text string, p, progress int, piece string) (match, bool) {
	q, i := p, 0
	for i < len(piece) {
		if q >= len(text) {
			return match{}, false
		}
		r, size := utf8.DecodeRuneInString(text[q:])
		if progress == 0 && strings.HasPrefix(piece[i:], text[q:q+size]) {
			i += size
			q += size
			continue
		}

		seq, ok := table.Lookup(r)
		if !ok || progress >= len(seq) {
			return match{}, false
		}
		step := progress
		for step < len(seq) && strings.HasPrefix(piece[i:], seq[step]) {
			i += len(seq[step])
			step++
		}
		switch {
		case step == len(seq):
			q += size
			progress = 0
		case step > progress && i == len(piece):
			return match{start: p, end: q, progress: step, covered: q + size}, true
		default:
			return match{}, false
		}
	}
	return match{start: p, end: q, covered: q}, true
}

// search scans text from cursor for the first position where piece matches.
// progress applies only at the cursor itself.
func search(table *subst.Table, text string, cursor, progress int, piece string) (match, bool) {
	for p := cursor; p < len(text); {
		k := 0
		if p == cursor {
			k = progress
		}
		if m, ok := matchAt(table, text, p, k, piece); ok {
			return m, true
		}
		_, size := utf8.DecodeRuneInString(text[p:])
		p += size
	}
	return match{}, false
}

// spaceRun returns the byte length of the whitespace run at the start of s.
func spaceRun(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

// hasWordChar reports whether s contains a letter or digit.
func hasWordChar(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
