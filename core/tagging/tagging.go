// Package tagging defines the token stream returned by morphological tagging
// services and the contract every tagging backend implements.
package tagging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/rnctag/core/crosswalk"
)

// Kind classifies a token.
type Kind int

const (
	// Separator is punctuation or any other non-word mark.
	Separator Kind = iota
	// Whitespace stands for one or more source spaces.
	Whitespace
	// Word is a recognized word with a single analysis.
	Word
	// Ambiguous is a word with competing analyses over one surface text.
	Ambiguous
	// Number is a run of digits.
	Number
)

var kindNames = [...]string{"sep", "space", "word", "ambiguous", "number"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown token kind %q", b)
}

// Variant is one lemma/grammar-code reading of a word.
type Variant struct {
	Lemma string `json:"lemma"`
	Code  string `json:"code"`
}

// Token is one element of a tagging service's output.
type Token struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
	// Offset is the byte offset of Text in the batch text, or -1 when the
	// backend does not report positions.
	Offset int `json:"offset"`
}

// UnmarshalJSON decodes a token; a missing offset means unknown.
func (t *Token) UnmarshalJSON(data []byte) error {
	type plain Token
	p := plain{Offset: -1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Token(p)
	return nil
}

// Sep builds a separator token.
func Sep(text string) Token { return Token{Kind: Separator, Text: text, Offset: -1} }

// Space builds a whitespace token.
func Space() Token { return Token{Kind: Whitespace, Text: " ", Offset: -1} }

// Num builds a number token.
func Num(text string) Token { return Token{Kind: Number, Text: text, Offset: -1} }

// NewWord builds a single-reading word token.
func NewWord(text, lemma, code string) Token {
	return Token{Kind: Word, Text: text, Variants: []Variant{{Lemma: lemma, Code: code}}, Offset: -1}
}

// NewAmbiguous builds a word token with several readings.
func NewAmbiguous(text string, variants ...Variant) Token {
	return Token{Kind: Ambiguous, Text: text, Variants: variants, Offset: -1}
}

// At returns a copy of t positioned at offset.
func (t Token) At(offset int) Token {
	t.Offset = offset
	return t
}

// IsWord reports whether the token carries analyses.
func (t Token) IsWord() bool {
	return t.Kind == Word || t.Kind == Ambiguous
}

// Pieces splits a multi-word surface text on whitespace.
func (t Token) Pieces() []string {
	return strings.Fields(t.Text)
}

// Tagger is a morphological tagging backend.
type Tagger interface {
	// Name identifies the backend in logs and cache keys.
	Name() string
	// Crosswalk converts the backend's grammar codes.
	Crosswalk() crosswalk.Crosswalk
	// Tag analyzes text, which holds the batch sentences joined by newlines.
	Tag(ctx context.Context, text string) ([]Token, error)
}

// JoinBatch joins trimmed sentence texts the way they are sent to a backend.
func JoinBatch(texts []string) string {
	trimmed := make([]string, len(texts))
	for i, s := range texts {
		trimmed[i] = strings.TrimSpace(s)
	}
	return strings.Join(trimmed, "\n")
}
