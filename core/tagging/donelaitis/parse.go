package donelaitis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// responseLine is one pseudo-XML line of an analysis response.
// Examples: `<space>`, `<ambig>`, `</ambig>`, `<number="12">`,
// `<word="Jis" lemma="jis(1)" type="įv., vyr. g., vns., V."/>`
//
//nolint:govet // participle grammar tags are not standard struct tags
type responseLine struct {
	Closing     bool        `"<" @"/"?`
	Name        string      `@Ident`
	Value       *string     `( "=" @String )?`
	Attrs       []*lineAttr `@@*`
	SelfClosing bool        `@"/"? ">"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type lineAttr struct {
	Key   string `@Ident "="`
	Value string `@String`
}

func (l *responseLine) attr(key string) string {
	for _, a := range l.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func (l *responseLine) value() string {
	if l.Value == nil {
		return ""
	}
	return *l.Value
}

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-]*`},
	{Name: "Punct", Pattern: `[<>/=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var lineParser = participle.MustBuild[responseLine](
	participle.Lexer(lineLexer),
	participle.Elide("Whitespace"),
	participle.Map(stripQuotes, "String"),
)

func stripQuotes(t lexer.Token) (lexer.Token, error) {
	t.Value = t.Value[1 : len(t.Value)-1]
	return t, nil
}

// Parse converts the analysis section of a response into tokens. Lines that
// are not analysis markup are ignored.
func Parse(body string) []tagging.Token {
	var tokens []tagging.Token
	var ambig *tagging.Token

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		// A quote separator (<sep=""">) is not valid for the grammar.
		if rest, ok := strings.CutPrefix(line, `<sep="`); ok {
			if r, size := utf8.DecodeRuneInString(rest); size > 0 && r != utf8.RuneError {
				tokens = append(tokens, tagging.Sep(string(r)))
			}
			continue
		}

		parsed, err := lineParser.ParseString("", line, participle.AllowTrailing(true))
		if err != nil {
			logging.Debug("unparsed response line", "line", line, "error", err)
			continue
		}

		switch {
		case parsed.Name == "space" && !parsed.Closing:
			tokens = append(tokens, tagging.Space())
		case parsed.Name == "number" && !parsed.Closing:
			if digits := parsed.value(); isDigits(digits) {
				tokens = append(tokens, tagging.Num(digits))
			}
		case parsed.Name == "ambig" && !parsed.Closing:
			ambig = &tagging.Token{Kind: tagging.Ambiguous, Offset: -1}
		case parsed.Name == "ambig" && parsed.Closing:
			if ambig == nil {
				continue
			}
			if ambig.Text == "" {
				logging.Warn("empty ambiguous group in response")
			}
			tokens = append(tokens, *ambig)
			ambig = nil
		case parsed.Name == "word" && !parsed.Closing:
			surface := parsed.value()
			v := tagging.Variant{Lemma: trimLemma(parsed.attr("lemma")), Code: parsed.attr("type")}
			if ambig != nil {
				ambig.Text = surface
				ambig.Variants = append(ambig.Variants, v)
				continue
			}
			tokens = append(tokens, tagging.NewWord(surface, v.Lemma, v.Code))
		}
	}
	return tokens
}

// trimLemma drops the homonym marker: "eiti(1)" becomes "eiti".
func trimLemma(lemma string) string {
	if i := strings.IndexByte(lemma, '('); i > 0 {
		return lemma[:i]
	}
	return lemma
}

func isDigits(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
