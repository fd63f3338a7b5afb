package report

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/xml"
)

const tagged = `<?xml version="1.0" encoding="UTF-8"?>
<html><head></head><body>
<para id="0"><se lang="lt"><w><ana lex="jis" gr="SPRO,m=sg,nom"/>Jis</w> <w><ana lex="qwerty" gr="="/>qwerty</w>.</se></para>
<para id="1"><se lang="lt"><w><ana lex="eiti" gr="V=sg"/><ana lex="x" gr="="/>eina</w> <w><ana lex="y" gr="="/>y</w></se></para>
<para id="2"><se lang="ru"><w><ana lex="он" gr="="/>Он</w></se></para>
<para id="3"><se lang="lt"><w><ana lex="ji" gr="SPRO,f=sg,nom"/>Ji</w></se></para>
</body></html>`

func grep(t *testing.T, opts GrepOptions) (*xml.Document, GrepSummary) {
	t.Helper()
	in, err := xml.Parse([]byte(tagged))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, sum, err := Grep(in, opts)
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	return out, sum
}

func count(t *testing.T, d *xml.Document, expr string) int {
	t.Helper()
	nodes, err := d.XPath(expr)
	if err != nil {
		t.Fatalf("XPath(%s): %v", expr, err)
	}
	return len(nodes)
}

func TestGrepBothSections(t *testing.T) {
	out, sum := grep(t, GrepOptions{UnparsedWords: true, WithUnparsedWords: true, Walk: corpus.DefaultWalkOptions()})

	if sum.Words != 3 || sum.Sentences != 2 {
		t.Errorf("summary = %+v, want 3 words in 2 sentences", sum)
	}
	if out.Root().Name() != ElemGrepOutput {
		t.Errorf("root = %s", out.Root().Name())
	}
	if n := count(t, out, "/grep-output/unparsed-words/w"); n != 3 {
		t.Errorf("unparsed words = %d, want 3", n)
	}
	if n := count(t, out, "/grep-output/with-unparsed-words/se"); n != 2 {
		t.Errorf("sentences = %d, want 2", n)
	}
	// A word keeps all of its analyses, not just the empty one.
	if n := count(t, out, "/grep-output/unparsed-words/w[2]/ana"); n != 2 {
		t.Errorf("analyses of eina = %d, want 2", n)
	}

	xmlText := string(out.Serialize())
	if !strings.Contains(xmlText, "<grep-output>\n\t<unparsed-words>\n\t\t<w>") {
		t.Errorf("unexpected layout:\n%s", xmlText)
	}
	if strings.Contains(xmlText, "Он") {
		t.Error("foreign sentence included")
	}
}

func TestGrepSections(t *testing.T) {
	tests := []struct {
		name      string
		opts      GrepOptions
		words     int
		sentences int
	}{
		{"words only", GrepOptions{UnparsedWords: true}, 4, 0},
		{"sentences only", GrepOptions{WithUnparsedWords: true}, 0, 3},
		{"neither", GrepOptions{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := grep(t, tt.opts)
			if n := count(t, out, "//unparsed-words/w"); n != tt.words {
				t.Errorf("words = %d, want %d", n, tt.words)
			}
			if n := count(t, out, "//with-unparsed-words/se"); n != tt.sentences {
				t.Errorf("sentences = %d, want %d", n, tt.sentences)
			}
			if tt.opts.UnparsedWords != (count(t, out, "/grep-output/unparsed-words") == 1) {
				t.Error("unparsed-words section presence does not follow the option")
			}
		})
	}
}

func TestGrepDoesNotModifyInput(t *testing.T) {
	in, _ := xml.Parse([]byte(tagged))
	before := string(in.Serialize())
	Grep(in, GrepOptions{UnparsedWords: true, WithUnparsedWords: true})
	if string(in.Serialize()) != before {
		t.Error("input document changed")
	}
}

func TestGrepInvalidDocument(t *testing.T) {
	if _, _, err := Grep(nil, GrepOptions{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
