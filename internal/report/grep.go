// Package report extracts review material from tagged documents.
package report

import (
	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/xml"
)

// Root and section element names of a grep report.
const (
	ElemGrepOutput        = "grep-output"
	ElemUnparsedWords     = "unparsed-words"
	ElemWithUnparsedWords = "with-unparsed-words"
)

// unparsed is the gr value of an analysis with no features.
const unparsed = "="

// GrepOptions selects the report sections.
type GrepOptions struct {
	// UnparsedWords lists every word with an empty analysis.
	UnparsedWords bool
	// WithUnparsedWords lists every sentence containing such a word.
	WithUnparsedWords bool
	Walk              corpus.WalkOptions
}

// GrepSummary counts what a report found.
type GrepSummary struct {
	Words     int
	Sentences int
}

// Grep collects words whose crosswalk produced no features, so a reviewer
// can see which codes or tokens the tables still miss. Sections not
// requested in opts are omitted; the counts are always filled in.
func Grep(doc *xml.Document, opts GrepOptions) (*xml.Document, GrepSummary, error) {
	sentences, err := corpus.Sentences(doc, opts.Walk)
	if err != nil {
		return nil, GrepSummary{}, err
	}

	out := xml.NewDocument(ElemGrepOutput)
	root := out.Root()
	root.AppendText("\n")
	var words, withWords *xml.Node
	if opts.UnparsedWords {
		words = section(root, ElemUnparsedWords)
	}
	if opts.WithUnparsedWords {
		withWords = section(root, ElemWithUnparsedWords)
	}

	var sum GrepSummary
	for _, s := range sentences {
		found := false
		for _, w := range s.Node().Children() {
			if w.Name() != corpus.ElemWord || !hasUnparsed(w) {
				continue
			}
			found = true
			sum.Words++
			appendIndented(words, w.Clone())
		}
		if found {
			sum.Sentences++
			appendIndented(withWords, s.Node().Clone())
		}
	}
	closeSection(words)
	closeSection(withWords)
	return out, sum, nil
}

func hasUnparsed(w *xml.Node) bool {
	for _, ana := range w.Children() {
		if ana.Name() == corpus.ElemAnalysis && ana.Attr(corpus.AttrGr) == unparsed {
			return true
		}
	}
	return false
}

func section(root *xml.Node, name string) *xml.Node {
	root.AppendText("\t")
	s := root.AppendElement(name)
	root.AppendText("\n")
	return s
}

func appendIndented(parent, child *xml.Node) {
	if parent == nil {
		return
	}
	parent.AppendText("\n\t\t")
	parent.AppendNode(child)
}

func closeSection(s *xml.Node) {
	if s != nil && len(s.Nodes()) > 0 {
		s.AppendText("\n\t")
	}
}
