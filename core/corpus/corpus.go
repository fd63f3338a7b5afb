// Package corpus models RNC-style corpus documents: sentences, their decoded
// children, and the walker that lists the sentences a run should tag.
package corpus

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/rnctag/core/xml"
)

// Element and attribute names of the RNC markup.
const (
	ElemBody     = "body"
	ElemPara     = "para"
	ElemSentence = "se"
	ElemWord     = "w"
	ElemAnalysis = "ana"
	AttrLang     = "lang"
	AttrLemma    = "lex"
	AttrGr       = "gr"
	AttrID       = "id"
)

// Analysis is one reading attached to a word element.
type Analysis struct {
	Lemma string
	Gr    string
}

// ChildKind discriminates sentence children.
type ChildKind int

const (
	TextKind ChildKind = iota
	WordKind
)

// Child is either a text run or a word element. Text holds the text run or
// the word's surface text; Analyses is set only for words.
type Child struct {
	Kind     ChildKind
	Text     string
	Analyses []Analysis
}

// TextChild builds a text child.
func TextChild(s string) Child { return Child{Kind: TextKind, Text: s} }

// WordChild builds a word child.
func WordChild(surface string, analyses []Analysis) Child {
	return Child{Kind: WordKind, Text: surface, Analyses: analyses}
}

// IsWord reports whether c is a word element.
func (c Child) IsWord() bool { return c.Kind == WordKind }

// Surface concatenates the text carried by children, words included.
func Surface(children []Child) string {
	var sb strings.Builder
	for _, c := range children {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// Sentence wraps one <se> element.
type Sentence struct {
	node *xml.Node
}

// NewSentence wraps an existing <se> node.
func NewSentence(node *xml.Node) *Sentence {
	return &Sentence{node: node}
}

// Node returns the underlying element.
func (s *Sentence) Node() *xml.Node { return s.node }

// Text returns the trimmed text content.
func (s *Sentence) Text() string {
	return strings.TrimSpace(s.node.InnerText())
}

// Lang returns the language marker.
func (s *Sentence) Lang() string {
	return s.node.Attr(AttrLang)
}

// Tagged reports whether the sentence already carries word elements.
func (s *Sentence) Tagged() bool {
	for _, c := range s.node.Children() {
		if c.Name() == ElemWord {
			return true
		}
	}
	return false
}

// Replace discards the current children and writes children in their place.
func (s *Sentence) Replace(children []Child) {
	s.node.RemoveChildren()
	for _, c := range children {
		if !c.IsWord() {
			s.node.AppendText(c.Text)
			continue
		}
		w := s.node.AppendElement(ElemWord)
		for _, a := range c.Analyses {
			ana := w.AppendElement(ElemAnalysis)
			ana.SetAttr(AttrLemma, a.Lemma)
			ana.SetAttr(AttrGr, a.Gr)
		}
		w.AppendText(c.Text)
	}
}

// Children decodes the current children. Elements other than <w> are read
// as their text content.
func (s *Sentence) Children() []Child {
	var out []Child
	for _, n := range s.node.Nodes() {
		switch {
		case n.IsText():
			out = append(out, TextChild(n.Data()))
		case n.Name() == ElemWord:
			out = append(out, decodeWord(n))
		default:
			out = append(out, TextChild(n.InnerText()))
		}
	}
	return out
}

func decodeWord(w *xml.Node) Child {
	var analyses []Analysis
	var surface strings.Builder
	for _, n := range w.Nodes() {
		if n.Name() == ElemAnalysis {
			analyses = append(analyses, Analysis{Lemma: n.Attr(AttrLemma), Gr: n.Attr(AttrGr)})
			continue
		}
		surface.WriteString(n.InnerText())
	}
	return WordChild(surface.String(), analyses)
}

// NewDocument builds a fresh corpus document holding one paragraph per
// non-empty line, each with a single untagged Lithuanian sentence.
func NewDocument(lines []string) *xml.Document {
	doc := xml.NewDocument("html")
	root := doc.Root()
	root.AppendElement("head")
	body := root.AppendElement(ElemBody)

	id := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		body.AppendText("\n")
		para := body.AppendElement(ElemPara)
		para.SetAttr(AttrID, strconv.Itoa(id))
		id++
		se := para.AppendElement(ElemSentence)
		se.SetAttr(AttrLang, "lt")
		se.AppendText(line)
	}
	body.AppendText("\n")
	return doc
}
