package corpus

import (
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/xml"
)

// sentencePath selects sentences directly under the paragraphs of the first
// body element.
const sentencePath = "/*/" + ElemBody + "[1]/" + ElemPara + "/" + ElemSentence

// WalkOptions controls which sentences are listed.
type WalkOptions struct {
	// Foreign lists language markers excluded from tagging.
	Foreign []string
}

// DefaultWalkOptions excludes Russian sentences.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{Foreign: []string{"ru"}}
}

func (o WalkOptions) foreign(lang string) bool {
	for _, f := range o.Foreign {
		if f == lang {
			return true
		}
	}
	return false
}

// Sentences lists the in-scope sentences of doc in document order. The
// document is not modified.
func Sentences(doc *xml.Document, opts WalkOptions) ([]*Sentence, error) {
	if doc == nil || doc.Root() == nil {
		return nil, errors.NewValidation("document", "has no root element")
	}
	nodes, err := doc.XPath(sentencePath)
	if err != nil {
		return nil, errors.Wrap(err, "listing sentences")
	}

	sentences := make([]*Sentence, 0, len(nodes))
	for _, n := range nodes {
		s := NewSentence(n)
		if opts.foreign(s.Lang()) {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}
