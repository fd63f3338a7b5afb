// Package crosswalk converts a tagger's grammar codes into the portable
// left/right feature form written to the gr attribute of an analysis.
//
// Left features classify the lexeme (part of speech, gender of nouns,
// reflexivity); right features describe the word form (case, number, tense).
// Every backend has its own table, and all tables produce the same Features
// shape, so the aligner never needs to know which backend produced a token.
package crosswalk

import (
	"sort"
	"strings"

	"github.com/FocuswithJustin/rnctag/core/errors"
)

// Features is a pair of ordered, duplicate-free feature lists.
// Order is first-insertion order, which is stable for a given code.
type Features struct {
	Left  []string
	Right []string
}

// Gr renders the features as "l1,l2=r1,r2". Either side may be empty.
func (f Features) Gr() string {
	return strings.Join(f.Left, ",") + "=" + strings.Join(f.Right, ",")
}

// Empty reports whether neither side carries a feature.
func (f Features) Empty() bool {
	return len(f.Left) == 0 && len(f.Right) == 0
}

// Add merges an entry's contribution into f.
func (f *Features) Add(e Entry) {
	f.Left = appendUnique(f.Left, e.Left...)
	f.Right = appendUnique(f.Right, e.Right...)
}

func appendUnique(set []string, vals ...string) []string {
outer:
	for _, v := range vals {
		for _, have := range set {
			if have == v {
				continue outer
			}
		}
		set = append(set, v)
	}
	return set
}

// UDFeature is one Universal Dependencies item: either a part of speech or
// a Key=Value feature.
type UDFeature struct {
	PartOfSpeech string
	Key          string
	Value        string
}

// IsZero reports whether the feature carries nothing.
func (u UDFeature) IsZero() bool {
	return u.PartOfSpeech == "" && u.Key == ""
}

func (u UDFeature) String() string {
	if u.PartOfSpeech != "" {
		return u.PartOfSpeech
	}
	return u.Key + "=" + u.Value
}

// Entry is one row of a crosswalk table.
type Entry struct {
	Left  []string
	Right []string
	// Irrelevant marks rows that deliberately contribute no features.
	Irrelevant bool
	UD         UDFeature
	Comment    string
}

// Crosswalk converts one backend's grammar code into Features.
// Unknown parts of a code are logged and skipped; Convert never fails.
type Crosswalk interface {
	Name() string
	Convert(code string) Features
}

var registry = map[string]Crosswalk{}

func register(c Crosswalk) {
	registry[c.Name()] = c
}

// ByName returns the crosswalk registered under name.
func ByName(name string) (Crosswalk, error) {
	c, ok := registry[name]
	if !ok {
		return nil, errors.NewUnsupported("crosswalk", name)
	}
	return c, nil
}

// Names lists the registered crosswalks in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// rnc builds a row from comma-separated left and right features.
func rnc(left, right string) Entry {
	return Entry{Left: split(left), Right: split(right)}
}

// irrelevant builds a row that intentionally maps to nothing.
func irrelevant(comment string) Entry {
	return Entry{Irrelevant: true, Comment: comment}
}
