// Package subst holds the character substitutions a tagging service may
// apply to its input. A source character maps to the ordered pieces the
// service emits in its place; the aligner consumes the source character only
// once every piece has been matched.
package subst

// Table maps a source rune to its replacement sequence. Tables are
// immutable once built; Merge returns a new table.
type Table struct {
	rules map[rune][]string
}

// Default is the table used unless configuration overrides it.
var Default = New(defaultRules)

// defaultRules lists normalizations observed in Lithuanian and Russian
// corpus texts: ligatures and digraph letters are split, stress-marked
// vowels lose their accent, and typographic letters fold to ASCII.
var defaultRules = map[rune][]string{
	// ligatures
	'ﬀ': {"ff"},
	'ﬁ': {"fi"},
	'ﬂ': {"fl"},
	'ﬃ': {"ffi"},
	'ﬄ': {"ffl"},
	'ﬆ': {"st"},
	'æ': {"ae"},
	'Æ': {"AE"},
	'œ': {"oe"},
	'Œ': {"OE"},
	'ß': {"ss"},

	// digraph letters the service splits into two pieces
	'ǆ': {"d", "ž"},
	'ǅ': {"D", "ž"},
	'Ǆ': {"D", "Ž"},
	'ǉ': {"l", "j"},
	'ǌ': {"n", "j"},
	'ĳ': {"i", "j"},

	// stress-accented vowels
	'à': {"a"},
	'á': {"a"},
	'ã': {"a"},
	'è': {"e"},
	'é': {"e"},
	'ẽ': {"e"},
	'ì': {"i"},
	'í': {"i"},
	'ĩ': {"i"},
	'ò': {"o"},
	'ó': {"o"},
	'õ': {"o"},
	'ù': {"u"},
	'ú': {"u"},
	'ũ': {"u"},
	'ỹ': {"y"},
	'ý': {"y"},
	'ñ': {"n"},

	// typographic letters
	'ё': {"е"},
	'Ё': {"Е"},
	'ʼ': {"'"},
	'’': {"'"},
	'ı': {"i"},
}

// New builds a table from rules. Rules with an empty sequence or an empty
// piece are ignored.
func New(rules map[rune][]string) *Table {
	t := &Table{rules: make(map[rune][]string, len(rules))}
	for r, seq := range rules {
		if valid(seq) {
			t.rules[r] = append([]string(nil), seq...)
		}
	}
	return t
}

func valid(seq []string) bool {
	if len(seq) == 0 {
		return false
	}
	for _, piece := range seq {
		if piece == "" {
			return false
		}
	}
	return true
}

// Lookup returns the replacement sequence registered for r.
func (t *Table) Lookup(r rune) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	seq, ok := t.rules[r]
	return seq, ok
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Merge returns a new table with overrides layered over t. An override with
// an empty sequence removes the rule.
func (t *Table) Merge(overrides map[rune][]string) *Table {
	merged := &Table{rules: make(map[rune][]string, t.Len()+len(overrides))}
	if t != nil {
		for r, seq := range t.rules {
			merged.rules[r] = seq
		}
	}
	for r, seq := range overrides {
		if !valid(seq) {
			delete(merged.rules, r)
			continue
		}
		merged.rules[r] = append([]string(nil), seq...)
	}
	return merged
}

// ParseOverrides converts configuration keys (single characters) into rune
// keys. Keys that are not exactly one character are returned in bad.
func ParseOverrides(raw map[string][]string) (overrides map[rune][]string, bad []string) {
	overrides = make(map[rune][]string, len(raw))
	for key, seq := range raw {
		runes := []rune(key)
		if len(runes) != 1 {
			bad = append(bad, key)
			continue
		}
		overrides[runes[0]] = seq
	}
	return overrides, bad
}
