package crosswalk

import (
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// SemantikaName is the registry name of the Semantika crosswalk.
const SemantikaName = "semantika"

// positionTable maps a 1-based position of a positional code to the rows
// selectable by the character at that position.
type positionTable map[int]map[byte]Entry

func pos(p string) UDFeature     { return UDFeature{PartOfSpeech: p} }
func feat(k, v string) UDFeature { return UDFeature{Key: k, Value: v} }

// row builds a positional row. A row without RNC features is irrelevant to
// the crosswalk but may still carry a UD feature for export.
func row(comment, left, right string, ud UDFeature) Entry {
	e := rnc(left, right)
	e.UD = ud
	e.Comment = comment
	e.Irrelevant = len(e.Left) == 0 && len(e.Right) == 0
	return e
}

var dash = row("irrelevant", "", "", UDFeature{})

var cases = map[byte]Entry{
	'n': row("nominative", "", "nom", feat("Case", "Nom")),
	'g': row("genitive", "", "gen", feat("Case", "Gen")),
	'd': row("dative", "", "dat", feat("Case", "Dat")),
	'a': row("accusative", "", "acc", feat("Case", "Acc")),
	'i': row("instrumental", "", "ins", feat("Case", "Ins")),
	'l': row("locative", "", "loc", feat("Case", "Loc")),
	'v': row("vocative", "", "voc", feat("Case", "Voc")),
	'x': row("illative", "", "ill", feat("Case", "Ill")),
	'-': dash,
}

func gender(withDash bool) map[byte]Entry {
	m := map[byte]Entry{
		'f': row("feminine", "", "f", feat("Gender", "Fem")),
		'm': row("masculine", "", "m", feat("Gender", "Masc")),
		'n': row("neuter", "", "n", feat("Gender", "Neut")),
	}
	if withDash {
		m['-'] = dash
	}
	return m
}

func number(dual, withDash bool) map[byte]Entry {
	m := map[byte]Entry{
		'p': row("plural", "", "pl", feat("Number", "Plur")),
		's': row("singular", "", "sg", feat("Number", "Sing")),
	}
	if dual {
		m['d'] = row("dual", "", "du", feat("Number", "Dual"))
	}
	if withDash {
		m['-'] = dash
	}
	return m
}

func definite(withDash bool) map[byte]Entry {
	m := map[byte]Entry{
		'y': row("yes", "", "def", feat("Definite", "Def")),
		'n': row("no", "", "indef", feat("Definite", "Ind")),
	}
	if withDash {
		m['-'] = dash
	}
	return m
}

func degree(diminutive bool) map[byte]Entry {
	m := map[byte]Entry{
		'p': row("positive", "", "", feat("Degree", "Pos")),
		'c': row("comparative", "", "comp", feat("Degree", "Cmp")),
		's': row("superlative", "", "super", feat("Degree", "Sup")),
		'-': dash,
	}
	if diminutive {
		m['d'] = row("diminutive", "dim", "", feat("Derivation", "Dimin"))
	}
	return m
}

var general = map[byte]Entry{'g': row("general", "", "", UDFeature{})}

// semantikaTable is keyed by the class character at position 1.
var semantikaTable = map[byte]positionTable{
	'N': {
		1: {'N': row("noun", "S", "", pos("NOUN/PROPN"))},
		2: {
			'c': row("common", "S", "", pos("NOUN")),
			'p': row("proper", "S,propn", "", pos("PROPN")),
		},
		3: {
			'c': row("common", "m-f", "", feat("Gender", "Com")),
			'f': row("feminine", "f", "", feat("Gender", "Fem")),
			'm': row("masculine", "m", "", feat("Gender", "Masc")),
		},
		4: number(true, true),
		5: cases,
		6: {
			'y': row("reflexive", "", "", feat("Reflex", "Yes")),
			'n': row("not reflexive", "", "", UDFeature{}),
		},
		7: {
			'f': row("first name", "", "", UDFeature{}),
			's': row("surname", "", "", UDFeature{}),
			'g': row("geographic name", "", "", UDFeature{}),
			'-': dash,
		},
	},
	'V': {
		1: {'V': row("verb", "V", "", pos("VERB"))},
		2: general,
		3: {
			'i': row("infinitive", "", "inf", feat("VerbForm", "Inf")),
			'm': row("finite", "", "", feat("VerbForm", "Fin")),
			'p': row("participle", "", "partcp", feat("VerbForm", "Part")),
			'a': row("adverbial participle", "", "partcp,ger,dsubj", feat("VerbForm", "PartPad")),
			'h': row("half participle", "", "partcp,ger,ssubj", feat("VerbForm", "PartPus")),
			's': row("manner participle", "", "partcp,ger,manner", feat("VerbForm", "PartManner")),
		},
		4: {
			'p': row("present", "", "praes", feat("Tense", "Pres")),
			'a': row("simple past", "", "praet", feat("Tense", "PastSimp")),
			's': row("past", "", "praet", feat("Tense", "Past")),
			'q': row("past frequentative", "", "praet,hab", feat("Tense", "PastIter")),
			'f': row("future", "", "fut", feat("Tense", "Fut")),
		},
		5: {
			'1': row("first", "", "1p", feat("Person", "1")),
			'2': row("second", "", "2p", feat("Person", "2")),
			'3': row("third", "", "3p", feat("Person", "3")),
		},
		6: number(true, false),
		7: gender(true),
		8: {
			'a': row("active", "", "act", feat("Voice", "Act")),
			'p': row("passive", "", "pass", feat("Voice", "Pass")),
			'n': row("necessity", "", "debit", feat("Voice", "Necess")),
			'-': dash,
		},
		9: {
			'y': row("negative", "", "neg", feat("Polarity", "Neg")),
			'n': row("affirmative", "", "", feat("Polarity", "Pos")),
		},
		10: definite(false),
		11: cases,
		12: {
			'y': row("reflexive", "refl", "", feat("Reflex", "Yes")),
			'n': row("not reflexive", "", "", UDFeature{}),
		},
		13: {
			'i': row("indicative", "", "indic", feat("Mood", "Ind")),
			's': row("subjunctive", "", "cond", feat("Mood", "Cnd")),
			'm': row("imperative", "", "imper", feat("Mood", "Imp")),
			'-': dash,
		},
		14: degree(false),
	},
	'A': {
		1: {'A': row("adjective", "A", "", pos("ADJ"))},
		2: general,
		3: degree(true),
		4: gender(true),
		5: number(true, true),
		6: cases,
		7: definite(false),
	},
	'P': {
		1: {'P': row("pronoun", "PRO", "", pos("PRON"))},
		2: general,
		3: gender(true),
		4: number(true, true),
		5: cases,
		6: definite(true),
	},
	'M': {
		1: {'M': row("numeral", "NUM", "", pos("NUM"))},
		2: {
			'c': row("cardinal", "", "card", feat("NumType", "Card")),
			'o': row("ordinal", "ord", "", feat("NumType", "Ord")),
			'l': row("collective", "coll", "", feat("NumType", "Sets")),
			'm': row("multiple", "mult", "", feat("NumType", "Mult")),
			'-': dash,
		},
		3: gender(true),
		4: number(false, true),
		5: cases,
		6: {
			'd': row("digit", "ciph", "", feat("NumForm", "Digit")),
			'r': row("roman", "ciph", "", feat("NumForm", "Roman")),
			'l': row("letter", "", "", feat("NumForm", "Letter")),
			'm': row("m-form", "", "", UDFeature{}),
		},
		7: definite(true),
	},
	'R': {
		1: {'R': row("adverb", "ADV", "", pos("ADV"))},
		2: general,
		3: degree(true),
	},
	'S': {
		1: {'S': row("preposition", "PR", "", pos("ADP"))},
		2: general,
		3: {
			'g': row("genitive", "", "", feat("Case", "Gen")),
			'd': row("dative", "", "", feat("Case", "Dat")),
			'a': row("accusative", "", "", feat("Case", "Acc")),
			'i': row("instrumental", "", "", feat("Case", "Ins")),
		},
	},
	'C': {
		1: {'C': row("conjunction", "CONJ", "", pos("CCONJ/SCONJ"))},
		2: general,
	},
	'Q': {
		1: {'Q': row("particle", "PART", "", pos("PART"))},
		2: general,
	},
	'I': {
		1: {'I': row("interjection", "INTJ", "", pos("INTJ"))},
		2: general,
	},
	'O': {
		1: {'O': row("onomatopoeia", "INTJ", "", pos("INTJ"))},
		2: general,
	},
	'D': {
		1: {'D': row("residual", "", "", pos("X"))},
		2: {
			'f': row("foreign", "", "", UDFeature{}),
			't': row("typo", "", "", UDFeature{}),
			'p': row("segmentation", "", "", UDFeature{}),
			'h': row("tag", "", "", UDFeature{}),
			'l': row("link", "", "", UDFeature{}),
			'e': row("e-mail address", "", "", UDFeature{}),
		},
	},
	'T': {
		1: {'T': row("punctuation", "", "", pos("PUNCT"))},
		2: {
			'p': row("full stop", "", "", UDFeature{}),
			'c': row("comma", "", "", UDFeature{}),
			's': row("semicolon", "", "", UDFeature{}),
			'n': row("colon", "", "", UDFeature{}),
			'q': row("question mark", "", "", UDFeature{}),
			'e': row("exclamation mark", "", "", UDFeature{}),
			'i': row("ellipsis", "", "", UDFeature{}),
			'h': row("dash", "", "", UDFeature{}),
			'l': row("opening bracket", "", "", UDFeature{}),
			'r': row("closing bracket", "", "", UDFeature{}),
			'u': row("quotation mark", "", "", UDFeature{}),
			't': row("slash", "", "", UDFeature{}),
			'x': row("other symbol", "", "", UDFeature{}),
		},
	},
}

type semantika struct{}

// Semantika converts positional codes such as "Ncmsnn-" or "Vgmp3s--n--ni-".
var Semantika Crosswalk = semantika{}

func init() {
	register(Semantika)
}

func (semantika) Name() string { return SemantikaName }

func (semantika) Convert(code string) Features {
	var f Features
	walkPositional(code, func(e Entry) { f.Add(e) })
	return f
}

// IsPunctuation reports whether a positional code describes punctuation.
func IsPunctuation(code string) bool {
	return len(code) > 0 && code[0] == 'T'
}

// walkPositional visits the row selected by every position of code.
// Residual X-codes carry nothing. Unknown classes, positions and values are
// logged; '-' at a position without a dash row is silently skipped.
func walkPositional(code string, visit func(Entry)) {
	if code == "" || code[0] == 'X' {
		return
	}
	table, ok := semantikaTable[code[0]]
	if !ok {
		logging.UnknownCode(SemantikaName, code, "reason", "class")
		return
	}
	for i := 0; i < len(code); i++ {
		position := i + 1
		rows, ok := table[position]
		if !ok {
			logging.UnknownCode(SemantikaName, code, "reason", "position", "position", position)
			continue
		}
		e, ok := rows[code[i]]
		if !ok {
			if code[i] != '-' {
				logging.UnknownCode(SemantikaName, code, "reason", "value", "position", position, "value", string(code[i]))
			}
			continue
		}
		visit(e)
	}
}
