package crosswalk

import (
	"strings"

	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// DonelaitisName is the registry name of the Donelaitis crosswalk.
const DonelaitisName = "donelaitis"

// donelaitisTable maps the Lithuanian grammar abbreviations of the
// Donelaitis lemmatizer to RNC features.
var donelaitisTable = map[string]Entry{
	// parts of speech
	"dkt.":       rnc("S", ""),
	"bdv.":       rnc("A", ""),
	"sktv.":      rnc("ADJ", ""),
	"įv.":        rnc("PRO", ""),
	"vksm.":      rnc("V", ""),
	"prv.":       rnc("ADV", ""),
	"jst.":       rnc("INTJ", ""),
	"išt.":       rnc("INTJ2", ""),
	"dll.":       rnc("partcp", ""),
	"prl.":       rnc("PR", ""),
	"jng.":       rnc("CONJ", ""),
	"akronim.":   rnc("abbr", ""),
	"sutr.":      rnc("abbr", ""),
	"tikr.":      rnc("S,propn", ""),
	"tikr. dkt.": rnc("S,propn", ""),

	// verb forms
	"bendr.":      rnc("V", "inf"),
	"dlv.":        rnc("V", "partcp"),
	"pad.":        rnc("V", "partcp,ger,ssubj"),
	"pusd.":       rnc("V", "partcp,ger,dsubj"),
	"būdn.":       rnc("V", "partcp,ger,manner"),
	"tiesiog. n.": rnc("V", "indic"),
	"liep. n.":    rnc("V", "imper"),
	"tar. n.":     rnc("V", "cond"),

	// numerals
	"kiek.":   rnc("NUM,card", ""),
	"kelint.": rnc("ANUM,ord", ""),
	"daugin.": rnc("NUM,mult", ""),
	"kuopin.": rnc("NUM,collect", ""),

	"įvardž.":   rnc("", "def"),
	"neįvardž.": rnc("", "indef"),

	"sngr.":   rnc("refl", ""),
	"nesngr.": rnc("nrefl", ""),

	// voice and tense
	"veik. r.":   rnc("", "act"),
	"neveik. r.": rnc("", "pass"),
	"reik.":      rnc("", "debit"),
	"es. l.":     rnc("", "praes"),
	"būt. l.":    rnc("", "praet"),
	"būt. k. l.": rnc("", "praet"),
	"būt. d. l.": rnc("", "praet,hab"),
	"būs. l.":    rnc("", "fut"),

	// degree, gender, number
	"nelygin. l.": rnc("", "pos"),
	"aukšt. l.":   rnc("", "comp"),
	"aukšč. l.":   rnc("", "super"),
	"mot. g.":     rnc("", "f"),
	"vyr. g.":     rnc("", "m"),
	"bev. g.":     rnc("", "n"),
	"bendr. g.":   rnc("", "mf"),
	"vns.":        rnc("", "sg"),
	"dgs.":        rnc("", "pl"),
	"dvisk.":      rnc("", "du"),

	// cases
	"V.":  rnc("", "nom"),
	"K.":  rnc("", "gen"),
	"N.":  rnc("", "dat"),
	"G.":  rnc("", "acc"),
	"Įn.": rnc("", "ins"),
	"Vt.": rnc("", "loc"),
	"Š.":  rnc("", "voc"),
	"Il.": rnc("", "ill"),

	// person
	"1 asm.": rnc("", "1p"),
	"2 asm.": rnc("", "2p"),
	"3 asm.": rnc("", "3p"),

	"neig.":    rnc("", "neg"),
	"rom. sk.": rnc("ciph", ""),
	"idprl.":   rnc("PR,fixed", ""),
	"idjngt.":  rnc("CONJ,fixed", ""),
	"idPS":     rnc("PS,fixed", ""),

	"teig.":     irrelevant("affirmative"),
	"nežinomas": irrelevant("unknown word"),
}

type donelaitis struct{}

// Donelaitis converts comma-separated Donelaitis abbreviations such as
// "dkt., vyr. g., vns., V.".
var Donelaitis Crosswalk = donelaitis{}

func init() {
	register(Donelaitis)
}

func (donelaitis) Name() string { return DonelaitisName }

func (donelaitis) Convert(code string) Features {
	var f Features
	for _, part := range strings.Split(code, ",") {
		atom := strings.TrimSpace(part)
		if atom == "" {
			continue
		}
		e, ok := donelaitisTable[atom]
		if !ok {
			e, ok = donelaitisTable[atom+"."]
		}
		if !ok {
			logging.UnknownCode(DonelaitisName, atom, "in", code)
			continue
		}
		f.Add(e)
	}
	return f
}
