package crosswalk

import "strings"

// UD converts a positional code into Universal Dependencies items: the part
// of speech first, then Key=Value features in position order. It is used for
// export and reporting only; the aligner never calls it.
func UD(code string) []UDFeature {
	var out []UDFeature
	walkPositional(code, func(e Entry) {
		if !e.UD.IsZero() {
			out = append(out, e.UD)
		}
	})
	return out
}

// UDString renders UD(code) as "POS|Key=Value|Key=Value".
func UDString(code string) string {
	feats := UD(code)
	parts := make([]string, len(feats))
	for i, f := range feats {
		parts[i] = f.String()
	}
	return strings.Join(parts, "|")
}
