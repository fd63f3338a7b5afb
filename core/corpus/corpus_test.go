package corpus

import (
	"reflect"
	"strings"
	"testing"

	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/xml"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<html><head></head><body>
<para id="1"><se lang="lt"> Jis eina. </se><se lang="ru">Он идёт.</se></para>
<para id="2"><se lang="lt"><w><ana lex="ji" gr="PRO=f"/>Ji</w> bėga.</se></para>
<para id="3"><note><se lang="lt">nested</se></note></para>
</body></html>`

func mustParse(t *testing.T, data string) *xml.Document {
	t.Helper()
	d, err := xml.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{"default skips russian", DefaultWalkOptions(), []string{"Jis eina.", "Ji bėga."}},
		{"no foreign languages", WalkOptions{}, []string{"Jis eina.", "Он идёт.", "Ji bėga."}},
		{"skip lithuanian", WalkOptions{Foreign: []string{"lt"}}, []string{"Он идёт."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentences, err := Sentences(mustParse(t, doc), tt.opts)
			if err != nil {
				t.Fatalf("Sentences: %v", err)
			}
			var got []string
			for _, s := range sentences {
				got = append(got, s.Text())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentencesIsReadOnly(t *testing.T) {
	d := mustParse(t, doc)
	before := string(d.Serialize())
	if _, err := Sentences(d, DefaultWalkOptions()); err != nil {
		t.Fatal(err)
	}
	if after := string(d.Serialize()); after != before {
		t.Error("walking modified the document")
	}
}

func TestSentencesEmptyDocument(t *testing.T) {
	if _, err := Sentences(&xml.Document{}, DefaultWalkOptions()); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestTaggedAndChildren(t *testing.T) {
	sentences, err := Sentences(mustParse(t, doc), DefaultWalkOptions())
	if err != nil {
		t.Fatal(err)
	}
	if sentences[0].Tagged() {
		t.Error("plain sentence reported as tagged")
	}
	if !sentences[1].Tagged() {
		t.Error("sentence with <w> reported as untagged")
	}

	want := []Child{
		WordChild("Ji", []Analysis{{Lemma: "ji", Gr: "PRO=f"}}),
		TextChild(" bėga."),
	}
	if got := sentences[1].Children(); !reflect.DeepEqual(got, want) {
		t.Errorf("Children() = %+v, want %+v", got, want)
	}
	if sentences[1].Lang() != "lt" {
		t.Errorf("Lang() = %q", sentences[1].Lang())
	}
}

func TestReplace(t *testing.T) {
	d := mustParse(t, doc)
	sentences, err := Sentences(d, DefaultWalkOptions())
	if err != nil {
		t.Fatal(err)
	}

	children := []Child{
		WordChild("Jis", []Analysis{{Lemma: "jis", Gr: "PRO=m,sg,nom"}}),
		TextChild(" "),
		WordChild("eina", []Analysis{{Lemma: "eiti", Gr: "V="}, {Lemma: "einas", Gr: "S="}}),
		TextChild("."),
	}
	sentences[0].Replace(children)

	if got := sentences[0].Children(); !reflect.DeepEqual(got, children) {
		t.Errorf("Children() after Replace = %+v", got)
	}
	if got := Surface(children); got != "Jis eina." {
		t.Errorf("Surface = %q", got)
	}

	out := string(d.Serialize())
	if !strings.Contains(out, `lex="eiti"`) || !strings.Contains(out, `lex="einas"`) {
		t.Errorf("analyses missing from output: %s", out)
	}
}

func TestNewDocument(t *testing.T) {
	d := NewDocument([]string{"  Labas rytas. ", "", "Kaip sekasi?"})

	sentences, err := Sentences(d, DefaultWalkOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(sentences))
	}
	if sentences[0].Text() != "Labas rytas." || sentences[1].Lang() != "lt" {
		t.Errorf("unexpected sentences: %q %q", sentences[0].Text(), sentences[1].Lang())
	}

	paras, _ := d.XPath("//para")
	if len(paras) != 2 || paras[0].Attr(AttrID) != "0" || paras[1].Attr(AttrID) != "1" {
		t.Errorf("paragraph ids not sequential")
	}
	if head, _ := d.XPath("/html/head"); len(head) != 1 {
		t.Error("missing head element")
	}
}
