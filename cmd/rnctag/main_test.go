package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/core/tagging/fixture"
	"github.com/FocuswithJustin/rnctag/internal/fileutil"
)

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<html><head></head><body>
<para id="0"><se lang="lt">Jis eina.</se></para>
<para id="1"><se lang="lt">Ji bėga.</se></para>
<para id="2"><se lang="ru">Он идёт.</se></para>
</body></html>`

func sentenceTokens(pronoun, lemma, verb, verbLemma string) []tagging.Token {
	return []tagging.Token{
		tagging.NewWord(pronoun, lemma, "įv., vns., V."),
		tagging.Space(),
		tagging.NewWord(verb, verbLemma, "vksm., es. l., 3 asm."),
		tagging.Sep("."),
	}
}

var (
	jis = sentenceTokens("Jis", "jis", "eina", "eiti")
	ji  = sentenceTokens("Ji", "ji", "bėga", "bėgti")
)

// createTestFile writes content under dir and returns its path.
func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func createFixture(t *testing.T, dir string, batches ...fixture.Batch) string {
	t.Helper()
	data, err := json.Marshal(fixture.File{Crosswalk: "donelaitis", Batches: batches})
	if err != nil {
		t.Fatal(err)
	}
	return createTestFile(t, dir, "fixture.json", string(data))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := fileutil.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(data)
}

func TestTagCommand(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "in.xml", testDoc)
	fx := createFixture(t, dir, fixture.Batch{Text: "Jis eina.\nJi bėga.", Tokens: append(append(append([]tagging.Token{}, jis...), tagging.Space()), ji...)})
	outDir := filepath.Join(dir, "out")
	os.Mkdir(outDir, 0755)

	code, stdout, stderr := runCLI(t, "tag", in, outDir, "--backend", "fixture", "--fixture", fx)
	if code != 0 {
		t.Fatalf("exit code %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "completed") {
		t.Errorf("stdout = %q", stdout)
	}

	out := readOutput(t, filepath.Join(outDir, "in.xml"))
	for _, want := range []string{`lex="jis"`, `lex="bėgti"`, "PRO=sg,nom", `<se lang="ru">Он идёт.</se>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "batch_progress") {
		t.Errorf("no progress logged: %s", stderr)
	}
}

func TestTagCommandFaultWritesDocument(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "in.xml", testDoc)
	fx := createFixture(t, dir,
		fixture.Batch{Text: "Jis eina.", Tokens: jis},
	)
	out := filepath.Join(dir, "out.xml")

	code, stdout, _ := runCLI(t, "tag", in, out, "--backend", "fixture", "--fixture", fx, "--batch", "1")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "resume with --from 1") {
		t.Errorf("stdout = %q", stdout)
	}
	doc := readOutput(t, out)
	if !strings.Contains(doc, `lex="jis"`) || !strings.Contains(doc, `<se lang="lt">Ji bėga.</se>`) {
		t.Errorf("salvaged document:\n%s", doc)
	}

	// Resuming with a complete recording finishes the document.
	fx = createFixture(t, dir, fixture.Batch{Text: "Ji bėga.", Tokens: ji})
	code, _, stderr := runCLI(t, "tag", out, out, "--backend", "fixture", "--fixture", fx, "--batch", "1", "--from", "1")
	if code != 0 {
		t.Fatalf("resume exit code = %d: %s", code, stderr)
	}
	if doc := readOutput(t, out); !strings.Contains(doc, `lex="bėgti"`) || !strings.Contains(doc, `lex="jis"`) {
		t.Errorf("resumed document:\n%s", doc)
	}
}

func TestTagCompressedAndRecord(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.xml.xz")
	if err := fileutil.WriteFile(in, []byte(testDoc)); err != nil {
		t.Fatal(err)
	}
	fx := createFixture(t, dir,
		fixture.Batch{Text: "Jis eina.", Tokens: jis},
		fixture.Batch{Text: "Ji bėga.", Tokens: ji},
	)
	out := filepath.Join(dir, "out.xml.xz")
	rec := filepath.Join(dir, "recorded.json")

	code, _, stderr := runCLI(t, "tag", in, out, "--backend", "fixture", "--fixture", fx, "--batch", "1", "--record", rec)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(readOutput(t, out), `lex="eiti"`) {
		t.Error("compressed output was not tagged")
	}

	replay, err := fixture.Load(rec)
	if err != nil {
		t.Fatalf("loading recording: %v", err)
	}
	if _, err := replay.Tag(context.Background(), "Ji bėga."); err != nil {
		t.Errorf("recording lacks the second batch: %v", err)
	}
}

func TestTagCommandReportsRecordingFailure(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "broken.xml", "<html><body></html>")
	fx := createFixture(t, dir, fixture.Batch{Text: "Jis eina.", Tokens: jis})
	rec := filepath.Join(dir, "missing", "rec.json")

	code, _, stderr := runCLI(t, "tag", in, dir, "--backend", "fixture", "--fixture", fx, "--record", rec)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	for _, want := range []string{"reading " + in, "failed to write " + rec} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q: %s", want, stderr)
		}
	}
}

func TestSimpleCommand(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "lines.txt", "Jis eina.\n\nJi bėga.\nNežinoma eilutė.\n")
	fx := createFixture(t, dir,
		fixture.Batch{Text: "Jis eina.", Tokens: jis},
		fixture.Batch{Text: "Ji bėga.", Tokens: ji},
	)
	out := filepath.Join(dir, "simple.xml")

	code, stdout, stderr := runCLI(t, "simple", in, out, "--backend", "fixture", "--fixture", fx)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "2 of 3 lines tagged") {
		t.Errorf("stdout = %q", stdout)
	}
	doc := readOutput(t, out)
	for _, want := range []string{`<para id="0">`, `lex="bėgti"`, `<se lang="lt">Nežinoma eilutė.</se>`} {
		if !strings.Contains(doc, want) {
			t.Errorf("output lacks %s:\n%s", want, doc)
		}
	}
}

func TestGrepCommand(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "tagged.xml", `<html><body><para id="0"><se lang="lt"><w><ana lex="qq" gr="="/>qq</w> <w><ana lex="jis" gr="PRO="/>jis</w></se></para></body></html>`)

	code, stdout, stderr := runCLI(t, "grep", in)
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	// Without flags both sections are written; only the sentence section
	// carries the parsed neighbour.
	words, ok := section(stdout, "unparsed-words")
	if !ok || !strings.Contains(words, `lex="qq"`) || strings.Contains(words, `lex="jis"`) {
		t.Errorf("unparsed-words section:\n%s", stdout)
	}
	sentences, ok := section(stdout, "with-unparsed-words")
	if !ok || !strings.Contains(sentences, `lex="jis"`) {
		t.Errorf("with-unparsed-words section:\n%s", stdout)
	}

	out := filepath.Join(dir, "report.xml")
	code, stdout, _ = runCLI(t, "grep", in, out, "--with-unparsed-words")
	if code != 0 || !strings.Contains(stdout, "1 words in 1 sentences") {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
	if report := readOutput(t, out); strings.Contains(report, "<unparsed-words") {
		t.Errorf("unrequested section present:\n%s", report)
	}
}

// section returns the content of the first <name> element in report.
func section(report, name string) (string, bool) {
	_, rest, ok := strings.Cut(report, "<"+name+">")
	if !ok {
		return "", false
	}
	body, _, ok := strings.Cut(rest, "</"+name+">")
	return body, ok
}

func TestExplainCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "explain", "dkt., vyr. g., vns., K.")
	if code != 0 || stdout != "dkt., vyr. g., vns., K.\tS=m,sg,gen\n" {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}

	code, _, stderr := runCLI(t, "explain", "--crosswalk", "nope", "x")
	if code != 1 || !strings.Contains(stderr, "known: donelaitis, semantika") {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 || !strings.Contains(stdout, "rnctag "+version) || !strings.Contains(stdout, "sqlite driver") {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := createTestFile(t, dir, "in.xml", testDoc)
	badConfig := createTestFile(t, dir, "bad.yaml", "batch_size: 0\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown command", []string{"frobnicate"}, 2},
		{"missing input", []string{"tag", filepath.Join(dir, "none.xml"), dir}, 2},
		{"unknown backend", []string{"tag", in, dir, "--backend", "google"}, 1},
		{"fixture without file", []string{"tag", in, filepath.Join(dir, "o.xml"), "--backend", "fixture"}, 1},
		{"invalid config", []string{"--config", badConfig, "version"}, 0},
		{"invalid config used", []string{"--config", badConfig, "explain", "V."}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}
