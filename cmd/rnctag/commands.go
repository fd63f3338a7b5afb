package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/rnctag/core/align"
	"github.com/FocuswithJustin/rnctag/core/batch"
	"github.com/FocuswithJustin/rnctag/core/corpus"
	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/sqlite"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/core/tagging/cached"
	"github.com/FocuswithJustin/rnctag/core/tagging/donelaitis"
	"github.com/FocuswithJustin/rnctag/core/tagging/fixture"
	"github.com/FocuswithJustin/rnctag/core/tagging/semantika"
	"github.com/FocuswithJustin/rnctag/core/xml"
	"github.com/FocuswithJustin/rnctag/internal/config"
	"github.com/FocuswithJustin/rnctag/internal/fileutil"
	"github.com/FocuswithJustin/rnctag/internal/logging"
	"github.com/FocuswithJustin/rnctag/internal/report"
)

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"existingfile"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (json, text)"`
}

// load reads the configuration, applies the logging flags and initializes
// the logger on the command's stderr.
func (g *Globals) load(kctx *kong.Context) (*config.Config, error) {
	cfg := config.Default()
	if g.Config != "" {
		var err error
		if cfg, err = config.Load(g.Config); err != nil {
			return nil, err
		}
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.InitLoggerWriter(kctx.Stderr, logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))
	return cfg, nil
}

// BackendFlags select and configure the tagging service.
type BackendFlags struct {
	Backend string `help:"Tagging backend (donelaitis, semantika, fixture)"`
	Batch   int    `help:"Sentences per tagging call"`
	Fixture string `help:"Recorded responses for the fixture backend" type:"existingfile"`
	Record  string `help:"Save backend responses to this file for later replay"`
	Cache   string `help:"SQLite response cache database"`
	NoCache bool   `name:"no-cache" help:"Disable the response cache"`
	Single  bool   `help:"Ask donelaitis for a single analysis per word"`
}

// pipeline is the tagging stack built from flags and configuration.
type pipeline struct {
	ctrl       *batch.Controller
	recorder   *fixture.Recorder
	recordPath string
	db         *sql.DB
	foreign    []string
}

// close saves the recording, if any, and releases the cache database.
func (p *pipeline) close() error {
	var err error
	if p.recorder != nil {
		err = p.recorder.Save(p.recordPath)
	}
	if p.db != nil {
		p.db.Close()
	}
	return err
}

func (f *BackendFlags) build(cfg *config.Config) (*pipeline, error) {
	if f.Backend != "" {
		cfg.Backend = f.Backend
	}
	if f.Batch != 0 {
		cfg.BatchSize = f.Batch
	}
	if f.Cache != "" {
		cfg.Cache.Path = f.Cache
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var t tagging.Tagger
	switch cfg.Backend {
	case donelaitis.Name:
		c := donelaitis.New(cfg.Donelaitis.URL, cfg.Donelaitis.Timeout)
		c.Single = f.Single
		t = c
	case semantika.Name:
		t = semantika.New(cfg.Semantika.URL, cfg.Semantika.Timeout)
	case fixture.Name:
		if f.Fixture == "" {
			return nil, fmt.Errorf("the fixture backend needs --fixture")
		}
		ft, err := fixture.Load(f.Fixture)
		if err != nil {
			return nil, err
		}
		t = ft
	}

	s := &pipeline{foreign: cfg.ForeignLangs}
	if !f.NoCache && cfg.Backend != fixture.Name {
		if cfg.Cache.Path != "" {
			db, err := sqlite.OpenCache(cfg.Cache.Path)
			if err != nil {
				return nil, err
			}
			s.db = db
		}
		t = cached.New(t, s.db, cfg.Cache.MemoryEntries)
	}
	if f.Record != "" {
		s.recorder, s.recordPath = fixture.NewRecorder(t), f.Record
		t = s.recorder
	}

	s.ctrl = &batch.Controller{
		Tagger:    t,
		Engine:    &align.Engine{Crosswalk: t.Crosswalk(), Subst: cfg.SubstTable()},
		BatchSize: cfg.BatchSize,
	}
	return s, nil
}

// TagCmd tags an existing RNC document.
type TagCmd struct {
	In   string `arg:"" help:"Input RNC document (.xz allowed)" type:"existingfile"`
	Out  string `arg:"" help:"Output file or directory"`
	From int    `help:"Index of the first sentence to tag" default:"0"`

	BackendFlags
}

// Run executes the tag command.
func (c *TagCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	cfg, err := g.load(kctx)
	if err != nil {
		return err
	}
	s, err := c.build(cfg)
	if err != nil {
		return err
	}

	doc, err := readDocument(c.In)
	if err != nil {
		return errors.Join(err, s.close())
	}
	sentences, err := corpus.Sentences(doc, corpus.WalkOptions{Foreign: s.foreign})
	if err != nil {
		return errors.Join(err, s.close())
	}

	out := s.ctrl.Run(ctx, sentences, batch.Options{From: c.From})
	if err := s.close(); err != nil {
		return err
	}
	path, err := writeDocument(c.In, c.Out, doc)
	if err != nil {
		return err
	}
	return summarize(kctx, path, out, len(sentences))
}

// SimpleCmd builds a document from a text file and tags it line by line.
type SimpleCmd struct {
	In  string `arg:"" help:"Plain text file, one sentence per line" type:"existingfile"`
	Out string `arg:"" help:"Output file or directory"`

	BackendFlags
}

// Run executes the simple command.
func (c *SimpleCmd) Run(ctx context.Context, kctx *kong.Context, g *Globals) error {
	cfg, err := g.load(kctx)
	if err != nil {
		return err
	}
	lines, err := fileutil.ReadLines(c.In)
	if err != nil {
		return err
	}
	s, err := c.build(cfg)
	if err != nil {
		return err
	}
	doc, out := s.ctrl.Simple(ctx, lines)
	if err := s.close(); err != nil {
		return err
	}

	path, err := writeDocument(c.In, c.Out, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(kctx.Stdout, "wrote %s: %d of %d lines tagged\n", path, out.Batches, out.LastOffset)
	if out.State == batch.StateCancelled {
		return fmt.Errorf("cancelled at line %d", out.LastOffset)
	}
	if out.Faulted {
		fmt.Fprintf(kctx.Stdout, "some lines kept their plain text; last fault: %v\n", out.Err)
	}
	return nil
}

// summarize reports the outcome of a run and turns an interrupted run into
// an error carrying the resume offset.
func summarize(kctx *kong.Context, path string, out batch.Outcome, total int) error {
	fmt.Fprintf(kctx.Stdout, "wrote %s: %d batches, %d/%d sentences, %s\n",
		path, out.Batches, out.LastOffset, total, out.State)
	switch out.State {
	case batch.StateSalvaged:
		fmt.Fprintf(kctx.Stdout, "resume with --from %d\n", out.LastOffset)
		return fmt.Errorf("stopped at sentence %d: %w", out.LastOffset, out.Err)
	case batch.StateCancelled:
		fmt.Fprintf(kctx.Stdout, "resume with --from %d\n", out.LastOffset)
		return fmt.Errorf("cancelled at sentence %d", out.LastOffset)
	}
	return nil
}

// GrepCmd writes a report of unparsed words.
type GrepCmd struct {
	In                string `arg:"" help:"Tagged RNC document" type:"existingfile"`
	Out               string `arg:"" optional:"" help:"Report file or directory (default stdout)"`
	UnparsedWords     bool   `name:"unparsed-words" help:"List words with an empty analysis"`
	WithUnparsedWords bool   `name:"with-unparsed-words" help:"List sentences containing such words"`
}

// Run executes the grep command.
func (c *GrepCmd) Run(kctx *kong.Context, g *Globals) error {
	cfg, err := g.load(kctx)
	if err != nil {
		return err
	}
	doc, err := readDocument(c.In)
	if err != nil {
		return err
	}
	opts := report.GrepOptions{
		UnparsedWords:     c.UnparsedWords,
		WithUnparsedWords: c.WithUnparsedWords,
		Walk:              corpus.WalkOptions{Foreign: cfg.ForeignLangs},
	}
	if !opts.UnparsedWords && !opts.WithUnparsedWords {
		opts.UnparsedWords, opts.WithUnparsedWords = true, true
	}
	out, sum, err := report.Grep(doc, opts)
	if err != nil {
		return err
	}
	if c.Out == "" {
		_, err := kctx.Stdout.Write(out.Serialize())
		return err
	}
	path, err := writeDocument(c.In, c.Out, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(kctx.Stdout, "wrote %s: %d words in %d sentences\n", path, sum.Words, sum.Sentences)
	return nil
}

// ExplainCmd prints the RNC features of grammar codes.
type ExplainCmd struct {
	Crosswalk string   `help:"Crosswalk table" default:"donelaitis"`
	Codes     []string `arg:"" help:"Grammar codes as the backend emits them"`
}

// Run executes the explain command.
func (c *ExplainCmd) Run(kctx *kong.Context, g *Globals) error {
	if _, err := g.load(kctx); err != nil {
		return err
	}
	cw, err := crosswalk.ByName(c.Crosswalk)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, strings.Join(crosswalk.Names(), ", "))
	}
	for _, code := range c.Codes {
		line := code + "\t" + cw.Convert(code).Gr()
		if cw.Name() == crosswalk.SemantikaName {
			line += "\t" + crosswalk.UDString(code)
		}
		fmt.Fprintln(kctx.Stdout, line)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run(kctx *kong.Context) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(kctx.Stdout, "rnctag %s\n", version)
	fmt.Fprintf(kctx.Stdout, "sqlite driver: %s (%s)\n", info.Package, info.DriverType)
	fmt.Fprintf(kctx.Stdout, "crosswalks: %s\n", strings.Join(crosswalk.Names(), ", "))
	return nil
}

func readDocument(path string) (*xml.Document, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return doc, nil
}

func writeDocument(in, out string, doc *xml.Document) (string, error) {
	path, err := fileutil.ResolveOutput(in, out)
	if err != nil {
		return "", err
	}
	return path, fileutil.WriteFile(path, doc.Serialize())
}
