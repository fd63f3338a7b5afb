package cached

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FocuswithJustin/rnctag/core/crosswalk"
	"github.com/FocuswithJustin/rnctag/core/sqlite"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/core/tagging/fixture"
)

var recorded = []tagging.Token{
	tagging.NewWord("Jis", "jis", "Pg").At(0),
	{Kind: tagging.Whitespace, Text: " ", Offset: 3},
	tagging.NewWord("eina", "eiti", "Vgmp3s").At(4),
}

func backend() *fixture.Tagger {
	return fixture.New(crosswalk.Semantika, fixture.Batch{Text: "Jis eina", Tokens: recorded})
}

func TestKey(t *testing.T) {
	a := Key("semantika", "Jis eina")
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex digits", len(a))
	}
	if a != Key("semantika", "Jis eina") {
		t.Error("key is not deterministic")
	}
	if a == Key("donelaitis", "Jis eina") || a == Key("semantika", "Jis eina.") {
		t.Error("key ignores backend or text")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("backend and text boundaries collide")
	}
}

func TestMemoryCache(t *testing.T) {
	next := backend()
	tg := New(next, nil, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := tg.Tag(ctx, "Jis eina")
		if err != nil {
			t.Fatalf("Tag: %v", err)
		}
		if !reflect.DeepEqual(got, recorded) {
			t.Fatalf("Tag = %+v", got)
		}
		got[0].Text = "changed"
	}
	if next.Calls() != 1 {
		t.Errorf("backend calls = %d, want 1", next.Calls())
	}
	if s := tg.Stats(); s.Hits != 2 {
		t.Errorf("hits = %d, want 2", s.Hits)
	}
	if tg.Name() != fixture.Name || tg.Crosswalk() != crosswalk.Semantika {
		t.Error("wrapper does not forward identity")
	}
}

func TestFailuresAreNotCached(t *testing.T) {
	next := backend()
	tg := New(next, nil, 0)
	for i := 0; i < 2; i++ {
		if _, err := tg.Tag(context.Background(), "unknown"); err == nil {
			t.Fatal("expected the backend error")
		}
	}
	if next.Calls() != 2 {
		t.Errorf("backend calls = %d, want 2", next.Calls())
	}
}

func TestPersistentCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")
	db, err := sqlite.OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer db.Close()

	first := backend()
	if _, err := New(first, db, 0).Tag(context.Background(), "Jis eina"); err != nil {
		t.Fatalf("Tag: %v", err)
	}

	// A fresh wrapper has an empty LRU and must be served by the table.
	second := backend()
	got, err := New(second, db, 0).Tag(context.Background(), "Jis eina")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if !reflect.DeepEqual(got, recorded) {
		t.Errorf("cached tokens = %+v", got)
	}
	if second.Calls() != 0 {
		t.Errorf("backend calls = %d, want 0", second.Calls())
	}

	var backendName string
	if err := db.QueryRow(`SELECT backend FROM responses`).Scan(&backendName); err != nil || backendName != fixture.Name {
		t.Errorf("stored backend = %q, %v", backendName, err)
	}
}

func TestUnreadableEntryFallsThrough(t *testing.T) {
	db, err := sqlite.OpenCache(filepath.Join(t.TempDir(), "responses.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer db.Close()
	key := Key(fixture.Name, "Jis eina")
	if _, err := db.Exec(`INSERT INTO responses VALUES (?, ?, ?, 0)`, key, fixture.Name, []byte("{")); err != nil {
		t.Fatal(err)
	}

	next := backend()
	got, err := New(next, db, 0).Tag(context.Background(), "Jis eina")
	if err != nil || !reflect.DeepEqual(got, recorded) {
		t.Fatalf("Tag = %+v, %v", got, err)
	}
	if next.Calls() != 1 {
		t.Errorf("backend calls = %d, want 1", next.Calls())
	}
}
