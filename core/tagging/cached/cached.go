// Package cached memoizes tagging responses. Batches are keyed by a BLAKE3
// digest of the backend name and the exact batch text; hits are served from
// an in-memory LRU first and from the SQLite responses table second.
//
// The cache never fails a run: storage errors are logged and the call falls
// through to the wrapped tagger.
package cached

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/zeebo/blake3"

	lru "github.com/FocuswithJustin/rnctag/core/cache"
	"github.com/FocuswithJustin/rnctag/core/tagging"
	"github.com/FocuswithJustin/rnctag/internal/logging"
)

// Tagger wraps another tagger with a response cache.
type Tagger struct {
	tagging.Tagger

	mem lru.Cache[string, []tagging.Token]
	db  *sql.DB
}

// New wraps next. db may be nil for a memory-only cache; it must have been
// opened with sqlite.OpenCache. size bounds the number of batches kept in
// memory, zero meaning the LRU default.
func New(next tagging.Tagger, db *sql.DB, size int) *Tagger {
	cfg := lru.DefaultConfig()
	if size > 0 {
		cfg.MaxSize = size
	}
	return &Tagger{Tagger: next, mem: lru.NewLRUCache[string, []tagging.Token](cfg), db: db}
}

// Key returns the cache key of a batch sent to backend.
func Key(backend, text string) string {
	h := blake3.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Tag implements tagging.Tagger.
func (t *Tagger) Tag(ctx context.Context, text string) ([]tagging.Token, error) {
	key := Key(t.Name(), text)
	if tokens, ok := t.mem.Get(key); ok {
		return clone(tokens), nil
	}
	if tokens, ok := t.load(ctx, key); ok {
		t.mem.Put(key, tokens)
		return clone(tokens), nil
	}

	tokens, err := t.Tagger.Tag(ctx, text)
	if err != nil {
		return nil, err
	}
	t.mem.Put(key, clone(tokens))
	t.store(ctx, key, tokens)
	return tokens, nil
}

// Stats reports the in-memory hit counters.
func (t *Tagger) Stats() lru.Stats { return t.mem.Stats() }

func (t *Tagger) load(ctx context.Context, key string) ([]tagging.Token, bool) {
	if t.db == nil {
		return nil, false
	}
	var blob []byte
	err := t.db.QueryRowContext(ctx, `SELECT tokens FROM responses WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		logging.Warn("response cache read failed", "key", key, "error", err)
		return nil, false
	}
	var tokens []tagging.Token
	if err := json.Unmarshal(blob, &tokens); err != nil {
		logging.Warn("response cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	return tokens, true
}

func (t *Tagger) store(ctx context.Context, key string, tokens []tagging.Token) {
	if t.db == nil {
		return
	}
	blob, err := json.Marshal(tokens)
	if err != nil {
		logging.Warn("response cache encode failed", "key", key, "error", err)
		return
	}
	_, err = t.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, backend, tokens, created_at) VALUES (?, ?, ?, ?)`,
		key, t.Name(), blob, time.Now().Unix())
	if err != nil {
		logging.Warn("response cache write failed", "key", key, "error", err)
	}
}

func clone(tokens []tagging.Token) []tagging.Token {
	return append([]tagging.Token(nil), tokens...)
}
