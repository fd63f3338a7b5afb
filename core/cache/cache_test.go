package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRUCache_GetPut(t *testing.T) {
	c := NewLRUCache[string, []string](Config{MaxSize: 3})

	c.Put("batch-1", []string{"Jis", "eina"})
	c.Put("batch-2", []string{"Ji", "bėga"})

	got, ok := c.Get("batch-1")
	if !ok || len(got) != 2 || got[0] != "Jis" {
		t.Errorf("Get(batch-1) = %v, %v", got, ok)
	}
	if _, ok := c.Get("batch-3"); ok {
		t.Error("Get(batch-3) should miss")
	}
	if n := c.Len(); n != 2 {
		t.Errorf("Len() = %d; want 2", n)
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string, int](Config{MaxSize: 2})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should survive", k)
		}
	}
}

func TestLRUCache_Update(t *testing.T) {
	c := NewLRUCache[string, int](DefaultConfig())

	c.Put("k", 1)
	c.Put("k", 2)
	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("Get(k) = %d; want 2", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d; want 1", c.Len())
	}
	if s := c.Stats(); s.Evictions != 0 || s.MaxSize != 256 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache[string, int](Config{MaxSize: 2})
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("zz")
	c.Put("c", 3)

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Evictions != 1 {
		t.Errorf("Stats = %+v; want 1 hit, 1 miss, 1 eviction", s)
	}
	if s.Size != 2 || s.MaxSize != 2 {
		t.Errorf("Size/MaxSize = %d/%d; want 2/2", s.Size, s.MaxSize)
	}
}

func TestLRUCache_NegativeMaxSizeIsUnlimited(t *testing.T) {
	c := NewLRUCache[int, int](Config{MaxSize: -1})
	for i := 0; i < 500; i++ {
		c.Put(i, i)
	}
	if c.Len() != 500 {
		t.Errorf("Len() = %d; want 500", c.Len())
	}
}

func TestLRUCache_Concurrency(t *testing.T) {
	c := NewLRUCache[string, int](Config{MaxSize: 50})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("%d-%d", g, i)
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if n := c.Len(); n > 50 {
		t.Errorf("Len() = %d; want <= 50", n)
	}
}
