package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

func TestGetPut(t *testing.T) {
	c := New(time.Minute, 10, nil)

	if _, ok := c.Get("missing:all"); ok {
		t.Fatal("Get() on empty cache reported a hit")
	}

	c.Put("tycho:Moon", domain.SearchResult{Query: "tycho", TotalResults: 1})

	got, ok := c.Get("tycho:Moon")
	if !ok {
		t.Fatal("Get() after Put reported a miss")
	}
	if got.Query != "tycho" || got.TotalResults != 1 {
		t.Errorf("Get() = %+v", got)
	}
	if !got.Cached {
		t.Error("served copy should carry Cached=true")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(time.Minute, 10, nil)
	current := time.Unix(1000, 0)
	c.now = func() time.Time { return current }

	c.Put("k:all", domain.SearchResult{Query: "k"})

	current = current.Add(59 * time.Second)
	if _, ok := c.Get("k:all"); !ok {
		t.Fatal("entry expired before TTL")
	}

	current = current.Add(2 * time.Second)
	if _, ok := c.Get("k:all"); ok {
		t.Fatal("entry visible after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed on read, Len() = %d", c.Len())
	}
}

func TestFIFOEviction(t *testing.T) {
	c := New(time.Hour, 3, nil)
	current := time.Unix(1000, 0)
	c.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("q%d:all", i), domain.SearchResult{Query: fmt.Sprintf("q%d", i)})
		current = current.Add(time.Second)
	}

	// Reading q0 must not protect it: eviction is by insertion order.
	if _, ok := c.Get("q0:all"); !ok {
		t.Fatal("q0 missing before eviction")
	}

	c.Put("q3:all", domain.SearchResult{Query: "q3"})

	if _, ok := c.Get("q0:all"); ok {
		t.Error("oldest entry q0 survived eviction")
	}
	for _, k := range []string{"q1:all", "q2:all", "q3:all"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %s evicted unexpectedly", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestPutSameKeyDoesNotEvict(t *testing.T) {
	c := New(time.Hour, 2, nil)

	c.Put("a:all", domain.SearchResult{Query: "a"})
	c.Put("b:all", domain.SearchResult{Query: "b"})
	c.Put("a:all", domain.SearchResult{Query: "a", TotalResults: 5})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	got, ok := c.Get("a:all")
	if !ok || got.TotalResults != 5 {
		t.Errorf("overwrite lost: %+v ok=%v", got, ok)
	}
	if _, ok := c.Get("b:all"); !ok {
		t.Error("b evicted by same-key overwrite")
	}
}

func TestStoredCopyIsNotMarkedCached(t *testing.T) {
	c := New(time.Hour, 2, nil)

	res := domain.SearchResult{Query: "q", Cached: true}
	c.Put("q:all", res)

	got, _ := c.Get("q:all")
	if !got.Cached {
		t.Error("served copy should carry Cached=true")
	}

	// The flag is set per serve, not persisted into the stored value.
	got2, _ := c.Get("q:all")
	if !got2.Cached {
		t.Error("second serve lost Cached flag")
	}
}
