package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/soundcheck-labs/constellation/internal/model"
)

func sampleFor(id string) *model.ReferenceSample {
	return &model.ReferenceSample{ID: id}
}

func TestLRUPutGetRoundTrip(t *testing.T) {
	l := NewLRU(4)
	l.Put("a", sampleFor("a"))

	got, ok := l.Get("a")
	if !ok {
		t.Fatal("expected a hit for key \"a\"")
	}
	if got.ID != "a" {
		t.Errorf("expected ID \"a\", got %q", got.ID)
	}
}

func TestLRUMissOnUnknownKey(t *testing.T) {
	l := NewLRU(4)
	if _, ok := l.Get("missing"); ok {
		t.Error("expected a miss for an unknown key")
	}
}

func TestLRUDefaultCapacityOnNonPositive(t *testing.T) {
	l := NewLRU(0)
	for i := 0; i < DefaultCapacity+2; i++ {
		l.Put(fmt.Sprintf("id-%d", i), sampleFor(fmt.Sprintf("id-%d", i)))
	}
	if l.Len() != DefaultCapacity {
		t.Errorf("expected capacity to fall back to %d, store holds %d entries", DefaultCapacity, l.Len())
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU(3)
	l.Put("a", sampleFor("a"))
	l.Put("b", sampleFor("b"))
	l.Put("c", sampleFor("c"))

	// Touch "a" so "b" becomes the least recently used.
	l.Get("a")

	l.Put("d", sampleFor("d")) // should evict "b"

	if _, ok := l.Get("b"); ok {
		t.Error("expected \"b\" to have been evicted as least recently used")
	}
	if _, ok := l.Get("a"); !ok {
		t.Error("expected \"a\" to survive eviction after being touched")
	}
	if _, ok := l.Get("c"); !ok {
		t.Error("expected \"c\" to survive eviction")
	}
	if _, ok := l.Get("d"); !ok {
		t.Error("expected \"d\" to have been inserted")
	}
	if l.Len() != 3 {
		t.Errorf("expected 3 entries after eviction, got %d", l.Len())
	}
}

func TestLRUPutExistingKeyOverwritesWithoutEviction(t *testing.T) {
	l := NewLRU(2)
	l.Put("a", sampleFor("a"))
	l.Put("b", sampleFor("b"))

	updated := &model.ReferenceSample{ID: "a", Timesteps: 99}
	l.Put("a", updated)

	got, ok := l.Get("a")
	if !ok {
		t.Fatal("expected \"a\" to still be present")
	}
	if got.Timesteps != 99 {
		t.Errorf("expected overwritten sample with Timesteps=99, got %d", got.Timesteps)
	}
	if l.Len() != 2 {
		t.Errorf("expected overwrite not to change entry count, got %d", l.Len())
	}
}

func TestLRUConcurrentAccess(t *testing.T) {
	l := NewLRU(16)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", i%16)
			l.Put(id, sampleFor(id))
			l.Get(id)
		}(i)
	}
	wg.Wait()

	if l.Len() > 16 {
		t.Errorf("expected store never to exceed capacity, got %d entries", l.Len())
	}
}
