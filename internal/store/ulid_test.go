package store

import (
	"strings"
	"testing"
	"time"
)

func TestNewULIDLength(t *testing.T) {
	id := NewULID()
	if len(id) != 26 {
		t.Errorf("expected a 26-character ULID, got %d characters: %q", len(id), id)
	}
}

func TestNewULIDUsesCrockfordAlphabetOnly(t *testing.T) {
	id := NewULID()
	for _, c := range id {
		if !strings.ContainsRune(crockford, c) {
			t.Errorf("character %q is not in the Crockford base-32 alphabet", c)
		}
	}
}

func TestNewULIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewULID()
		if seen[id] {
			t.Fatalf("duplicate ULID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewULIDLexicographicallyMonotonicAcrossTime(t *testing.T) {
	first := NewULID()
	time.Sleep(2 * time.Millisecond)
	second := NewULID()

	if second <= first {
		t.Errorf("expected later ULID %q to sort after earlier ULID %q", second, first)
	}
}

func TestEncodeCrockfordAllZero(t *testing.T) {
	var id [16]byte
	got := encodeCrockford(id)
	want := strings.Repeat("0", 26)
	if got != want {
		t.Errorf("expected all-zero input to encode as %q, got %q", want, got)
	}
}

func TestEncodeCrockfordAllOnes(t *testing.T) {
	var id [16]byte
	for i := range id {
		id[i] = 0xFF
	}
	got := encodeCrockford(id)
	if len(got) != 26 {
		t.Fatalf("expected 26 characters, got %d", len(got))
	}
	// The top 2 padding bits are always zero, so the first character can
	// only reach index 7 (binary 00111), i.e. crockford[7] = "7".
	if got[0] != crockford[7] {
		t.Errorf("expected first character %q for an all-ones input, got %q", string(crockford[7]), string(got[0]))
	}
}
