package randmap_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/dries007/ProjectAI-CarSharing/internal/randmap"
)

func TestSetGetDelete(t *testing.T) {
	m := randmap.New[string, int]()

	if m.Len() != 0 {
		t.Fatalf("expected empty map, got len %d", m.Len())
	}

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	if m.Len() != 3 {
		t.Fatalf("expected len 3, got %d", m.Len())
	}

	if v, ok := m.Get("b"); !ok || v != 2 {
		t.Fatalf("expected b=2, got %v, %v", v, ok)
	}

	m.Delete("b")
	if m.Has("b") {
		t.Fatalf("expected b to be deleted")
	}
	if m.Len() != 2 {
		t.Fatalf("expected len 2 after delete, got %d", m.Len())
	}

	// swap-last-element deletion must not disturb remaining entries
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1 to survive delete of b, got %v, %v", v, ok)
	}
	if v, ok := m.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3 to survive delete of b, got %v, %v", v, ok)
	}
}

func TestSetOverwritesExisting(t *testing.T) {
	m := randmap.New[string, int]()
	m.Set("a", 1)
	m.Set("a", 2)

	if m.Len() != 1 {
		t.Fatalf("expected a single entry after overwrite, got len %d", m.Len())
	}
	if v, _ := m.Get("a"); v != 2 {
		t.Fatalf("expected a=2, got %d", v)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	m := randmap.New[string, int]()
	m.Set("a", 1)
	m.Delete("missing")
	if m.Len() != 1 {
		t.Fatalf("expected len 1, got %d", m.Len())
	}
}

// TestRandomKeyStaysWithinKeySet is property P3: after an interleaving of
// inserts and deletes, RandomKey always returns a key from the current key
// set.
func TestRandomKeyStaysWithinKeySet(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := randmap.New[int, int]()

	for i := 0; i < 50; i++ {
		m.Set(i, i*i)
	}
	for i := 0; i < 20; i++ {
		m.Delete(i * 2)
	}

	want := make(map[int]bool)
	for _, k := range m.Keys() {
		want[k] = true
	}

	for i := 0; i < 1000; i++ {
		k := m.RandomKey(rng)
		if !want[k] {
			t.Fatalf("RandomKey returned %d, which is not in the current key set", k)
		}
	}
}

func TestRandomKeyPanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected RandomKey on empty map to panic")
		}
	}()
	m := randmap.New[int, int]()
	rng := rand.New(rand.NewSource(1))
	m.RandomKey(rng)
}

func TestCopyIsIndependent(t *testing.T) {
	m := randmap.New[string, int]()
	m.Set("a", 1)

	clone := m.Copy()
	clone.Set("b", 2)

	if m.Has("b") {
		t.Fatalf("mutating the copy must not affect the original")
	}
	if !clone.Has("a") || !clone.Has("b") {
		t.Fatalf("clone should carry over existing entries and accept new ones")
	}
}
