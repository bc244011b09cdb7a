package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewTab(t *testing.T) {
	gen := NewGenerator()

	tab := gen.NewTab()
	if !strings.HasPrefix(string(tab), "tab_") {
		t.Errorf("TabID should start with 'tab_', got: %s", tab)
	}

	parts := strings.Split(string(tab), "_")
	if len(parts) != 2 || len(parts[1]) != 26 {
		t.Errorf("TabID should have format 'tab_<26 char ulid>', got: %s", tab)
	}
}

func TestIsValidTabID(t *testing.T) {
	if !IsValidTabID(string(NewTabID())) {
		t.Error("Generated tab ID should be valid")
	}

	invalid := []string{
		"",
		"tab",
		"tab_",
		"app_01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"tab_zzzzzzzzzzzzzzzzzzzzzzzzzz",
	}
	for _, tab := range invalid {
		if IsValidTabID(tab) {
			t.Errorf("ID should be invalid: %q", tab)
		}
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	tab := NewTabID()
	after := time.Now()

	ts, err := Timestamp(tab)
	if err != nil {
		t.Fatalf("Failed to extract timestamp: %v", err)
	}

	if ts.UnixMilli() < before.UnixMilli() || ts.UnixMilli() > after.UnixMilli() {
		t.Errorf("Timestamp %v should be between %v and %v", ts, before, after)
	}

	if _, err := Timestamp("garbage"); err == nil {
		t.Error("Expected error for malformed id")
	}
}

func TestMonotonicOrdering(t *testing.T) {
	gen := NewGenerator()

	// Same-millisecond IDs must still sort in creation order
	prev := gen.NewTab()
	for i := 0; i < 1000; i++ {
		next := gen.NewTab()
		if next <= prev {
			t.Fatalf("IDs should be strictly increasing: %s should be > %s", next, prev)
		}
		prev = next
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- string(gen.NewTab())
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	for tab := range idChan {
		if seen[tab] {
			t.Errorf("Duplicate ID found in concurrent generation: %s", tab)
		}
		seen[tab] = true
	}

	if len(seen) != goroutines*idsPerGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", goroutines*idsPerGoroutine, len(seen))
	}
}

func TestDefaultGenerator(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}

func BenchmarkNewTab(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.NewTab()
	}
}
