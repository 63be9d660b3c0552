package keygen

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"
)

var keyPattern = regexp.MustCompile(`^pixelperfect-\d+-[a-z0-9]{7}$`)

func TestGenerator_Shape(t *testing.T) {
	g := New("")
	key, err := g.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !keyPattern.MatchString(string(key)) {
		t.Errorf("key %q does not match %s", key, keyPattern)
	}
}

func TestGenerator_Distinct(t *testing.T) {
	for _, n := range []int{1, 2, 100, 5000} {
		g := New(DefaultPrefix)
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			key, err := g.Next()
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			if seen[string(key)] {
				t.Fatalf("duplicate key after %d calls: %s", i, key)
			}
			seen[string(key)] = true
		}
	}
}

func TestGenerator_DistinctWithFrozenClockAndRandom(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	// A zero-filled random source yields the same token every time
	g := New("pixelperfect",
		WithClock(func() time.Time { return frozen }),
		WithRandom(bytes.NewReader(make([]byte, 1<<16))),
	)

	first, _ := g.Next()
	second, _ := g.Next()
	if first == second {
		t.Fatalf("expected distinct keys, both were %s", first)
	}
	if string(first) != "pixelperfect-1700000000000-0000000" {
		t.Errorf("unexpected first key: %s", first)
	}
	if string(second) != "pixelperfect-1700000000001-0000000" {
		t.Errorf("unexpected second key: %s", second)
	}
}

func TestGenerator_CustomPrefix(t *testing.T) {
	g := New("team")
	key, _ := g.Next()
	if !regexp.MustCompile(`^team-\d+-[a-z0-9]{7}$`).MatchString(string(key)) {
		t.Errorf("unexpected key: %s", key)
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerator_RandomFailure(t *testing.T) {
	g := New("", WithRandom(failingReader{}))
	if _, err := g.Next(); err == nil {
		t.Fatal("expected error from failing random source")
	}
}
