package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/pixelshare/internal/adapters/codec"
	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/internal/core/ports/mocks"
)

func newRetrieveFlow(store *mocks.MockStore, delay time.Duration) *RetrieveFlow {
	return NewRetrieveFlow(store, codec.NewDataURLCodec(), delay, zerolog.Nop())
}

func seedImage(t *testing.T, store *mocks.MockStore, key domain.ShareKey, data []byte) {
	t.Helper()
	encoded, err := codec.NewDataURLCodec().Encode(context.Background(), domain.ImageAsset{
		MimeType: "image/png",
		Source:   bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("failed to encode seed image: %v", err)
	}
	if err := store.Put(context.Background(), key, encoded); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
}

func TestRetrieveFlow_Found(t *testing.T) {
	store := mocks.NewMockStore()
	data := fakePNG(1024, 9)
	seedImage(t, store, "pixelperfect-1-abc", data)

	flow := newRetrieveFlow(store, 0)
	state := flow.SubmitKey(context.Background(), "pixelperfect-1-abc")

	if state.Phase != domain.RetrieveFound {
		t.Fatalf("expected Found, got %s (%q)", state.Phase, state.Message)
	}
	if state.Image == nil || !bytes.Equal(state.Image.Data, data) {
		t.Error("decoded image does not match stored bytes")
	}
	if state.Image.MimeType != "image/png" {
		t.Errorf("expected image/png, got %q", state.Image.MimeType)
	}
}

func TestRetrieveFlow_NotFound(t *testing.T) {
	flow := newRetrieveFlow(mocks.NewMockStore(), 0)

	state := flow.SubmitKey(context.Background(), "nonexistent-key-123")

	if state.Phase != domain.RetrieveNotFound {
		t.Errorf("expected NotFound, got %s", state.Phase)
	}
	if state.Message != "Image not found. The key is invalid or the image has been removed." {
		t.Errorf("unexpected message: %q", state.Message)
	}
}

func TestRetrieveFlow_BlankKeySkipsStore(t *testing.T) {
	for _, key := range []string{"", "   ", "\t\n"} {
		store := mocks.NewMockStore()
		flow := newRetrieveFlow(store, time.Hour)

		state := flow.SubmitKey(context.Background(), key)

		if store.GetCalls != 0 {
			t.Errorf("SubmitKey(%q) contacted the store", key)
		}
		if state.Phase != domain.RetrieveIdle {
			t.Errorf("SubmitKey(%q): expected Idle, got %s", key, state.Phase)
		}
		if state.Message != domain.MsgEmptyKey {
			t.Errorf("SubmitKey(%q): expected %q, got %q", key, domain.MsgEmptyKey, state.Message)
		}
	}
}

func TestRetrieveFlow_BlankKeyKeepsCurrentState(t *testing.T) {
	flow := newRetrieveFlow(mocks.NewMockStore(), 0)
	flow.SubmitKey(context.Background(), "missing")

	state := flow.SubmitKey(context.Background(), " ")
	if state.Phase != domain.RetrieveNotFound {
		t.Errorf("expected phase to stay NotFound, got %s", state.Phase)
	}
	if state.Message != domain.MsgEmptyKey {
		t.Errorf("expected validation message, got %q", state.Message)
	}
}

func TestRetrieveFlow_StoreFailure(t *testing.T) {
	store := mocks.NewMockStore()
	store.GetErr = domain.NewStoreUnavailableError("get", errors.New("storage disabled"))
	flow := newRetrieveFlow(store, 0)

	state := flow.SubmitKey(context.Background(), "any-key")

	if state.Phase != domain.RetrieveError {
		t.Errorf("expected Error, got %s", state.Phase)
	}
	if state.Message != domain.MsgRetrieveFailed {
		t.Errorf("expected %q, got %q", domain.MsgRetrieveFailed, state.Message)
	}
}

func TestRetrieveFlow_CorruptEntry(t *testing.T) {
	store := mocks.NewMockStore()
	store.Put(context.Background(), "broken", "definitely not a data url")
	flow := newRetrieveFlow(store, 0)

	state := flow.SubmitKey(context.Background(), "broken")
	if state.Phase != domain.RetrieveError || state.Image != nil {
		t.Errorf("expected Error without image, got %+v", state)
	}
}

func TestRetrieveFlow_KeyIsTrimmed(t *testing.T) {
	store := mocks.NewMockStore()
	seedImage(t, store, "pixelperfect-2-xyz", fakePNG(16, 0))
	flow := newRetrieveFlow(store, 0)

	state := flow.SubmitKey(context.Background(), "  pixelperfect-2-xyz\n")
	if state.Phase != domain.RetrieveFound {
		t.Errorf("expected Found for padded key, got %s", state.Phase)
	}
}

func TestRetrieveFlow_DelayIsApplied(t *testing.T) {
	delay := 30 * time.Millisecond
	flow := newRetrieveFlow(mocks.NewMockStore(), delay)

	start := time.Now()
	flow.SubmitKey(context.Background(), "k")
	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("expected at least %v, took %v", delay, elapsed)
	}
}

func TestRetrieveFlow_ResetDuringDelay(t *testing.T) {
	store := mocks.NewMockStore()
	flow := newRetrieveFlow(store, time.Hour)

	job, state := flow.BeginRetrieve("some-key")
	if job == nil || state.Phase != domain.Retrieving {
		t.Fatalf("expected Retrieving job, got %+v", state)
	}

	done := make(chan domain.RetrieveState)
	go func() { done <- job.Run(context.Background()) }()

	flow.Reset()

	select {
	case state := <-done:
		if state.Phase != domain.RetrieveIdle {
			t.Errorf("stale retrieval overwrote reset state: %s", state.Phase)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reset did not interrupt the delay")
	}

	if store.GetCalls != 0 {
		t.Error("store read after the lookup was cancelled")
	}
}

func TestRetrieveFlow_ResetDuringStoreRead(t *testing.T) {
	store := mocks.NewMockStore()
	seedImage(t, store, "k", fakePNG(16, 0))
	blocking := mocks.NewBlockingStore(store)
	flow := NewRetrieveFlow(blocking, codec.NewDataURLCodec(), 0, zerolog.Nop())

	job, _ := flow.BeginRetrieve("k")
	done := make(chan domain.RetrieveState)
	go func() { done <- job.Run(context.Background()) }()

	<-blocking.Entered
	flow.Reset()
	close(blocking.Release)

	if state := <-done; state.Phase != domain.RetrieveIdle || state.Image != nil {
		t.Errorf("expected Idle without image, got %+v", state)
	}
}

func TestRetrieveFlow_ResubmitWhileRetrievingIgnored(t *testing.T) {
	flow := newRetrieveFlow(mocks.NewMockStore(), time.Hour)

	first, _ := flow.BeginRetrieve("a")
	second, state := flow.BeginRetrieve("b")

	if first == nil {
		t.Fatal("expected first job")
	}
	if second != nil {
		t.Error("second lookup started while one is in flight")
	}
	if state.Key != "a" {
		t.Errorf("expected key a to stay pending, got %s", state.Key)
	}
	flow.Reset()
}

func TestRetrieveFlow_ResetDropsImage(t *testing.T) {
	store := mocks.NewMockStore()
	seedImage(t, store, "k", fakePNG(16, 0))
	flow := newRetrieveFlow(store, 0)

	flow.SubmitKey(context.Background(), "k")
	state := flow.Reset()

	if state.Phase != domain.RetrieveIdle || state.Image != nil || state.Message != "" {
		t.Errorf("expected clean Idle, got %+v", state)
	}
	if again := flow.Reset(); again.Phase != domain.RetrieveIdle {
		t.Errorf("second reset changed state: %+v", again)
	}
}

func TestRetrieveFlow_CallerCancellation(t *testing.T) {
	flow := newRetrieveFlow(mocks.NewMockStore(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := flow.SubmitKey(ctx, "k")
	if state.Phase != domain.RetrieveError {
		t.Errorf("expected Error after caller cancellation, got %s", state.Phase)
	}
}

func TestRetrieveFlow_ObserversSeeTransitions(t *testing.T) {
	flow := newRetrieveFlow(mocks.NewMockStore(), 0)

	var states []domain.RetrieveState
	flow.Observe(func(s domain.RetrieveState) {
		states = append(states, s)
	})

	flow.SubmitKey(context.Background(), "  ")
	flow.SubmitKey(context.Background(), "nonexistent-key-123")
	flow.Reset()

	want := []domain.RetrievePhase{
		domain.RetrieveIdle,
		domain.Retrieving,
		domain.RetrieveNotFound,
		domain.RetrieveIdle,
	}
	if len(states) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(states))
	}
	for i := range want {
		if states[i].Phase != want[i] {
			t.Errorf("snapshot %d: expected %s, got %s", i, want[i], states[i].Phase)
		}
	}
	if states[0].Message != domain.MsgEmptyKey {
		t.Errorf("expected blank key message, got %q", states[0].Message)
	}
}

func TestRetrieveFlow_StaleResultNotPublished(t *testing.T) {
	inner := mocks.NewMockStore()
	seedImage(t, inner, "pixelperfect-1-abc", fakePNG(32, 1))
	blocking := mocks.NewBlockingStore(inner)
	flow := NewRetrieveFlow(blocking, codec.NewDataURLCodec(), 0, zerolog.Nop())

	published := make(chan domain.RetrieveState, 8)
	flow.Observe(func(s domain.RetrieveState) { published <- s })

	done := make(chan domain.RetrieveState)
	go func() { done <- flow.SubmitKey(context.Background(), "pixelperfect-1-abc") }()

	<-blocking.Entered
	flow.Reset()
	close(blocking.Release)
	<-done

	close(published)
	var last domain.RetrieveState
	for s := range published {
		last = s
	}
	if last.Phase != domain.RetrieveIdle {
		t.Errorf("expected last published phase Idle, got %s", last.Phase)
	}
	if flow.State().Image != nil {
		t.Error("stale image leaked into state")
	}
}
