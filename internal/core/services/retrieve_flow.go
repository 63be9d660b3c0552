package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/internal/core/ports"
)

// DefaultRetrieveDelay is the cosmetic pause before a lookup
const DefaultRetrieveDelay = 500 * time.Millisecond

// RetrieveFlow drives a share key lookup to a displayable image
type RetrieveFlow struct {
	store  ports.Store
	codec  ports.Codec
	delay  time.Duration
	logger zerolog.Logger

	mu        sync.Mutex
	state     domain.RetrieveState
	gen       uint64
	cancel    context.CancelFunc
	observers []func(domain.RetrieveState)
}

// NewRetrieveFlow creates a retrieve flow in the Idle state.
// A zero delay skips the pause entirely.
func NewRetrieveFlow(store ports.Store, codec ports.Codec, delay time.Duration, logger zerolog.Logger) *RetrieveFlow {
	if delay < 0 {
		delay = 0
	}
	return &RetrieveFlow{
		store:  store,
		codec:  codec,
		delay:  delay,
		logger: logger,
	}
}

// State returns the current snapshot. The returned image data must not be modified.
func (f *RetrieveFlow) State() domain.RetrieveState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Observe registers fn to receive every new snapshot
func (f *RetrieveFlow) Observe(fn func(domain.RetrieveState)) {
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// RetrieveJob is one pending submitKey resolution
type RetrieveJob struct {
	flow *RetrieveFlow
	gen  uint64
	ctx  context.Context
	key  domain.ShareKey
}

// BeginRetrieve validates key and moves the flow to Retrieving.
// A blank key only sets the validation message; the store is not contacted
// and no job is returned. A lookup already in flight is left alone.
func (f *RetrieveFlow) BeginRetrieve(key string) (*RetrieveJob, domain.RetrieveState) {
	f.mu.Lock()

	key = strings.TrimSpace(key)
	if key == "" {
		f.state.Message = domain.MsgEmptyKey
		return nil, f.commitLocked()
	}
	if f.state.Phase == domain.Retrieving {
		state := f.state
		f.mu.Unlock()
		return nil, state
	}

	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	f.state = domain.RetrieveState{Phase: domain.Retrieving, Key: domain.ShareKey(key)}
	job := &RetrieveJob{flow: f, gen: f.gen, ctx: ctx, key: domain.ShareKey(key)}
	return job, f.commitLocked()
}

// SubmitKey looks up key and blocks until the flow settles
func (f *RetrieveFlow) SubmitKey(ctx context.Context, key string) domain.RetrieveState {
	job, state := f.BeginRetrieve(key)
	if job == nil {
		return state
	}
	return job.Run(ctx)
}

// Run waits out the delay, reads the store and applies the outcome.
// A reset while running cancels the job and its outcome is discarded.
func (j *RetrieveJob) Run(ctx context.Context) domain.RetrieveState {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(j.ctx, cancel)
	defer stop()

	next := j.flow.lookup(runCtx, j.key)
	return j.flow.finish(j.gen, next)
}

func (f *RetrieveFlow) lookup(ctx context.Context, key domain.ShareKey) domain.RetrieveState {
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			f.logger.Debug().Str("key", key.String()).Msg("retrieval cancelled during delay")
			return domain.RetrieveState{Phase: domain.RetrieveError, Key: key, Message: domain.MsgRetrieveFailed}
		}
	}

	value, err := f.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			f.logger.Info().Str("key", key.String()).Msg("share key not found")
			return domain.RetrieveState{Phase: domain.RetrieveNotFound, Key: key, Message: domain.MsgNotFound}
		}
		f.logger.Error().Err(err).Str("key", key.String()).Msg("store read failed")
		return domain.RetrieveState{Phase: domain.RetrieveError, Key: key, Message: domain.MsgRetrieveFailed}
	}

	decoded, err := f.codec.Decode(value)
	if err != nil {
		f.logger.Error().Err(err).Str("key", key.String()).Msg("stored image could not be decoded")
		return domain.RetrieveState{Phase: domain.RetrieveError, Key: key, Message: domain.MsgRetrieveFailed}
	}

	f.logger.Info().
		Str("key", key.String()).
		Str("mime", decoded.MimeType).
		Int("bytes", decoded.Size()).
		Msg("image retrieved")

	return domain.RetrieveState{Phase: domain.RetrieveFound, Key: key, Image: &decoded}
}

func (f *RetrieveFlow) finish(gen uint64, next domain.RetrieveState) domain.RetrieveState {
	f.mu.Lock()
	if gen != f.gen || f.state.Phase != domain.Retrieving {
		f.logger.Debug().Str("key", next.Key.String()).Msg("discarding stale retrieval result")
		state := f.state
		f.mu.Unlock()
		return state
	}

	f.cancel()
	f.cancel = nil
	f.state = next
	return f.commitLocked()
}

// Reset cancels any pending lookup and returns to Idle, dropping the decoded image
func (f *RetrieveFlow) Reset() domain.RetrieveState {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	f.state = domain.RetrieveState{}
	return f.commitLocked()
}

// commitLocked unlocks f and notifies observers of the new state
func (f *RetrieveFlow) commitLocked() domain.RetrieveState {
	state := f.state
	observers := slices.Clone(f.observers)
	f.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	return state
}
