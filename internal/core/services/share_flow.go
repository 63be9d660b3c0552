package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/internal/core/ports"
)

// ShareFlow drives an image from selection to an issued share key.
// All transitions are safe for concurrent use; only confirmShare performs I/O.
type ShareFlow struct {
	store    ports.Store
	codec    ports.Codec
	keys     ports.KeyGenerator
	previews ports.PreviewAllocator
	logger   zerolog.Logger

	mu        sync.Mutex
	state     domain.ShareState
	asset     *domain.ImageAsset
	raw       []byte // Bytes captured from the asset source on the first share attempt
	gen       uint64
	cancel    context.CancelFunc
	observers []func(domain.ShareState)
}

// NewShareFlow creates a share flow in the Idle state
func NewShareFlow(store ports.Store, codec ports.Codec, keys ports.KeyGenerator, previews ports.PreviewAllocator, logger zerolog.Logger) *ShareFlow {
	return &ShareFlow{
		store:    store,
		codec:    codec,
		keys:     keys,
		previews: previews,
		logger:   logger,
	}
}

// State returns the current snapshot
func (f *ShareFlow) State() domain.ShareState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Observe registers fn to receive every new snapshot
func (f *ShareFlow) Observe(fn func(domain.ShareState)) {
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// SelectFile replaces any current selection with c.
// Non-image candidates leave the flow Idle with a validation message.
func (f *ShareFlow) SelectFile(c domain.FileCandidate) domain.ShareState {
	f.mu.Lock()
	f.resetLocked()

	if !c.IsImage() || c.Source == nil {
		f.state = domain.ShareState{Phase: domain.ShareIdle, Error: domain.MsgInvalidImage}
		f.logger.Debug().Str("file", c.Name).Str("content_type", c.ContentType).Msg("rejected non-image selection")
		return f.commitLocked()
	}

	handle, err := f.previews.Allocate(c)
	if err != nil {
		f.state = domain.ShareState{Phase: domain.ShareIdle, Error: domain.MsgShareFailed}
		f.logger.Error().Err(err).Str("file", c.Name).Msg("preview allocation failed")
		return f.commitLocked()
	}

	asset := domain.NewImageAsset(c)
	f.asset = &asset
	f.state = domain.ShareState{
		Phase:    domain.ShareSelected,
		FileName: asset.FileName,
		MimeType: asset.MimeType,
		Preview:  handle,
	}
	return f.commitLocked()
}

// ShareJob is one pending confirmShare resolution
type ShareJob struct {
	flow  *ShareFlow
	gen   uint64
	ctx   context.Context
	asset domain.ImageAsset
	raw   []byte
}

// BeginShare moves a Selected flow to Sharing and returns the job that
// completes it. It returns false in any other state.
func (f *ShareFlow) BeginShare() (*ShareJob, bool) {
	f.mu.Lock()
	if f.state.Phase != domain.ShareSelected || f.asset == nil {
		f.mu.Unlock()
		return nil, false
	}

	f.gen++
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	job := &ShareJob{flow: f, gen: f.gen, ctx: ctx, asset: *f.asset, raw: f.raw}

	f.state = domain.ShareState{
		Phase:    domain.ShareSharing,
		FileName: f.state.FileName,
		MimeType: f.state.MimeType,
		Preview:  f.state.Preview,
	}
	f.commitLocked()
	return job, true
}

// ConfirmShare encodes, keys and persists the selected image.
// It is a no-op outside the Selected state.
func (f *ShareFlow) ConfirmShare(ctx context.Context) domain.ShareState {
	job, ok := f.BeginShare()
	if !ok {
		return f.State()
	}
	return job.Run(ctx)
}

// Run performs the share and applies its outcome, unless the flow was reset
// in the meantime, in which case the outcome is discarded.
func (j *ShareJob) Run(ctx context.Context) domain.ShareState {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(j.ctx, cancel)
	defer stop()

	raw, key, err := j.flow.share(runCtx, j.asset, j.raw)
	return j.flow.finishShare(j.gen, raw, key, err)
}

// share runs encode, key generation and store write in that order
func (f *ShareFlow) share(ctx context.Context, asset domain.ImageAsset, raw []byte) ([]byte, domain.ShareKey, error) {
	if raw == nil {
		if asset.Source == nil {
			return nil, "", &domain.EncodeError{Err: fmt.Errorf("image has no byte source")}
		}
		data, err := io.ReadAll(asset.Source)
		if err != nil {
			return nil, "", &domain.EncodeError{Err: fmt.Errorf("failed to read image: %w", err)}
		}
		raw = data
	}
	asset.Source = bytes.NewReader(raw)

	encoded, err := f.codec.Encode(ctx, asset)
	if err != nil {
		return raw, "", fmt.Errorf("failed to encode image: %w", err)
	}

	key, err := f.keys.Next()
	if err != nil {
		return raw, "", fmt.Errorf("failed to generate key: %w", err)
	}

	if err := f.store.Put(ctx, key, encoded); err != nil {
		return raw, "", fmt.Errorf("failed to store image: %w", err)
	}

	f.logger.Info().
		Str("key", key.String()).
		Str("mime", asset.MimeType).
		Int("bytes", len(raw)).
		Msg("image shared")

	return raw, key, nil
}

func (f *ShareFlow) finishShare(gen uint64, raw []byte, key domain.ShareKey, err error) domain.ShareState {
	f.mu.Lock()
	if gen != f.gen || f.state.Phase != domain.ShareSharing {
		f.logger.Debug().Str("key", key.String()).Msg("discarding stale share result")
		state := f.state
		f.mu.Unlock()
		return state
	}
	f.cancel()
	f.cancel = nil

	if err != nil {
		f.logger.Error().
			Err(err).
			Str("file", f.state.FileName).
			Bool("store_full", domain.IsStoreFull(err)).
			Msg("share failed")
		if raw != nil {
			f.raw = raw
		}
		f.state = domain.ShareState{
			Phase:    domain.ShareSelected,
			FileName: f.state.FileName,
			MimeType: f.state.MimeType,
			Preview:  f.state.Preview,
			Error:    domain.MsgShareFailed,
		}
		return f.commitLocked()
	}

	if f.state.Preview != "" {
		f.previews.Release(f.state.Preview)
	}
	f.asset = nil
	f.raw = nil
	f.state = domain.ShareState{
		Phase:    domain.ShareShared,
		FileName: f.state.FileName,
		MimeType: f.state.MimeType,
		Key:      key,
	}
	return f.commitLocked()
}

// Reset cancels any pending share, releases the preview and returns to Idle
func (f *ShareFlow) Reset() domain.ShareState {
	f.mu.Lock()
	f.resetLocked()
	return f.commitLocked()
}

func (f *ShareFlow) resetLocked() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
	if f.state.Preview != "" {
		f.previews.Release(f.state.Preview)
	}
	f.asset = nil
	f.raw = nil
	f.state = domain.ShareState{}
}

// commitLocked unlocks f and notifies observers of the new state
func (f *ShareFlow) commitLocked() domain.ShareState {
	state := f.state
	observers := slices.Clone(f.observers)
	f.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	return state
}
