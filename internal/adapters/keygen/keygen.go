package keygen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

const (
	DefaultPrefix = "pixelperfect"
	tokenLength   = 7
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator mints keys of the form <prefix>-<unix millis>-<base36 token>.
// The time component never repeats within a process, so keys stay distinct
// even if the random source does.
type Generator struct {
	prefix string
	now    func() time.Time
	random io.Reader

	mu   sync.Mutex
	last int64
}

// Option configures a Generator
type Option func(*Generator)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom overrides the random source
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.random = r }
}

// New creates a generator; an empty prefix falls back to DefaultPrefix
func New(prefix string, opts ...Option) *Generator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}

	g := &Generator{
		prefix: prefix,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns a new share key
func (g *Generator) Next() (domain.ShareKey, error) {
	token, err := g.token()
	if err != nil {
		return "", fmt.Errorf("failed to generate key token: %w", err)
	}

	g.mu.Lock()
	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	g.mu.Unlock()

	return domain.ShareKey(g.prefix + "-" + strconv.FormatInt(ts, 10) + "-" + token), nil
}

func (g *Generator) token() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, tokenLength)
	for i := range buf {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
