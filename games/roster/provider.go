/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package roster

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Seednode/whosthat/games/guess"
)

//go:embed default.yaml
var defaultRoster []byte

// ErrUnavailable wraps any failure to produce a roster.
var ErrUnavailable = errors.New("roster unavailable")

// Provider loads a roster once and serves it from memory until Reset. It
// is safe for concurrent use by many games.
type Provider struct {
	mu sync.Mutex

	path  string
	cache *Cache
	logf  func(format string, args ...any)

	entities []guess.Entity
	byID     map[int]guess.Entity
	digest   string
}

// Option configures a Provider.
type Option func(*Provider)

// WithFile reads the roster from path instead of the built-in roster.
func WithFile(path string) Option {
	return func(p *Provider) {
		p.path = path
	}
}

// WithCache keeps enriched rosters in c between runs.
func WithCache(c *Cache) Option {
	return func(p *Provider) {
		p.cache = c
	}
}

// WithLogger receives load and cache messages.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(p *Provider) {
		if logf != nil {
			p.logf = logf
		}
	}
}

// New returns a provider for the built-in roster unless configured otherwise.
func New(opts ...Option) *Provider {
	p := &Provider{
		logf: func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Source names where the roster comes from.
func (p *Provider) Source() string {
	if p.path == "" {
		return "built-in roster"
	}

	return p.path
}

// Reset drops the in-memory roster; the next load reads the source again.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entities = nil
	p.byID = nil
	p.digest = ""

	p.logf("ROSTER: Cleared cached roster from %s", p.Source())
}

// LoadEntities returns a copy of the roster, loading it on first use.
func (p *Provider) LoadEntities(ctx context.Context) ([]guess.Entity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]guess.Entity, len(p.entities))
	for i, e := range p.entities {
		out[i] = e.Clone()
	}

	return out, nil
}

// LoadEntityByID returns one creature, loading the roster if needed.
func (p *Provider) LoadEntityByID(id int) (guess.Entity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(context.Background()); err != nil {
		return guess.Entity{}, false
	}

	e, ok := p.byID[id]
	if !ok {
		return guess.Entity{}, false
	}

	return e.Clone(), true
}

func (p *Provider) loadLocked(ctx context.Context) error {
	if p.entities != nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	data, format, err := p.read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	entities, ok := p.fromCache(ctx, digest)
	if !ok {
		records, err := Parse(data, format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		entities, err = Enrich(records)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		p.toCache(ctx, digest, entities)
	}

	if len(entities) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrUnavailable, p.Source())
	}

	p.entities = entities
	p.byID = make(map[int]guess.Entity, len(entities))
	for _, e := range entities {
		p.byID[e.ID] = e
	}
	p.digest = digest

	p.logf("ROSTER: Loaded %d creatures from %s", len(entities), p.Source())

	return nil
}

func (p *Provider) read() ([]byte, Format, error) {
	if p.path == "" {
		return defaultRoster, FormatYAML, nil
	}

	format, err := FormatFor(p.path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, "", fmt.Errorf("read roster: %w", err)
	}

	return data, format, nil
}

func (p *Provider) fromCache(ctx context.Context, digest string) ([]guess.Entity, bool) {
	if p.cache == nil {
		return nil, false
	}

	entities, ok, err := p.cache.Load(ctx, digest)
	if err != nil {
		p.logf("ROSTER: Ignoring unreadable cache: %v", err)
		return nil, false
	}

	if ok {
		p.logf("ROSTER: Using cached roster %s", digest[:12])
	}

	return entities, ok
}

func (p *Provider) toCache(ctx context.Context, digest string, entities []guess.Entity) {
	if p.cache == nil {
		return
	}

	if err := p.cache.Store(ctx, digest, entities); err != nil {
		p.logf("ROSTER: Failed to cache roster: %v", err)
	}
}
