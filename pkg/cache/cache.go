// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests or --no-cache
//
// # Keys
//
// A [Keyer] derives keys from content hashes plus every option that affects
// the output, so changing the label budget or the font size never serves a
// stale layout. [ScopedKeyer] prefixes keys to share one backend between
// tenants or environments.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLOrder    = 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
	KeyTypeOrder    = "order"
)

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	MaxLabels int     `json:"max_labels"`
	Offset    float64 `json:"offset"`
	FontSize  float64 `json:"font_size"`
	Measurer  string  `json:"measurer"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Background   string  `json:"background,omitempty"`
	Boxes        bool    `json:"boxes,omitempty"`
	VisibleOnly  bool    `json:"visible_only,omitempty"`
	FontSize     float64 `json:"font_size"`
	MarkerRadius float64 `json:"marker_radius"`
	Scale        float64 `json:"scale,omitempty"`
}

// OrderKeyOpts are the options that change a priority order. Width is the
// effective viewport width, which sizes the smoothing window.
type OrderKeyOpts struct {
	MaxLabels int     `json:"max_labels"`
	Width     float64 `json:"width"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
	OrderKey(sceneHash string, opts OrderKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, sceneHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, layoutHash, opts)
}

// OrderKey returns "order:<hash>".
func (DefaultKeyer) OrderKey(sceneHash string, opts OrderKeyOpts) string {
	return hashKey(KeyTypeOrder, sceneHash, opts)
}
