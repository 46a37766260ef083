package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/agoraflux/agoraflux/metrics"
)

// DefaultTTL is how long a snapshot stays fresh. Age is the only
// invalidator; a snapshot is never partially refreshed.
const DefaultTTL = 12 * time.Hour

// SnapshotBuilder produces a complete snapshot. Satisfied by *Builder.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*Snapshot, error)
}

// Cache serves country-profile snapshots from two tiers: an in-memory
// copy and a durable JSON file, both bounded by the same TTL. The
// in-memory snapshot is the only mutable shared state in the process; it
// is replaced wholesale under the mutex so readers never observe a
// half-built snapshot.
type Cache struct {
	builder SnapshotBuilder
	path    string
	ttl     time.Duration
	log     *log.Logger

	mu   sync.RWMutex
	snap *Snapshot

	group singleflight.Group
}

// NewCache creates a cache persisting snapshots at path. A zero ttl
// selects DefaultTTL.
func NewCache(builder SnapshotBuilder, path string, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{builder: builder, path: path, ttl: ttl, log: logger}
}

// Get returns a fresh snapshot: from memory when its age is under the
// TTL, else from the durable file, else by rebuilding from the upstreams.
// force bypasses both cache tiers unconditionally. Concurrent callers
// that miss both tiers share a single rebuild.
func (c *Cache) Get(ctx context.Context, force bool) (*Snapshot, error) {
	if !force {
		c.mu.RLock()
		snap := c.snap
		c.mu.RUnlock()
		if c.fresh(snap) {
			metrics.SnapshotReads.WithLabelValues("memory").Inc()
			return snap, nil
		}

		if snap := c.readFile(); c.fresh(snap) {
			c.mu.Lock()
			c.snap = snap
			c.mu.Unlock()
			metrics.SnapshotReads.WithLabelValues("file").Inc()
			return snap, nil
		}
	}

	return c.rebuild(ctx)
}

// Refresh rebuilds the snapshot unconditionally.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	return c.rebuild(ctx)
}

// rebuild runs the builder, persists the result best-effort, and swaps
// the in-memory snapshot atomically. Concurrent rebuild requests collapse
// into one builder run.
func (c *Cache) rebuild(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do("rebuild", func() (any, error) {
		start := time.Now()
		snap, err := c.builder.Build(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot rebuild failed: %w", err)
		}
		metrics.SnapshotReads.WithLabelValues("rebuild").Inc()
		metrics.SnapshotRebuildSeconds.Observe(time.Since(start).Seconds())

		// Persistence is best-effort: the in-memory copy stays
		// authoritative for the process lifetime even when the write
		// fails.
		c.writeFile(snap)

		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()

		c.log.Info("country-profile snapshot rebuilt",
			"profiles", len(snap.Profiles), "took", time.Since(start))
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *Cache) fresh(s *Snapshot) bool {
	return s != nil && time.Since(s.UpdatedAt) < c.ttl
}

// readFile loads the durable snapshot. Absence or corruption is a cache
// miss, never an error.
func (c *Cache) readFile() *Snapshot {
	if c.path == "" {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.Warn("ignoring corrupt snapshot file", "path", c.path, "err", err)
		return nil
	}
	return &snap
}

// writeFile persists the snapshot, swallowing failures.
func (c *Cache) writeFile(snap *Snapshot) {
	if c.path == "" {
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		c.log.Warn("failed to marshal snapshot", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		c.log.Warn("failed to create snapshot directory", "err", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		c.log.Warn("failed to write snapshot file", "path", c.path, "err", err)
	}
}
