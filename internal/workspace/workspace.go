// Package workspace builds the schema for a configured documentation
// directory once and hands the same immutable value to every caller.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jcdickinson/doxyschema/internal/config"
	"github.com/jcdickinson/doxyschema/internal/schema"
	"github.com/jcdickinson/doxyschema/internal/snapshot"
	"golang.org/x/sync/singleflight"
)

type Workspace struct {
	cfg   *config.Config
	group singleflight.Group

	mu     sync.RWMutex
	schema *schema.Schema
}

func New(cfg *config.Config) *Workspace {
	return &Workspace{cfg: cfg}
}

// Schema returns the resolved schema, building it on first use. Concurrent
// first callers share one build.
func (w *Workspace) Schema(ctx context.Context) (*schema.Schema, error) {
	w.mu.RLock()
	s := w.schema
	w.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	ch := w.group.DoChan(w.cfg.Docs.Dir, func() (interface{}, error) {
		w.mu.RLock()
		built := w.schema
		w.mu.RUnlock()
		if built != nil {
			return built, nil
		}

		s, err := w.build()
		if err != nil {
			return nil, err
		}
		w.mu.Lock()
		w.schema = s
		w.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.Schema), nil
	}
}

func (w *Workspace) build() (*schema.Schema, error) {
	entries, err := schema.Discover(w.cfg.Docs.Dir, w.cfg.Docs.Patterns)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no class pages in %s matching %v", w.cfg.Docs.Dir, w.cfg.Docs.Patterns)
	}
	slog.Info("discovered class pages", "dir", w.cfg.Docs.Dir, "count", len(entries))

	if !w.cfg.Cache.Enabled {
		return schema.New(entries)
	}

	key, err := snapshot.Key(entries)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Load(w.cfg.Cache.Dir, key)
	if err == nil {
		slog.Info("using cached schema", "key", key)
		return schema.FromSnapshot(snap), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring unreadable schema snapshot", "key", key, "error", err)
	}

	s, err := schema.New(entries)
	if err != nil {
		return nil, err
	}
	if err := snapshot.Save(w.cfg.Cache.Dir, key, s.Snapshot()); err != nil {
		slog.Warn("failed to save schema snapshot", "error", err)
	}
	return s, nil
}
