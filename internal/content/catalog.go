package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Catalog serves the current site and reloads it when its file changes.
type Catalog struct {
	path string
	log  *zap.Logger

	mu        sync.RWMutex
	site      *Site
	loadedAt  time.Time
	listeners []func(*Site)
}

// NewCatalog loads path (or the built-in site when path is empty).
func NewCatalog(path string, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{path: path, log: log}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Current returns the last successfully loaded site. Callers must not modify
// it.
func (c *Catalog) Current() *Site {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.site
}

// LoadedAt reports when Current was loaded.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// OnReload registers fn to run after each successful reload.
func (c *Catalog) OnReload(fn func(*Site)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Reload re-reads the file. On failure the previous site stays current.
func (c *Catalog) Reload() error {
	site, err := Load(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.site = site
	c.loadedAt = time.Now()
	listeners := append([]func(*Site){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(site)
	}
	return nil
}

// Watch reloads the catalog whenever its file is written, debouncing bursts
// of events. It blocks until ctx is done. With the built-in site there is
// nothing to watch and Watch just waits.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) error {
	if c.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(c.path)
	c.log.Info("watching site file", zap.String("path", target))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerCh = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("site watcher error", zap.Error(err))
		case <-timerCh:
			timerCh = nil
			if err := c.Reload(); err != nil {
				c.log.Warn("site reload failed, keeping previous content", zap.Error(err))
				continue
			}
			c.log.Info("site reloaded", zap.String("path", target))
		}
	}
}
