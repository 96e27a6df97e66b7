package content

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the current Site and swaps it atomically on reload. Readers
// never observe a partially loaded site; a failed reload keeps the previous
// one.
type Store struct {
	path   string
	logger *zap.Logger
	site   atomic.Pointer[Site]

	mu        sync.Mutex
	listeners map[int]func(*Site)
	nextID    int
}

// NewStore serves site as-is; it has no file to reload from.
func NewStore(site *Site, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger, listeners: make(map[int]func(*Site))}
	s.site.Store(site)
	return s
}

// Open loads path, or the built-in content when path is empty.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return NewStore(Default(), logger), nil
	}
	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := NewStore(site, logger)
	s.path = path
	return s, nil
}

func (s *Store) Site() *Site { return s.site.Load() }

func (s *Store) Path() string { return s.path }

// OnReload registers fn to run after every successful reload. The returned
// func unregisters it.
func (s *Store) OnReload(fn func(*Site)) (release func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Reload re-reads the backing file.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	site, err := Load(s.path)
	if err != nil {
		return err
	}
	s.site.Store(site)

	s.mu.Lock()
	fns := make([]func(*Site), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(site)
	}
	return nil
}

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the site whenever its file changes until ctx is done. The
// parent directory is watched so editors that replace the file on save are
// picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}
	target := filepath.Clean(s.path)
	s.logger.Info("watching site content", zap.String("path", target))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))
		case <-debounce:
			debounce = nil
			if err := s.Reload(); err != nil {
				s.logger.Error("reload site content, keeping previous", zap.Error(err))
				continue
			}
			s.logger.Info("site content reloaded", zap.String("path", target))
		}
	}
}
