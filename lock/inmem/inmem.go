package inmem

import (
	"context"
	"sync"

	"github.com/enverbisevac/fifolock/errors"
	"github.com/enverbisevac/fifolock/lock"
	"github.com/enverbisevac/fifolock/lock/fifo"
	"github.com/go-logr/logr"
)

var _ lock.Service = (*Service)(nil)

// Service implements lock.Service with one FIFO lock per key.
type Service struct {
	config Config

	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	lock *fifo.Lock
	// refs counts the holder plus queued waiters.
	refs int
}

// New creates a new in-memory lock service.
func New(options ...Option) *Service {
	var config Config
	for _, opt := range options {
		opt.Apply(&config)
	}

	return &Service{
		config: config,
		locks:  make(map[string]*lockEntry),
	}
}

// NewLock creates a new lock with the given key.
func (s *Service) NewLock(key string) lock.Locker {
	return &locker{
		service: s,
		key:     key,
	}
}

// getEntry returns the entry for key, creating it if needed, and takes a
// reference on it.
func (s *Service) getEntry(key string) *lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[key]
	if !ok {
		options := append([]fifo.Option{}, s.config.LockOptions...)
		options = append(options, fifo.WithName(key))
		entry = &lockEntry{lock: fifo.New(options...)}
		s.locks[key] = entry
	}
	entry.refs++
	return entry
}

// releaseEntry drops a reference and forgets the entry once nobody holds
// or waits for it. It returns the remaining references.
func (s *Service) releaseEntry(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.locks[key]
	if !ok {
		return 0
	}
	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, key)
	}
	return entry.refs
}

type locker struct {
	service *Service
	key     string
}

// Acquire blocks until the lock for the key is granted.
func (l *locker) Acquire(ctx context.Context) lock.Releaser {
	entry := l.service.getEntry(l.key)
	return &releaser{
		locker: l,
		log:    logr.FromContextOrDiscard(ctx),
		inner:  entry.lock.Acquire(ctx),
	}
}

// TryAcquire grants the lock for the key only if it is free.
func (l *locker) TryAcquire(ctx context.Context) (lock.Releaser, bool) {
	entry := l.service.getEntry(l.key)
	inner, ok := entry.lock.TryAcquire(ctx)
	if !ok {
		l.service.releaseEntry(l.key)
		return nil, false
	}
	return &releaser{
		locker: l,
		log:    logr.FromContextOrDiscard(ctx),
		inner:  inner,
	}, true
}

// Run acquires the lock for the key, calls fn and always releases.
func (l *locker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return lock.Run(ctx, l, fn)
}

type releaser struct {
	locker *locker
	log    logr.Logger
	inner  lock.Releaser
}

// Release releases the per-key lock and drops the entry reference. A
// reused releaser reports the error without touching the reference count.
func (r *releaser) Release() error {
	if err := r.inner.Release(); err != nil {
		return errors.PreconditionFailed("inmem: lock %q already released", r.locker.key).
			Source(err).
			Detail(r.locker.key)
	}
	if refs := r.locker.service.releaseEntry(r.locker.key); refs == 0 {
		r.log.V(1).Info("in inmem Release: no more users, entry removed", "key", r.locker.key)
	}
	return nil
}
