// Package fifo provides an exclusive lock that admits waiters strictly in
// the order they asked for it. There are no timeouts: a waiter stays queued
// until every holder ahead of it has released.
package fifo

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/enverbisevac/fifolock/lock"
	"github.com/go-logr/logr"
)

var _ lock.Locker = (*Lock)(nil)

// waiter is a pending admission. ready is closed exactly once, when the
// waiter becomes the holder.
type waiter struct {
	ready chan struct{}
}

// Lock is a FIFO mutual-exclusion lock. The zero value is an unlocked,
// unnamed lock without metrics.
//
// Lock is not reentrant: a holder calling Acquire again deadlocks.
type Lock struct {
	config  Config
	metrics *metrics

	// mu guards taken and queue only, never the caller's critical section.
	mu    sync.Mutex
	taken bool
	queue *queue.Queue
}

// New creates a free lock.
func New(options ...Option) *Lock {
	config := Config{
		Name: DefaultName,
	}
	for _, opt := range options {
		opt.Apply(&config)
	}

	return &Lock{
		config:  config,
		metrics: newMetrics(config.Name, config.Registerer),
		queue:   queue.New(),
	}
}

// Acquire blocks until the lock is granted and returns the capability that
// releases it. If the lock is free it is granted without waiting; otherwise
// the caller joins the tail of the queue.
//
// ctx only supplies the logger. Cancellation is not observed, and an
// acquisition that is already queued cannot be abandoned.
func (l *Lock) Acquire(ctx context.Context) lock.Releaser {
	log := l.logger(ctx)

	l.mu.Lock()
	if !l.taken {
		l.taken = true
		l.mu.Unlock()
		l.metrics.granted(0, false)
		log.V(1).Info("in fifo Acquire: granted immediately")
		return newGuard(l, log)
	}

	w := &waiter{ready: make(chan struct{})}
	l.enqueue(w)
	position := l.queue.Length()
	l.metrics.queued()
	l.mu.Unlock()

	log.V(1).Info("in fifo Acquire: lock is held, waiting", "position", position)
	start := time.Now()
	<-w.ready
	waited := time.Since(start)

	l.metrics.granted(waited, true)
	log.V(1).Info("in fifo Acquire: admitted", "waited", waited)
	return newGuard(l, log)
}

// TryAcquire grants the lock only if it is free. It never joins the queue.
func (l *Lock) TryAcquire(ctx context.Context) (lock.Releaser, bool) {
	log := l.logger(ctx)

	l.mu.Lock()
	if l.taken {
		l.mu.Unlock()
		log.V(1).Info("in fifo TryAcquire: lock is held")
		return nil, false
	}
	l.taken = true
	l.mu.Unlock()

	l.metrics.granted(0, false)
	log.V(1).Info("in fifo TryAcquire: granted")
	return newGuard(l, log), true
}

// Run acquires the lock, calls fn and releases the lock once fn returns or
// panics. The error from fn is returned as is; a panic is re-raised after
// the release.
func (l *Lock) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return lock.Run(ctx, l, fn)
}

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.taken
}

// Waiting returns the number of queued waiters.
func (l *Lock) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queue == nil {
		return 0
	}
	return l.queue.Length()
}

// release frees the lock and, if someone is queued, hands it straight to
// the head of the queue. It reports whether a waiter was admitted.
func (l *Lock) release() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.taken = false
	if l.queue == nil || l.queue.Length() == 0 {
		return false
	}

	next := l.queue.Remove().(*waiter)
	l.taken = true
	l.metrics.dequeued()
	close(next.ready)
	return true
}

func (l *Lock) enqueue(w *waiter) {
	if l.queue == nil {
		l.queue = queue.New()
	}
	l.queue.Add(w)
}

func (l *Lock) logger(ctx context.Context) logr.Logger {
	name := l.config.Name
	if name == "" {
		name = DefaultName
	}
	return logr.FromContextOrDiscard(ctx).WithValues("lock", name)
}
