package lock

import "context"

// Releaser gives up a held lock. It is returned once per successful
// acquisition and must be called exactly once.
type Releaser interface {
	// Release relinquishes the lock and admits the next waiter, if any.
	// Calling it again returns an error and leaves the lock untouched.
	Release() error
}

// Acquirer hands out release capabilities.
type Acquirer interface {
	// Acquire blocks until the lock is granted. It cannot fail and it does
	// not observe ctx cancellation: a pending acquisition waits forever if
	// the holder never releases.
	Acquire(ctx context.Context) Releaser
}

// Locker represents an exclusive lock whose waiters are admitted in the
// order they asked for it.
type Locker interface {
	Acquirer

	// TryAcquire grants the lock only if it is free right now.
	// Returns false without queueing otherwise.
	TryAcquire(ctx context.Context) (Releaser, bool)

	// Run acquires the lock, calls fn and releases the lock on every exit
	// path. The error returned by fn is passed through unchanged.
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides named locks.
type Service interface {
	// NewLock returns a locker for key. Lockers sharing a key exclude
	// each other.
	NewLock(key string) Locker
}

// Run is the scoped acquisition pattern built only from Acquire. Backends
// use it to implement Locker.Run.
func Run(ctx context.Context, a Acquirer, fn func(ctx context.Context) error) (err error) {
	r := a.Acquire(ctx)
	defer func() {
		if rerr := r.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(ctx)
}
