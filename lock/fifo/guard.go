package fifo

import (
	"sync/atomic"

	"github.com/enverbisevac/fifolock/errors"
	"github.com/go-logr/logr"
)

// ErrReleased is wrapped by the error returned when a release capability is
// used more than once. Match it with errors.Is.
var ErrReleased = errors.New("fifo: lock already released")

// Guard is the release capability handed out for one grant of a Lock.
type Guard struct {
	lock     *Lock
	log      logr.Logger
	released atomic.Bool
}

func newGuard(l *Lock, log logr.Logger) *Guard {
	return &Guard{
		lock: l,
		log:  log,
	}
}

// Release gives up the lock. Only the first call has an effect; later calls
// return an error wrapping ErrReleased so a stale guard can never admit a
// second holder.
func (g *Guard) Release() error {
	if !g.released.CompareAndSwap(false, true) {
		err := errors.PreconditionFailed("%s", ErrReleased).Source(ErrReleased)
		g.log.Error(err, "in fifo Release: guard reused")
		return err
	}

	if g.lock.release() {
		g.log.V(1).Info("in fifo Release: handed off to next waiter")
	} else {
		g.log.V(1).Info("in fifo Release: lock is free")
	}
	return nil
}
