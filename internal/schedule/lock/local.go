package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type slot struct {
	token chan struct{}
	refs  int
}

// LocalLocker is an in-process keyed lock for single-replica deployments.
// Slots are removed once nobody holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

// NewLocalLocker returns a locker that waits at most wait for a held key.
// A zero wait relies on the caller's context alone.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		slots: make(map[string]*slot),
		wait:  wait,
	}
}

// Lock blocks until key is free, the wait elapses or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquireSlot(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case s.token <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, s)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.token
			l.releaseSlot(key, s)
		})
	}, nil
}

func (l *LocalLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{token: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Len returns the number of keys currently held or awaited.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
