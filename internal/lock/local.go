package lock

import (
	"context"
	"sync"
	"time"
)

// Local is an in-process Locker. Each key has a one-slot channel; holders
// are reference counted so idle keys do not accumulate.
type Local struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocal creates a Local locker. wait <= 0 waits until ctx ends.
func NewLocal(wait time.Duration) *Local {
	return &Local{wait: wait, slots: make(map[string]*localSlot)}
}

// Lock blocks until key is free, wait elapses (ErrTimeout), or ctx ends.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.ref(key)

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key)
		return nil, ctx.Err()
	case <-timeout:
		l.unref(key)
		return nil, ErrTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.unref(key)
		})
	}, nil
}

func (l *Local) ref(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Local) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.slots[key]; ok {
		s.refs--
		if s.refs == 0 {
			delete(l.slots, key)
		}
	}
}
