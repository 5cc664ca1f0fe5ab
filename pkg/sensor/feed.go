package sensor

import (
	"context"
	"sync"
)

// Subscription receives state updates until it is closed.
type Subscription interface {
	Updates() <-chan Update
	Close() error
}

type subscription struct {
	ch     chan Update
	closed bool
	mu     sync.RWMutex
}

func newSubscription(bufferSize int) *subscription {
	return &subscription{ch: make(chan Update, bufferSize)}
}

func (s *subscription) Updates() <-chan Update {
	return s.ch
}

func (s *subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscription) send(u Update) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- u:
		return true
	default:
		return false
	}
}

// feed fans updates out to subscribers without blocking the sender.
// Safe for concurrent use.
type feed struct {
	subs       map[*subscription]struct{}
	bufferSize int
	closed     bool
	done       chan struct{}
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup
}

func newFeed(bufferSize int) *feed {
	return &feed{
		subs:       make(map[*subscription]struct{}),
		bufferSize: max(bufferSize, 1),
		done:       make(chan struct{}),
	}
}

// subscribe registers a subscription that is removed when ctx is done or the
// feed closes. A closed feed hands out closed subscriptions.
func (f *feed) subscribe(ctx context.Context) *subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := newSubscription(f.bufferSize)
	if f.closed {
		_ = sub.Close()
		return sub
	}
	f.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		f.cleanupWg.Add(1)
		go func() {
			defer f.cleanupWg.Done()
			select {
			case <-ctx.Done():
				f.unsubscribe(sub)
			case <-f.done:
			}
		}()
	}

	return sub
}

// send delivers u to every subscriber and returns how many received it.
// Subscribers that cannot take the update are dropped.
func (f *feed) send(u Update) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return 0
	}

	delivered := 0
	for sub := range f.subs {
		if sub.send(u) {
			delivered++
			continue
		}
		go f.unsubscribe(sub)
	}
	return delivered
}

func (f *feed) close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.done)
	for sub := range f.subs {
		_ = sub.Close()
	}
	clear(f.subs)
	f.mu.Unlock()

	f.cleanupWg.Wait()
}

func (f *feed) unsubscribe(sub *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs, sub)
	_ = sub.Close()
}
