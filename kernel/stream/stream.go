package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Observer receives values in publish order on the subscription's own
// goroutine. A slow observer only delays itself.
type Observer[T any] func(T)

// Stream is a hot multicast channel that replays the most recent value to new
// subscribers. Publish never blocks on subscribers.
type Stream[T any] struct {
	mu          sync.Mutex
	latest      T
	hasLatest   bool
	closed      bool
	subscribers cmap.ConcurrentMap[string, *subscription[T]]
}

func New[T any]() *Stream[T] {
	return &Stream[T]{
		subscribers: cmap.New[*subscription[T]](),
	}
}

// Publish records v as the latest value and queues it for every subscriber.
// Publishing on a closed stream is a no-op.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.latest = v
	s.hasLatest = true
	for item := range s.subscribers.IterBuffered() {
		item.Val.push(v)
	}
}

// Latest returns the most recently published value.
func (s *Stream[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasLatest
}

// Subscribe registers observer. If a value was already published, the observer
// receives it first. The returned function cancels the subscription; values
// still queued at that point are dropped.
func (s *Stream[T]) Subscribe(observer Observer[T]) (unsubscribe func()) {
	sub := newSubscription(uuid.NewString(), observer, nil)
	s.register(sub)
	return func() { s.remove(sub) }
}

// Updates delivers values on a channel until ctx ends or the stream closes,
// after which the channel is closed.
func (s *Stream[T]) Updates(ctx context.Context) <-chan T {
	ch := make(chan T)
	sub := newSubscription[T](uuid.NewString(), nil, func() { close(ch) })
	sub.observer = func(v T) {
		select {
		case ch <- v:
		case <-ctx.Done():
		case <-sub.cancelled:
		}
	}
	s.register(sub)

	go func() {
		select {
		case <-ctx.Done():
			s.remove(sub)
		case <-sub.done:
		}
	}()
	return ch
}

func (s *Stream[T]) SubscriberCount() int {
	return s.subscribers.Count()
}

// Close stops every subscription once its queue is drained. Later Subscribe
// calls return subscriptions that end immediately.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for item := range s.subscribers.IterBuffered() {
		item.Val.finish(false)
		s.subscribers.Remove(item.Key)
	}
}

func (s *Stream[T]) register(sub *subscription[T]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.finish(false)
		go sub.run()
		return
	}
	if s.hasLatest {
		sub.push(s.latest)
	}
	s.subscribers.Set(sub.id, sub)
	s.mu.Unlock()

	go sub.run()
}

func (s *Stream[T]) remove(sub *subscription[T]) {
	s.subscribers.Remove(sub.id)
	sub.finish(true)
}

type subscription[T any] struct {
	id        string
	observer  Observer[T]
	onStop    func()
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []T
	closing   bool
	cancelled chan struct{}
	done      chan struct{}
	once      sync.Once
}

func newSubscription[T any](id string, observer Observer[T], onStop func()) *subscription[T] {
	sub := &subscription[T]{
		id:        id,
		observer:  observer,
		onStop:    onStop,
		cancelled: make(chan struct{}),
		done:      make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)
	return sub
}

func (sub *subscription[T]) push(v T) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closing {
		return
	}
	sub.queue = append(sub.queue, v)
	sub.cond.Signal()
}

// finish ends the subscription. With drop set, queued values are discarded;
// otherwise they are delivered first.
func (sub *subscription[T]) finish(drop bool) {
	sub.once.Do(func() {
		sub.mu.Lock()
		sub.closing = true
		if drop {
			sub.queue = nil
			close(sub.cancelled)
		}
		sub.cond.Broadcast()
		sub.mu.Unlock()
	})
}

func (sub *subscription[T]) run() {
	defer func() {
		if sub.onStop != nil {
			sub.onStop()
		}
		close(sub.done)
	}()

	for {
		sub.mu.Lock()
		for len(sub.queue) == 0 && !sub.closing {
			sub.cond.Wait()
		}
		if len(sub.queue) == 0 {
			sub.mu.Unlock()
			return
		}
		v := sub.queue[0]
		var zero T
		sub.queue[0] = zero
		sub.queue = sub.queue[1:]
		sub.mu.Unlock()

		sub.observer(v)
	}
}
