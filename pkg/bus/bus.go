// Package bus implements a small keyed publish/subscribe bus. Messages
// are fanned out to global subscribers and to subscribers of the message
// key. Subscriptions are bound to a context and are removed when it is
// cancelled.
package bus

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

type Message[K comparable, M any] struct {
	Key     K
	Message M
}

type Publisher[M any] func(ctx context.Context, msg M)

type Bus[K comparable, M any] struct {
	log   *zap.Logger
	ready chan struct{}

	ch         chan Message[K, M]
	keySubs    *xsync.MapOf[K, map[chan Message[K, M]]struct{}]
	globalSubs *xsync.MapOf[chan Message[K, M], struct{}]
}

func NewBus[K comparable, M any](logger *zap.Logger) *Bus[K, M] {
	return &Bus[K, M]{
		log:        logger,
		ready:      make(chan struct{}),
		ch:         make(chan Message[K, M]),
		keySubs:    xsync.NewMapOf[K, map[chan Message[K, M]]struct{}](),
		globalSubs: xsync.NewMapOf[chan Message[K, M], struct{}](),
	}
}

func (b *Bus[K, M]) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-b.ch:
				b.process(ctx, msg)
			}
		}
	}()
	close(b.ready)
	return nil
}

func (b *Bus[K, M]) Ready() <-chan struct{} {
	return b.ready
}

func (b *Bus[K, M]) Publish(ctx context.Context, key K, msg M) {
	select {
	case <-ctx.Done():
		return
	case b.ch <- Message[K, M]{key, msg}:
	}
}

func (b *Bus[K, M]) CreatePublisher(key K) Publisher[M] {
	return func(ctx context.Context, msg M) {
		b.Publish(ctx, key, msg)
	}
}

func (b *Bus[K, M]) process(ctx context.Context, msg Message[K, M]) {
	b.globalSubs.Range(func(sub chan Message[K, M], _ struct{}) bool {
		select {
		case <-ctx.Done():
			return false
		case sub <- msg:
		}
		return true
	})
	subs, ok := b.keySubs.Load(msg.Key)
	if !ok {
		return
	}
	for sub := range subs {
		select {
		case <-ctx.Done():
			return
		case sub <- msg:
		}
	}
}

// Subscribe returns a channel receiving every message published for the
// given keys, or every message when no key is given. The channel is
// closed when ctx is cancelled.
func (b *Bus[K, M]) Subscribe(ctx context.Context, keys ...K) <-chan Message[K, M] {
	ch := make(chan Message[K, M])
	if len(keys) == 0 {
		b.globalSubs.Store(ch, struct{}{})
		go func() {
			<-ctx.Done()
			close(ch)
			b.globalSubs.Delete(ch)
		}()
		return ch
	}
	for _, k := range keys {
		b.keySubs.Compute(k, func(val map[chan Message[K, M]]struct{}, ok bool) (map[chan Message[K, M]]struct{}, bool) {
			if !ok {
				val = make(map[chan Message[K, M]]struct{}, 8)
			}
			val[ch] = struct{}{}
			return val, false
		})
	}
	go func() {
		<-ctx.Done()
		close(ch)
		for _, k := range keys {
			b.keySubs.Compute(k, func(val map[chan Message[K, M]]struct{}, ok bool) (map[chan Message[K, M]]struct{}, bool) {
				delete(val, ch)
				return val, false
			})
		}
	}()
	return ch
}
