package roomservice

import (
	"context"
	"time"
)

// idlePollInterval is how long the transmit loop sleeps when the
// queue is empty, per spec.md 4.6.2.
const idlePollInterval = 100 * time.Millisecond

// transmitLoop drains the shared transmit queue until its context is
// cancelled. It is the single writer for every attached stream's
// codec, so no stream needs its own write-side mutex.
func (s *Service) transmitLoop(ctx context.Context) {
	defer s.wg.Done()
	trace := ContextTrace(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item := s.q.popFront()
		if item == nil {
			select {
			case <-time.After(idlePollInterval):
			case <-ctx.Done():
				return
			}
			continue
		}

		start := time.Now()
		if err := s.onSend(ctx, item.Stream, item); err != nil {
			trace.Error("transmit", item.Stream, err)
		} else {
			trace.MessageSent(item.Stream, item.Verb.String(), item.Channel.String(), time.Since(start))
		}

		if !s.q.references(item.Content) {
			_ = item.Content.Release()
		}
	}
}
