package roomservice

import (
	"context"
	"io"
	"time"
)

// listenLoop reads messages from one attached stream until the stream
// context is cancelled, the transport dies, or a framing/transport
// error terminates it. It implements the soft, content-bytes-only
// token-bucket rate limiter from spec.md 4.6.1 verbatim, including its
// growth behaviour under sustained overage: the sleep duration is
// proportional to the *current* accumulated rate rather than the
// excess over the limit, so a sufficiently abusive peer can make the
// sleep grow every message within a window rather than settling at a
// fixed backoff. That is intentional: this loop preserves the
// reference behaviour rather than "fixing" it.
func (s *Service) listenLoop(ctx context.Context, st *stream) {
	defer s.wg.Done()

	trace := ContextTrace(ctx)
	trace.StreamStarted(st.id)

	var loopErr error
	defer func() {
		s.mu.Lock()
		delete(s.streams, st.id)
		s.mu.Unlock()
		if st.cancel != nil {
			st.cancel()
		}
		st.codec.Dispose()
		trace.StreamStopped(st.id, loopErr)
	}()

	// None of the Transport implementations honour context cancellation
	// on their own: a Read blocks on the underlying socket/pipe/conn
	// regardless of ctx. This watcher force-closes the transport the
	// moment ctx is cancelled, which is the only way to unblock a
	// ReadMessage call parked inside codec.ReadMessage -> transport.Read.
	// stopWatcher lets the watcher exit without closing the transport
	// when the loop instead ends on its own (EOF, dead transport,
	// framing error), so it never closes a transport the loop is about
	// to walk away from anyway.
	stopWatcher := make(chan struct{})
	defer close(stopWatcher)
	go func() {
		select {
		case <-ctx.Done():
			_ = st.transport.Close()
		case <-stopWatcher:
		}
	}()

	windowStart := time.Now()
	var rate int64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !st.transport.IsAlive() {
			return
		}

		msg, err := st.codec.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				// ctx cancellation forced the transport closed to
				// unblock this read; whatever error that produced is
				// an artifact of shutdown, not a failure worth tracing.
				return
			default:
			}
			if err != io.EOF {
				loopErr = err
				trace.Error("listen", st.id, err)
			}
			return
		}

		if elapsed := time.Since(windowStart); elapsed >= time.Second {
			rate = 0
			windowStart = time.Now()
		}
		rate += msg.Content.Len()

		if max := s.cfg.Service.MaxStreamRate; max > 0 && rate > max {
			sleep := time.Duration(float64(rate) / float64(max) * float64(time.Second))
			trace.RateLimited(st.id, sleep)
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return
			}
		}

		start := time.Now()
		if s.onReceive != nil {
			s.onReceive(ctx, st.id, msg)
		}
		trace.MessageReceived(st.id, msg.Verb.String(), msg.Channel.String(), time.Since(start))

		if !s.q.references(msg.Content) {
			_ = msg.Content.Release()
		}
	}
}
