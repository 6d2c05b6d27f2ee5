// Package roomservice composes one or more live roomcodec.Codec
// instances with application logic: a per-stream listen loop reading
// inbound messages with a soft ingress rate limit, and a single shared
// transmit loop draining a process-wide FIFO of outbound messages.
package roomservice

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/roomproto/room/room"
	"github.com/roomproto/room/roomcodec"
	"github.com/roomproto/room/roomtransport"
)

// StreamID identifies one attached stream for the lifetime of its
// listen loop. NewStreamID mints one from a random UUID; callers that
// already have their own correlation identifier may use any string.
type StreamID string

// NewStreamID mints a new random stream identifier.
func NewStreamID() StreamID { return StreamID(uuid.NewString()) }

// ReceiveHandler is invoked once per inbound message, after it has
// been framed and validated, and before any rate-limit sleep for the
// message that follows it.
type ReceiveHandler func(ctx context.Context, stream StreamID, msg *room.Message)

// SendHandler performs the actual write for one outbound message; the
// default wraps the stream's own codec.WriteMessage. Overriding it
// lets a caller transform a message before it reaches the wire.
type SendHandler func(ctx context.Context, stream StreamID, msg *MessageContext) error

// stream bundles the live codec/transport pair a listen loop owns.
type stream struct {
	id        StreamID
	transport roomtransport.Transport
	codec     *roomcodec.Codec
	cancel    context.CancelFunc
}

// Service runs the listen loops for every attached stream plus one
// shared transmit loop, per spec.md's service-loop design. Its
// lifecycle is governed by two flags, running and disposed: Start sets
// running and spawns the transmit loop, Stop clears running, and
// Dispose clears both and releases every attached stream.
type Service struct {
	cfg *room.Config

	onReceive ReceiveHandler
	onSend    SendHandler

	mu       sync.Mutex
	streams  map[StreamID]*stream
	running  bool
	disposed bool

	ctx    context.Context
	cancel context.CancelFunc

	q  *queue
	wg sync.WaitGroup
}

// New constructs a Service configured by cfg (room.NewConfig() if nil)
// and the supplied receive handler. onSend defaults to a handler that
// writes through the target stream's own codec; pass a non-nil
// SendHandler to override it.
func New(cfg *room.Config, onReceive ReceiveHandler, onSend SendHandler) *Service {
	if cfg == nil {
		cfg = room.NewConfig()
	}
	s := &Service{
		cfg:       cfg,
		onReceive: onReceive,
		streams:   make(map[StreamID]*stream),
		q:         newQueue(),
	}
	if onSend != nil {
		s.onSend = onSend
	} else {
		s.onSend = s.defaultSend
	}
	return s
}

func (s *Service) defaultSend(_ context.Context, stream StreamID, msg *MessageContext) error {
	s.mu.Lock()
	st, ok := s.streams[stream]
	s.mu.Unlock()
	if !ok {
		return room.ErrNotRunning
	}
	return st.codec.WriteMessage(msg.Verb, msg.Channel, msg.Content)
}

// Start marks the service running and launches the shared transmit
// loop. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return room.ErrDisposed
	}
	if s.running {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, st := range s.streams {
		loopCtx, cancel := context.WithCancel(s.ctx)
		st.cancel = cancel
		s.wg.Add(1)
		go s.listenLoop(loopCtx, st)
	}

	s.wg.Add(1)
	go s.transmitLoop(s.ctx)
	return nil
}

// Stop clears the running flag and cancels every active listen loop
// and the transmit loop, then blocks until they have all exited.
// Cancellation force-closes each stream's transport, since none of the
// Transport implementations honour ctx on their own and a blocked Read
// would otherwise hang Stop forever; a stream whose transport is closed
// out from under it this way cannot be resumed, so Stop also detaches
// every stream it stops (see listenLoop's cleanup). The transmit queue
// itself is left intact.
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return room.ErrDisposed
	}
	if !s.running {
		s.mu.Unlock()
		return room.ErrNotRunning
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return nil
}

// Dispose stops the service if running, detaches every stream, and
// marks the service permanently unusable.
func (s *Service) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	running := s.running
	s.mu.Unlock()

	if running {
		if err := s.Stop(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.streams {
		st.codec.Dispose()
		delete(s.streams, id)
	}
	s.disposed = true
	return nil
}

// Attach registers a new stream and, if the service is running,
// immediately starts its listen loop. The codec is constructed over
// transport using the service's configured StreamOptions.
func (s *Service) Attach(id StreamID, transport roomtransport.Transport, options ...roomcodec.Option) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return room.ErrDisposed
	}
	if _, exists := s.streams[id]; exists {
		s.mu.Unlock()
		return newDuplicateStreamError(id)
	}

	opts := append([]roomcodec.Option{
		roomcodec.WithReadBufferSize(s.cfg.Stream.ReadBufferSize),
		roomcodec.WithWriteBufferSize(s.cfg.Stream.WriteBufferSize),
		roomcodec.WithMaxVerbLength(s.cfg.Stream.MaxVerbLength),
		roomcodec.WithMaxChannelLength(s.cfg.Stream.MaxChannelLength),
		roomcodec.WithMaxCountLength(s.cfg.Stream.MaxCountLength),
		roomcodec.WithMaxContentLength(s.cfg.Stream.MaxContentLength),
		roomcodec.WithMaxFastBuffering(s.cfg.Stream.MaxFastBuffering),
		roomcodec.WithTempContentFolder(s.cfg.Stream.TempContentFolder),
	}, options...)

	st := &stream{
		id:        id,
		transport: transport,
		codec:     roomcodec.New(transport, transport, opts...),
	}

	running := s.running
	var loopCtx context.Context
	if running {
		loopCtx, st.cancel = context.WithCancel(s.ctx)
	}
	s.streams[id] = st
	s.mu.Unlock()

	if running {
		s.wg.Add(1)
		go s.listenLoop(loopCtx, st)
	}
	return nil
}

// Detach cancels the stream's listen loop, if running, and removes it
// from the service. If a listen loop owns the stream, cancellation
// force-closes its transport and the loop's own cleanup disposes the
// codec once that unblocks it; disposing it here too, from this
// goroutine, would race the loop's concurrent use of it. A stream
// attached while the service was never started has no loop to do that,
// so Detach disposes it directly in that case.
func (s *Service) Detach(id StreamID) error {
	s.mu.Lock()
	st, ok := s.streams[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.streams, id)
	owned := st.cancel != nil
	s.mu.Unlock()

	if owned {
		st.cancel()
		return nil
	}
	st.codec.Dispose()
	return nil
}

// Enqueue appends msg to the shared transmit queue. Enqueue itself
// never blocks; the transmit loop picks messages up asynchronously.
func (s *Service) Enqueue(msg *MessageContext) error {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return room.ErrDisposed
	}
	s.q.pushBack(msg)
	return nil
}
