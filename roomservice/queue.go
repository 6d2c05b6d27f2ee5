package roomservice

import (
	"sync"

	"github.com/roomproto/room/room"
	"github.com/roomproto/room/roomcontent"
)

// MessageContext pairs an outbound message with the stream it should
// be written to. It is the unit the transmit queue carries.
type MessageContext struct {
	Stream  StreamID
	Verb    room.Verb
	Channel room.Channel
	Content roomcontent.Buffer
}

// queue is a mutex-guarded FIFO of pending outbound messages, the
// service-wide analog of the client session's response-channel queue:
// a plain locked slice, pushed at the back and popped from the front.
type queue struct {
	mu    sync.Mutex
	items []*MessageContext
}

func newQueue() *queue { return &queue{} }

func (q *queue) pushBack(ctx *MessageContext) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, ctx)
}

func (q *queue) popFront() *MessageContext {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	var ctx *MessageContext
	ctx, q.items = q.items[0], q.items[1:]
	return ctx
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// references reports whether content is still the payload of some
// other pending entry, used to decide whether popFront's caller may
// safely release it.
func (q *queue) references(content roomcontent.Buffer) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, item := range q.items {
		if item.Content == content {
			return true
		}
	}
	return false
}
