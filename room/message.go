package room

import "github.com/roomproto/room/roomcontent"

// Message is the wire-level unit the codec reads and writes: a Verb
// naming the message kind, a Channel routing it, and a Content stream
// holding exactly Count bytes.
//
// After a successful read, ownership of Content passes to the caller;
// the codec retains no reference to it. A zero-length Content is the
// shared null buffer and need not be closed, but calling Close/Release
// on it is always safe.
type Message struct {
	Verb    Verb
	Channel Channel
	Content roomcontent.Buffer
}
