// Package msgidbuffer remembers the most recent message ids so that
// retransmitted datagrams are only acted on once.
package msgidbuffer

// MessageIDBuffer holds the last size ids. Adding beyond that overwrites
// the oldest id first.
type MessageIDBuffer struct {
	messageIDs []uint64
	size       int
	index      int
}

func New(capacity int) *MessageIDBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &MessageIDBuffer{messageIDs: make([]uint64, capacity)}
}

func (buf *MessageIDBuffer) Add(id uint64) {
	buf.messageIDs[buf.index] = id
	buf.index = (buf.index + 1) % len(buf.messageIDs)
	if buf.size < len(buf.messageIDs) {
		buf.size++
	}
}

func (buf *MessageIDBuffer) Contains(id uint64) bool {
	for i := 0; i < buf.size; i++ {
		if buf.messageIDs[i] == id {
			return true
		}
	}
	return false
}

// Seen adds id and reports whether it was already present.
func (buf *MessageIDBuffer) Seen(id uint64) bool {
	if buf.Contains(id) {
		return true
	}
	buf.Add(id)
	return false
}
