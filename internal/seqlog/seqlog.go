// Package seqlog is a bounded, append-only log with a monotonically
// increasing cursor. Capacity eviction and sequencing are independent:
// the ring forgets old entries, the counter never goes back.
//
// Clients poll with Query(since, max) and feed the returned SeqEnd back
// as the next since. Entries evicted before a client reads them are
// skipped silently; the client receives fewer items, never an error.
package seqlog

// StampFunc writes the assigned sequence number into an entry.
type StampFunc[T any] func(entry T, seq uint64) T

type slot[T any] struct {
	seq   uint64
	entry T
}

// Log is not safe for concurrent use; callers serialize access.
type Log[T any] struct {
	buf   []slot[T]
	head  int // index of the oldest entry
	size  int
	last  uint64
	stamp StampFunc[T]
}

// Batch is the result of a Query.
type Batch[T any] struct {
	Items  []T    `json:"items"`
	SeqEnd uint64 `json:"seq_end"`
}

// New creates a log holding at most capacity entries. stamp may be nil.
func New[T any](capacity int, stamp StampFunc[T]) *Log[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Log[T]{buf: make([]slot[T], capacity), stamp: stamp}
}

// Append assigns seq = last+1, stores the entry and returns it stamped.
// The oldest entry is evicted when the log is full.
func (l *Log[T]) Append(entry T) T {
	l.last++
	if l.stamp != nil {
		entry = l.stamp(entry, l.last)
	}
	s := slot[T]{seq: l.last, entry: entry}
	if l.size < len(l.buf) {
		l.buf[(l.head+l.size)%len(l.buf)] = s
		l.size++
		return entry
	}
	l.buf[l.head] = s
	l.head = (l.head + 1) % len(l.buf)
	return entry
}

// Query returns entries with seq > since in ascending order, at most max
// of them. SeqEnd is the seq of the last returned entry, or since when
// nothing matched.
func (l *Log[T]) Query(since uint64, max int) Batch[T] {
	out := Batch[T]{Items: []T{}, SeqEnd: since}
	if max <= 0 || l.size == 0 || since >= l.last {
		return out
	}
	oldest := l.last - uint64(l.size) + 1
	skip := 0
	if since >= oldest {
		skip = int(since - oldest + 1)
	}
	n := l.size - skip
	if n > max {
		n = max
	}
	out.Items = make([]T, 0, n)
	for i := 0; i < n; i++ {
		s := l.buf[(l.head+skip+i)%len(l.buf)]
		out.Items = append(out.Items, s.entry)
		out.SeqEnd = s.seq
	}
	return out
}

// Latest returns the newest entry.
func (l *Log[T]) Latest() (T, bool) {
	var zero T
	if l.size == 0 {
		return zero, false
	}
	return l.buf[(l.head+l.size-1)%len(l.buf)].entry, true
}

// LastSeq is the seq of the most recent append, 0 before any append.
func (l *Log[T]) LastSeq() uint64 { return l.last }

// OldestSeq is the seq of the oldest retained entry, 0 when empty.
func (l *Log[T]) OldestSeq() uint64 {
	if l.size == 0 {
		return 0
	}
	return l.last - uint64(l.size) + 1
}

func (l *Log[T]) Len() int { return l.size }
func (l *Log[T]) Cap() int { return len(l.buf) }
