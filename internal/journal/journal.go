// Package journal keeps an append-only CBOR record of controller events
// and finalized sessions on local disk.
package journal

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"

	"controlling_motor/internal/models"
)

// Kind tags what an Entry carries.
type Kind uint8

const (
	KindEvent   Kind = 1
	KindSession Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "event"
	case KindSession:
		return "session"
	}
	return "unknown"
}

// Entry is one journal record. Exactly one of Event and Session is set.
type Entry struct {
	Kind       Kind            `cbor:"1,keyasint"`
	RecordedAt time.Time       `cbor:"2,keyasint"`
	Event      *models.Event   `cbor:"3,keyasint,omitempty"`
	Session    *models.Session `cbor:"4,keyasint,omitempty"`
}

var ErrClosed = errors.New("journal is closed")

// File appends entries to a file. Safe for concurrent use.
type File struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
	now     func() time.Time
}

// Open appends to path, creating it with mode 0644 when missing.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &File{
		file:    f,
		encoder: NewEncoder(f),
		now:     time.Now,
	}, nil
}

func (j *File) WriteEvent(ev models.Event) error {
	return j.write(Entry{Kind: KindEvent, Event: &ev})
}

func (j *File) WriteSession(s models.Session) error {
	return j.write(Entry{Kind: KindSession, Session: &s})
}

func (j *File) write(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	e.RecordedAt = j.now().UTC()
	return j.encoder.Encode(e)
}

// Close is safe to call more than once.
func (j *File) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
