package journal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Reader streams entries back from a journal file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
}

func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f)}, nil
}

// Next returns the next entry, or io.EOF at the end of the file.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	if err := r.decoder.Decode(&e); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, err
	}
	return e, nil
}

func (r *Reader) Close() error {
	return r.file.Close()
}

// Summary counts what a journal file holds.
type Summary struct {
	Events     int
	Sessions   int
	LastRecord time.Time
}

// Scan walks the journal at path and counts its entries. A missing file is
// an empty journal. On a decode error the counts up to the bad entry are
// returned with the error.
func Scan(path string) (Summary, error) {
	var sum Summary
	r, err := NewReader(path)
	if errors.Is(err, fs.ErrNotExist) {
		return sum, nil
	}
	if err != nil {
		return sum, err
	}
	defer r.Close()

	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, fmt.Errorf("entry %d: %w", sum.Events+sum.Sessions+1, err)
		}
		switch e.Kind {
		case KindEvent:
			sum.Events++
		case KindSession:
			sum.Sessions++
		}
		sum.LastRecord = e.RecordedAt
	}
}
