// Package bus publishes controller output to NATS.
package bus

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
)

const defaultPrefix = "motor"

var ErrNotConnected = errors.New("bus: not connected")

type Publisher struct {
	Conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("controlling_motor"))
	if err != nil {
		return nil, err
	}
	return &Publisher{Conn: conn}, nil
}

func (p *Publisher) Close() {
	if p.Conn != nil {
		p.Conn.Drain()
		p.Conn.Close()
	}
}

func (p *Publisher) Publish(subject string, payload any) error {
	if p == nil || p.Conn == nil {
		return ErrNotConnected
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.Conn.Publish(subject, data)
}

// Subjects names the subjects controller output is published on.
type Subjects struct {
	Sessions string
	Events   string
}

// NewSubjects derives subjects from a dot-separated prefix.
func NewSubjects(prefix string) Subjects {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return Subjects{
		Sessions: prefix + ".sessions",
		Events:   prefix + ".events",
	}
}
