// Package events publishes order lifecycle events.
package events

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Publisher sends one event. id is the message id consumers dedupe on.
type Publisher interface {
	Publish(ctx context.Context, id, topic string, payload []byte) error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(_ context.Context, id, topic string, _ []byte) error {
	log.Debugf("[Events] Dropping %s (%s), no broker configured", topic, id)
	return nil
}

// Message is an event kept by Memory
type Message struct {
	ID      string
	Topic   string
	Payload []byte
}

// Memory keeps published events in process. Used in tests and local runs.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func (m *Memory) Publish(_ context.Context, id, topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{ID: id, Topic: topic, Payload: append([]byte(nil), payload...)})
	return nil
}

// Messages returns a copy of everything published so far
func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// Topics lists the topics in publish order
func (m *Memory) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		topics = append(topics, msg.Topic)
	}
	return topics
}
