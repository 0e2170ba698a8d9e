// Package conversation holds the append-only message log of one chat session.
package conversation

import (
	"sync"

	"github.com/ecrypto/chatclient/internal/models"
)

// Store is an ordered, append-only sequence of messages.
// Messages are never removed, reordered or modified once appended.
type Store struct {
	mu        sync.RWMutex
	messages  []models.Message
	observers []func(models.Message)
}

// NewStore creates an empty conversation
func NewStore() *Store {
	return &Store{}
}

// Append adds msg at the end of the conversation and notifies observers.
// Observers run after the lock is released, in registration order.
func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	observers := make([]func(models.Message), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(msg)
	}
}

// AppendIf appends msg only when ok reports true. ok is evaluated under the
// store lock, so it may not call back into the store. Observers run as for Append.
func (s *Store) AppendIf(msg models.Message, ok func() bool) bool {
	s.mu.Lock()
	if !ok() {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, msg)
	observers := make([]func(models.Message), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(msg)
	}
	return true
}

// OnAppend registers fn to be called after every Append
func (s *Store) OnAppend(fn func(models.Message)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Messages returns a snapshot of the conversation in insertion order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the newest message, if any
func (s *Store) Last() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastFrom returns the newest message sent by sender, if any
func (s *Store) LastFrom(sender models.Sender) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == sender {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}
