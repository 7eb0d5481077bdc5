// Package session holds the bounded per-call conversational state for live
// phone calls.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rkaranam/concierge/backend"
	"github.com/rkaranam/concierge/models"
)

// Greeting is spoken on the transcript-free first webhook of a call.
const Greeting = "Hello! I am your AI assistant. How can I help you today?"

const preamble = "You are a helpful AI assistant on a phone call. Keep your responses concise and natural for voice conversation. Speak in a friendly, conversational tone."

// maxTurns bounds a call transcript after trimming. The system preamble is
// pinned: it is always kept first and the trailing maxTurns-1 turns fill the
// rest, so the persona survives arbitrarily long calls.
const maxTurns = 10

type callSession struct {
	mu        sync.Mutex
	turns     []models.Turn
	createdAt time.Time
}

// Store owns every active call session. All transcript access goes through
// Turn/Close; sessions for different call ids advance concurrently while
// turns for one call id are fully serialized, network call included.
type Store struct {
	generate backend.Generator
	publish  func(models.TurnEvent) error

	mu       sync.Mutex
	sessions map[string]*callSession
}

// NewStore wires the store to the conversational backend. publish may be nil
// when no transcript pipeline is attached.
func NewStore(generate backend.Generator, publish func(models.TurnEvent) error) *Store {
	return &Store{
		generate: generate,
		publish:  publish,
		sessions: make(map[string]*callSession),
	}
}

// Begin creates the session for a previously-unseen call id, seeding the
// pinned preamble. The greeting path: no backend call, no further mutation.
func (s *Store) Begin(callID string) {
	s.lookupOrCreate(callID)
}

// Turn advances the call: appends the user's speech, asks the backend with
// the session's prior transcript as context, appends the reply and trims.
// On backend failure it returns the spoken fallback and the session stays
// active for the next turn.
func (s *Store) Turn(ctx context.Context, callID, speech string) string {
	sess := s.lookupOrCreate(callID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := append([]models.Turn(nil), sess.turns...)
	sess.turns = append(sess.turns, models.Turn{Role: models.RoleUser, Content: speech})

	reply, err := s.generate.Generate(ctx, speech, history, backend.Opts{MaxTokens: 150, Temperature: 0.7})
	if err != nil {
		log.Printf("[ERROR] backend failure on call %s: %v", callID, err)
		return backend.SpokenFallback
	}

	sess.turns = append(sess.turns, models.Turn{Role: models.RoleAssistant, Content: reply})
	sess.trim()

	s.emit(callID, models.RoleUser, speech)
	s.emit(callID, models.RoleAssistant, reply)
	return reply
}

// Close removes the session for callID. No-op when absent; safe to call any
// number of times.
func (s *Store) Close(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, callID)
}

// Transcript returns a copy of the call's current transcript, or nil when
// the call is not active.
func (s *Store) Transcript(callID string) []models.Turn {
	s.mu.Lock()
	sess, ok := s.sessions[callID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]models.Turn(nil), sess.turns...)
}

func (s *Store) lookupOrCreate(callID string) *callSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[callID]; ok {
		return sess
	}
	sess := &callSession{
		turns:     []models.Turn{{Role: models.RoleSystem, Content: preamble}},
		createdAt: time.Now(),
	}
	s.sessions[callID] = sess
	return sess
}

func (s *Store) emit(callID, role, content string) {
	if s.publish == nil {
		return
	}
	if err := s.publish(models.TurnEvent{CallID: callID, Role: role, Content: content}); err != nil {
		log.Printf("[WARN] turn event for call %s not published: %v", callID, err)
	}
}

func (cs *callSession) trim() {
	if len(cs.turns) <= maxTurns {
		return
	}
	tail := cs.turns[len(cs.turns)-(maxTurns-1):]
	cs.turns = append(cs.turns[:1:1], tail...)
}
