// Package session holds per-session conversational memory. Transcripts live
// in process memory for the lifetime of the service and are never expired,
// so a long-running deployment accumulates one entry per session ever seen.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/answerhive/answerd/internal/domain"
)

// Store maps opaque session identifiers to bounded conversation transcripts.
// All operations are safe for concurrent use; an append-and-trim sequence on
// one session cannot interleave with another operation on the same session.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]domain.Turn
	maxTurns int
}

// NewStore creates a Store that caps each transcript at maxTurns entries.
func NewStore(maxTurns int) *Store {
	return &Store{
		sessions: make(map[string][]domain.Turn),
		maxTurns: maxTurns,
	}
}

// GetOrCreate resolves a session identifier. An empty id yields a freshly
// generated UUID; an unknown id (given or generated) gets an empty transcript.
// Calling it again with a known id is a no-op returning the same id.
func (s *Store) GetOrCreate(id string) string {
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = nil
	}
	return id
}

// AppendTurn appends one turn to the session's transcript. Appending to an
// unknown session creates it first rather than failing.
func (s *Store) AppendTurn(id, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append(s.sessions[id], domain.Turn{Role: role, Content: content})
}

// AppendExchange appends a user query and the assistant's answer as one
// atomic pair and trims the transcript. Other goroutines observe either both
// turns or neither.
func (s *Store) AppendExchange(id, query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append(s.sessions[id],
		domain.Turn{Role: domain.RoleUser, Content: query},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	s.sessions[id] = trimmed(s.sessions[id], s.maxTurns)
}

// Trim bounds the session's transcript to maxTurns entries, evicting from the
// front. A leading system turn survives eviction: when over the cap, the
// result is that system turn plus the most recent maxTurns-1 entries.
func (s *Store) Trim(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = trimmed(s.sessions[id], s.maxTurns)
}

func trimmed(turns []domain.Turn, max int) []domain.Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	if turns[0].Role == domain.RoleSystem {
		kept := make([]domain.Turn, 0, max)
		kept = append(kept, turns[0])
		kept = append(kept, turns[len(turns)-(max-1):]...)
		return kept
	}
	return turns[len(turns)-max:]
}

// Transcript returns a copy of the session's transcript in chronological
// order. Unknown sessions yield an empty transcript.
func (s *Store) Transcript(id string) []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.sessions[id]
	copied := make([]domain.Turn, len(turns))
	copy(copied, turns)
	return copied
}

// Len returns the current transcript length for a session.
func (s *Store) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[id])
}

// Reset clears the transcript for a session, keeping the session itself.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		s.sessions[id] = nil
	}
}
