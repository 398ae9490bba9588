package dialogue

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned for an agent that was never initialised.
var ErrNotFound = errors.New("agent not found")

// Store holds the current mind state and character of each agent. Values are
// copied on the way in and out; a replaced value is gone.
type Store struct {
	mu    sync.RWMutex
	minds map[string]MindState
	chars map[string]Character
}

func NewStore() *Store {
	return &Store{
		minds: make(map[string]MindState),
		chars: make(map[string]Character),
	}
}

func (s *Store) Get(agentID string) (MindState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.minds[agentID]
	if !ok {
		return MindState{}, fmt.Errorf("Get %q: %w", agentID, ErrNotFound)
	}
	return m, nil
}

func (s *Store) Character(agentID string) (Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chars[agentID]
	if !ok {
		return Character{}, fmt.Errorf("Character %q: %w", agentID, ErrNotFound)
	}
	return c.Clone(), nil
}

// Replace swaps in m as the agent's whole mind state.
func (s *Store) Replace(agentID string, m MindState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minds[agentID] = m
}

func (s *Store) ReplaceCharacter(agentID string, c Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chars[agentID] = c.Clone()
}

// commit replaces the mind state and, when c is non-nil, the character under
// one lock so readers never see half a turn.
func (s *Store) commit(agentID string, m MindState, c *Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minds[agentID] = m
	if c != nil {
		s.chars[agentID] = c.Clone()
	}
}

// Reset reinitialises the agent from seed with an empty mind state. The
// character takes agentID as its id.
func (s *Store) Reset(agentID string, seed Seed) (Character, error) {
	c, err := NewCharacterFromSeed(seed)
	if err != nil {
		return Character{}, fmt.Errorf("Reset %q: %w", agentID, err)
	}
	c.ID = agentID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minds[agentID] = MindState{}
	s.chars[agentID] = c
	return c.Clone(), nil
}
