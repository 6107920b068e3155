// Copyright 2025 Wayfarer AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session implements the process-local SessionStore: a
// thread-safe mapping from userId to an ordered list of TurnRecords. No
// persistence across process restarts.
package session

import (
	"sync"

	"github.com/wayfarer-ai/roc/domain"
)

// Session is one user's turn history.
type Session struct {
	UserID string
	Turns  []domain.TurnRecord
}

// entry pairs a session with the resources that guard it: a buffered
// admission-gate channel sized to the configured per-user concurrency
// limit, and a mutex guarding the slice itself so Load/Append stay atomic
// even when more than one request for the same user is admitted at once.
type entry struct {
	admit   chan struct{}
	mu      sync.Mutex
	session Session
}

// Store is a process-local, thread-safe SessionStore. One entry per user
// (a striped map) rather than one global lock, so unrelated users never
// contend with each other.
type Store struct {
	maxHistoryTurns    int
	maxConcurrentTurns int

	mu       sync.Mutex // guards creation of new per-user entries only
	sessions map[string]*entry
}

// NewStore builds a Store that trims each user's history to
// maxHistoryTurns most-recent turns and admits at most
// maxConcurrentPerUser concurrent Handle calls for the same userId.
func NewStore(maxHistoryTurns, maxConcurrentPerUser int) *Store {
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = 10
	}
	if maxConcurrentPerUser <= 0 {
		maxConcurrentPerUser = 1
	}
	return &Store{
		maxHistoryTurns:    maxHistoryTurns,
		maxConcurrentTurns: maxConcurrentPerUser,
		sessions:           make(map[string]*entry),
	}
}

func (s *Store) entryFor(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[userID]
	if !ok {
		e = &entry{
			admit:   make(chan struct{}, s.maxConcurrentTurns),
			session: Session{UserID: userID},
		}
		s.sessions[userID] = e
	}
	return e
}

// Lock acquires one slot of the per-user admission gate and returns a
// release function. Handle calls it once at the start of a turn and
// defers the release until after Append. Up to maxConcurrentPerUser
// turns for the same userId may hold a slot at once; Load and Append
// remain individually atomic via the entry's own mutex regardless of how
// many slots are in use.
func (s *Store) Lock(userID string) func() {
	e := s.entryFor(userID)
	e.admit <- struct{}{}
	return func() { <-e.admit }
}

// Load returns a copy of userID's current turn history. Safe to call
// without holding Lock, though callers composing a read-modify-write turn
// should hold it to see a consistent admission count.
func (s *Store) Load(userID string) Session {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	turns := make([]domain.TurnRecord, len(e.session.Turns))
	copy(turns, e.session.Turns)
	return Session{UserID: userID, Turns: turns}
}

// Append adds a completed TurnRecord to userID's history and trims it to
// the configured maximum.
func (s *Store) Append(userID string, turn domain.TurnRecord) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Turns = append(e.session.Turns, turn)
	s.trimLocked(e)
}

func (s *Store) trimLocked(e *entry) {
	if len(e.session.Turns) <= s.maxHistoryTurns {
		return
	}
	overflow := len(e.session.Turns) - s.maxHistoryTurns
	e.session.Turns = e.session.Turns[overflow:]
}

// Trim explicitly re-applies the max-history-turns bound for userID; it is
// idempotent and mainly useful for tests and config-change handling.
func (s *Store) Trim(userID string) {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	s.trimLocked(e)
}
