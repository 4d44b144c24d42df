// Package preview serves a profile page locally and rebuilds it when its
// source file changes.
package preview

import (
	"sync"

	"github.com/nfrund/denote/internal/artifact"
)

// Slot holds the artifact currently being served. It is safe for one writer
// and any number of readers.
type Slot struct {
	mu      sync.RWMutex
	current *artifact.Artifact
}

// NewSlot creates a Slot holding a.
func NewSlot(a *artifact.Artifact) *Slot {
	return &Slot{current: a}
}

// Current implements artifact.Source.
func (s *Slot) Current() *artifact.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the served artifact.
func (s *Slot) Set(a *artifact.Artifact) {
	s.mu.Lock()
	s.current = a
	s.mu.Unlock()
}
