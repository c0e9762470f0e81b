package store

import (
	"sync"

	"github.com/dokeraj/androtainer/kernel/model"
)

// MemoryStore is the in-memory SnapshotStore. Nothing survives the process.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot model.Snapshot
	seqs     map[string]uint64 // key -> latest issued
	counter  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshot: model.Snapshot{},
		seqs:     make(map[string]uint64),
	}
}

func (s *MemoryStore) Current() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent concurrent modification
	return s.snapshot.Clone()
}

func (s *MemoryStore) Replace(snapshot model.Snapshot) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snapshot.Clone()
	return s.snapshot.Clone()
}

// NextSeq draws from one counter shared by all keys, so numbers are also
// monotonic across keys.
func (s *MemoryStore) NextSeq(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	s.seqs[key] = s.counter
	return s.counter
}

func (s *MemoryStore) IsCurrent(key string, seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seqs[key] == seq
}
