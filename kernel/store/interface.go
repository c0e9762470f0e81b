package store

import "github.com/dokeraj/androtainer/kernel/model"

// ListKey is the sequence key for whole-list replacements (ListAll, Initialize).
const ListKey = "*list"

// SnapshotStore holds the client's current container list and the sequence
// numbers used to recognise stale asynchronous results.
type SnapshotStore interface {
	// Current returns a copy of the current snapshot.
	Current() model.Snapshot
	// Replace swaps the current snapshot wholesale and returns the stored copy.
	Replace(s model.Snapshot) model.Snapshot
	// NextSeq issues a new sequence number for key; it becomes the current one.
	NextSeq(key string) uint64
	// IsCurrent reports whether seq is still the latest issued for key.
	IsCurrent(key string, seq uint64) bool
}
