package model

// Snapshot is the ordered list of containers as currently known to the client,
// optimistic edits included. Snapshots are never modified in place; every
// mutating helper returns a new slice.
type Snapshot []ContainerRecord

func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// IndexOf returns the position of the record with the given id, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i, r := range s {
		if r.Id == id {
			return i
		}
	}
	return -1
}

// Replace returns a copy with the record at index swapped for r.
func (s Snapshot) Replace(index int, r ContainerRecord) Snapshot {
	out := s.Clone()
	out[index] = r
	return out
}

// Without returns a copy with every record matching id removed.
func (s Snapshot) Without(id string) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, r := range s {
		if r.Id != id {
			out = append(out, r)
		}
	}
	return out
}

func (s Snapshot) AnyTransitioning() bool {
	for _, r := range s {
		if r.IsTransitioning() {
			return true
		}
	}
	return false
}

// Lookup resolves a reference that is either a container id, an id prefix of
// at least 4 characters, or a container name.
func (s Snapshot) Lookup(ref string) (int, bool) {
	if ref == "" {
		return -1, false
	}
	if i := s.IndexOf(ref); i >= 0 {
		return i, true
	}
	for i, r := range s {
		if r.Name == ref {
			return i, true
		}
	}
	if len(ref) >= 4 {
		found := -1
		for i, r := range s {
			if len(r.Id) >= len(ref) && r.Id[:len(ref)] == ref {
				if found >= 0 {
					return -1, false
				}
				found = i
			}
		}
		if found >= 0 {
			return found, true
		}
	}
	return -1, false
}
