package engine

import (
	"github.com/dokeraj/androtainer/kernel/model"
)

// Outcome is what the engine publishes. The set is closed: Loading, Success,
// Error, ItemLoading, ItemSuccess, ItemError, DeleteLoading, DeleteSuccess, Idle.
type Outcome interface {
	isOutcome()
	Kind() string
}

type Loading struct{}

type Success struct {
	Snapshot model.Snapshot
}

type Error struct {
	Cause error
}

type ItemLoading struct {
	Snapshot model.Snapshot
	Index    int
}

type ItemSuccess struct {
	Snapshot model.Snapshot
	Index    int
}

type ItemError struct {
	Snapshot model.Snapshot
	Index    int
	Cause    error
}

type DeleteLoading struct {
	Snapshot model.Snapshot
	Target   model.ContainerRecord
}

// DeleteSuccess is returned to the dispatcher of a Delete; subscribers see the
// shortened list as Success.
type DeleteSuccess struct {
	Snapshot model.Snapshot
	Target   model.ContainerRecord
}

type Idle struct{}

func (Loading) isOutcome()       {}
func (Success) isOutcome()       {}
func (Error) isOutcome()         {}
func (ItemLoading) isOutcome()   {}
func (ItemSuccess) isOutcome()   {}
func (ItemError) isOutcome()     {}
func (DeleteLoading) isOutcome() {}
func (DeleteSuccess) isOutcome() {}
func (Idle) isOutcome()          {}

func (Loading) Kind() string       { return "loading" }
func (Success) Kind() string       { return "success" }
func (Error) Kind() string         { return "error" }
func (ItemLoading) Kind() string   { return "item_loading" }
func (ItemSuccess) Kind() string   { return "item_success" }
func (ItemError) Kind() string     { return "item_error" }
func (DeleteLoading) Kind() string { return "delete_loading" }
func (DeleteSuccess) Kind() string { return "delete_success" }
func (Idle) Kind() string          { return "idle" }

// SnapshotOf returns the snapshot carried by an outcome, if any.
func SnapshotOf(o Outcome) (model.Snapshot, bool) {
	switch v := o.(type) {
	case Success:
		return v.Snapshot, true
	case ItemLoading:
		return v.Snapshot, true
	case ItemSuccess:
		return v.Snapshot, true
	case ItemError:
		return v.Snapshot, true
	case DeleteLoading:
		return v.Snapshot, true
	case DeleteSuccess:
		return v.Snapshot, true
	case Loading, Error, Idle:
		return nil, false
	default:
		return nil, false
	}
}

// CauseOf returns the failure carried by Error or ItemError.
func CauseOf(o Outcome) error {
	switch v := o.(type) {
	case Error:
		return v.Cause
	case ItemError:
		return v.Cause
	default:
		return nil
	}
}

// IsTerminal reports whether o ends an intent (as opposed to a loading step).
func IsTerminal(o Outcome) bool {
	switch o.(type) {
	case Loading, ItemLoading, DeleteLoading:
		return false
	default:
		return true
	}
}
