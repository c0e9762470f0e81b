package engine

import (
	"fmt"

	"github.com/dokeraj/androtainer/kernel/model"
)

// Intent is a request from the UI layer. The set of intents is closed; the
// engine matches them exhaustively.
type Intent interface {
	isIntent()
	fmt.Stringer
}

// Direction of a StartStop intent.
type Direction int

const (
	Start Direction = iota
	Stop
)

func (d Direction) String() string {
	if d == Start {
		return "start"
	}
	return "stop"
}

// ListAll fetches the full container list for the session's endpoint.
type ListAll struct {
	Session model.Session
}

// StartStop starts or stops the record at Index of the current snapshot. The
// engine pins the record's id at dispatch and resolves the result by id. When
// Id is set, dispatch fails unless the record at Index still has that id.
type StartStop struct {
	Session   model.Session
	Index     int
	Id        string
	Direction Direction
}

// Delete removes Target, matched by id.
type Delete struct {
	Session model.Session
	Target  model.ContainerRecord
}

// Initialize seeds the engine with a list the caller already fetched.
type Initialize struct {
	Seed model.Snapshot
}

// ResetToIdle re-arms the stream with Idle.
type ResetToIdle struct{}

// ResetToCurrentSnapshot re-emits the current snapshot as Success.
type ResetToCurrentSnapshot struct{}

func (ListAll) isIntent()                {}
func (StartStop) isIntent()              {}
func (Delete) isIntent()                 {}
func (Initialize) isIntent()             {}
func (ResetToIdle) isIntent()            {}
func (ResetToCurrentSnapshot) isIntent() {}

func (i ListAll) String() string { return "ListAll(" + i.Session.String() + ")" }
func (i StartStop) String() string {
	return fmt.Sprintf("StartStop(%d, %s)", i.Index, i.Direction)
}
func (i Delete) String() string               { return "Delete(" + i.Target.Id + ")" }
func (i Initialize) String() string           { return fmt.Sprintf("Initialize(%d)", len(i.Seed)) }
func (ResetToIdle) String() string            { return "ResetToIdle" }
func (ResetToCurrentSnapshot) String() string { return "ResetToCurrentSnapshot" }
