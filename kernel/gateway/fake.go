package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/dokeraj/androtainer/kernel/model"
)

// Call records one invocation of a FakeGateway method.
type Call struct {
	Method      string
	ContainerId string
	Running     bool
	Session     model.Session
}

// FakeGateway implements Gateway in memory for testing
type FakeGateway struct {
	mu         sync.Mutex
	containers model.Snapshot
	errors     map[string]error // method -> error to return
	gates      map[string]chan struct{}
	calls      []Call
	started    chan Call
}

func NewFakeGateway(containers ...model.ContainerRecord) *FakeGateway {
	return &FakeGateway{
		containers: model.Snapshot(containers).Clone(),
		errors:     make(map[string]error),
		gates:      make(map[string]chan struct{}),
		started:    make(chan Call, 64),
	}
}

func (f *FakeGateway) SetContainers(containers ...model.ContainerRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers = model.Snapshot(containers).Clone()
}

// SetError sets an error to return for a method ("List", "SetRunning", "Remove").
// A nil err clears it.
func (f *FakeGateway) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errors, method)
		return
	}
	f.errors[method] = err
}

// Hold makes subsequent calls of method wait until the returned release
// function is called or their context ends.
func (f *FakeGateway) Hold(method string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[method] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gates[method] == gate {
				delete(f.gates, method)
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Started delivers every call as it enters the fake, before any hold.
func (f *FakeGateway) Started() <-chan Call {
	return f.started
}

func (f *FakeGateway) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeGateway) List(ctx context.Context, sess model.Session) (model.Snapshot, error) {
	if err := f.enter(ctx, Call{Method: "List", Session: sess}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, exists := f.errors["List"]; exists {
		return nil, err
	}
	return f.containers.Clone(), nil
}

func (f *FakeGateway) SetRunning(ctx context.Context, sess model.Session, containerId string, running bool) error {
	if err := f.enter(ctx, Call{Method: "SetRunning", ContainerId: containerId, Running: running, Session: sess}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, exists := f.errors["SetRunning"]; exists {
		return err
	}
	i := f.containers.IndexOf(containerId)
	if i < 0 {
		return &Error{Kind: ServerError, Op: "setRunning", StatusCode: 404, Message: fmt.Sprintf("no such container: %s", containerId)}
	}
	state, status := model.Exited, "Exited (0) just now"
	if running {
		state, status = model.Running, "Up Less than a second"
	}
	f.containers = f.containers.Replace(i, f.containers[i].WithState(state).WithStatus(status))
	return nil
}

func (f *FakeGateway) Remove(ctx context.Context, sess model.Session, containerId string) error {
	if err := f.enter(ctx, Call{Method: "Remove", ContainerId: containerId, Session: sess}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, exists := f.errors["Remove"]; exists {
		return err
	}
	if f.containers.IndexOf(containerId) < 0 {
		return &Error{Kind: DomainError, Op: "remove", StatusCode: 404, Message: fmt.Sprintf("no such container: %s", containerId)}
	}
	f.containers = f.containers.Without(containerId)
	return nil
}

func (f *FakeGateway) enter(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	gate := f.gates[c.Method]
	f.mu.Unlock()

	select {
	case f.started <- c:
	default:
	}

	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return transportError(c.Method, ctx.Err())
	}
}
