package engine

import (
	"context"
	"sync"

	"github.com/dokeraj/androtainer/kernel/gateway"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/dokeraj/androtainer/kernel/store"
	"github.com/dokeraj/androtainer/kernel/stream"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrAlreadyTransitioning = errors.New("an operation is already in flight for this container")
	ErrEmptyTarget          = errors.New("delete target has no id")
	ErrTargetMoved          = errors.New("container is no longer at the requested index")
	ErrClosed               = errors.New("engine closed")
)

const (
	StatusStarting = "Starting"
	StatusExiting  = "Exiting"
	StatusStarted  = "Started just now"
	StatusExited   = "Exited just now"
	StatusRetry    = "Refresh to retry"
)

type Options struct {
	// DiscardStale drops a result when a newer operation was issued for the
	// same target (container id, or the whole list) while it was in flight.
	DiscardStale bool
	// AddressByIndex resolves StartStop results at the index the intent was
	// issued for instead of looking the container up by id.
	AddressByIndex bool
}

func DefaultOptions() Options {
	return Options{DiscardStale: true}
}

func OptionsFromConfig(cfg *model.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{DiscardStale: cfg.GetDiscardStale(), AddressByIndex: cfg.AddressByIndex}
}

// Engine turns intents into outcomes on its stream and owns the current
// snapshot. Intents run concurrently; only the emissions are serialised.
type Engine struct {
	gateway  gateway.Gateway
	store    store.SnapshotStore
	stream   *stream.Stream[Outcome]
	options  Options
	mu       sync.Mutex
	closed   bool
	inflight errgroup.Group
}

func NewEngine(gw gateway.Gateway, s store.SnapshotStore, options Options) *Engine {
	return &Engine{
		gateway: gw,
		store:   s,
		stream:  stream.New[Outcome](),
		options: options,
	}
}

// Dispatch applies intent. Loading outcomes are emitted before Dispatch
// returns; gateway calls continue in the background under ctx. The returned
// channel yields the intent's terminal outcome, or is closed empty when the
// result was discarded as stale.
func (e *Engine) Dispatch(ctx context.Context, intent Intent) (<-chan Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatch(ctx, intent)
}

// Refresh dispatches ListAll unless a record is transitioning, in which case
// it emits nothing and returns false.
func (e *Engine) Refresh(ctx context.Context, sess model.Session) (<-chan Outcome, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.Current().AnyTransitioning() {
		pfxlog.Logger().Debug("refresh suppressed, operations in flight")
		return nil, false, nil
	}
	done, err := e.dispatch(ctx, ListAll{Session: sess})
	return done, err == nil, err
}

// AnyTransitioning reports whether any record has an operation in flight.
func (e *Engine) AnyTransitioning() bool {
	return e.store.Current().AnyTransitioning()
}

func (e *Engine) Snapshot() model.Snapshot {
	return e.store.Current()
}

func (e *Engine) Subscribe(observer stream.Observer[Outcome]) (unsubscribe func()) {
	return e.stream.Subscribe(observer)
}

func (e *Engine) Updates(ctx context.Context) <-chan Outcome {
	return e.stream.Updates(ctx)
}

func (e *Engine) Latest() (Outcome, bool) {
	return e.stream.Latest()
}

// Wait blocks until every in-flight intent has resolved. It must not race
// with Dispatch.
func (e *Engine) Wait() {
	_ = e.inflight.Wait()
}

// Close rejects further intents, waits for in-flight ones and closes the
// stream after subscribers have drained.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	_ = e.inflight.Wait()
	e.stream.Close()
}

func (e *Engine) dispatch(ctx context.Context, intent Intent) (<-chan Outcome, error) {
	if e.closed {
		return nil, ErrClosed
	}

	pfxlog.Logger().WithField("intent", intent.String()).Debug("dispatch")

	done := make(chan Outcome, 1)
	switch in := intent.(type) {
	case ListAll:
		e.listAll(ctx, in, done)
	case StartStop:
		if err := e.startStop(ctx, in, done); err != nil {
			return nil, err
		}
	case Delete:
		if err := e.delete(ctx, in, done); err != nil {
			return nil, err
		}
	case Initialize:
		e.store.NextSeq(store.ListKey)
		e.finish(done, Success{Snapshot: e.store.Replace(in.Seed)})
	case ResetToIdle:
		e.finish(done, Idle{})
	case ResetToCurrentSnapshot:
		e.finish(done, Success{Snapshot: e.store.Current()})
	default:
		return nil, errors.Errorf("unknown intent %T", intent)
	}
	return done, nil
}

func (e *Engine) listAll(ctx context.Context, in ListAll, done chan Outcome) {
	seq := e.store.NextSeq(store.ListKey)
	e.emit(Loading{})

	e.inflight.Go(func() error {
		snapshot, err := e.gateway.List(ctx, in.Session)

		e.mu.Lock()
		defer e.mu.Unlock()

		if e.options.DiscardStale && !e.store.IsCurrent(store.ListKey, seq) {
			e.discard(done, logrus.Fields{"intent": in.String(), "seq": seq})
			return nil
		}
		if err != nil {
			pfxlog.Logger().WithError(err).Warn("unable to list containers")
			e.finish(done, Error{Cause: err})
			return nil
		}
		e.finish(done, Success{Snapshot: e.store.Replace(snapshot)})
		return nil
	})
}

func (e *Engine) startStop(ctx context.Context, in StartStop, done chan Outcome) error {
	current := e.store.Current()
	if in.Index < 0 || in.Index >= len(current) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d with %d containers", in.Index, len(current))
	}
	record := current[in.Index]
	if in.Id != "" && record.Id != in.Id {
		return errors.Wrapf(ErrTargetMoved, "index %d holds [%s], expected [%s]", in.Index, record.Id, in.Id)
	}
	if record.IsTransitioning() {
		return errors.Wrapf(ErrAlreadyTransitioning, "container [%s]", record.Id)
	}

	seq := e.store.NextSeq(record.Id)
	provisional := StatusExiting
	if in.Direction == Start {
		provisional = StatusStarting
	}
	updated := e.store.Replace(current.Replace(in.Index, record.WithStatus(provisional).WithState(model.Transitioning)))
	e.emit(ItemLoading{Snapshot: updated, Index: in.Index})

	e.inflight.Go(func() error {
		err := e.gateway.SetRunning(ctx, in.Session, record.Id, in.Direction == Start)
		e.resolveItem(in, record.Id, seq, err, done)
		return nil
	})
	return nil
}

func (e *Engine) resolveItem(in StartStop, id string, seq uint64, err error, done chan Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fields := logrus.Fields{"intent": in.String(), "containerId": id, "seq": seq}
	if e.options.DiscardStale && !e.store.IsCurrent(id, seq) {
		e.discard(done, fields)
		return
	}

	current := e.store.Current()
	index := in.Index
	if !e.options.AddressByIndex {
		index = current.IndexOf(id)
	}
	if index < 0 || index >= len(current) {
		e.discard(done, fields)
		return
	}

	if err != nil {
		pfxlog.Logger().WithFields(fields).WithError(err).Warn("start/stop failed")
		record := current[index].WithStatus(StatusRetry).WithState(model.Errored)
		e.finish(done, ItemError{Snapshot: e.store.Replace(current.Replace(index, record)), Index: index, Cause: err})
		return
	}

	record := current[index].WithStatus(StatusExited).WithState(model.Exited)
	if in.Direction == Start {
		record = current[index].WithStatus(StatusStarted).WithState(model.Running)
	}
	e.finish(done, ItemSuccess{Snapshot: e.store.Replace(current.Replace(index, record)), Index: index})
}

func (e *Engine) delete(ctx context.Context, in Delete, done chan Outcome) error {
	if in.Target.Id == "" {
		return ErrEmptyTarget
	}

	e.emit(DeleteLoading{Snapshot: e.store.Current(), Target: in.Target})

	e.inflight.Go(func() error {
		err := e.gateway.Remove(ctx, in.Session, in.Target.Id)

		e.mu.Lock()
		defer e.mu.Unlock()

		if err != nil {
			pfxlog.Logger().WithField("containerId", in.Target.Id).WithError(err).Warn("unable to delete container")
			e.finish(done, Error{Cause: err})
			return nil
		}
		// supersedes any start/stop still in flight for the removed record
		e.store.NextSeq(in.Target.Id)
		updated := e.store.Replace(e.store.Current().Without(in.Target.Id))
		e.emit(Success{Snapshot: updated})
		done <- DeleteSuccess{Snapshot: updated, Target: in.Target}
		close(done)
		return nil
	})
	return nil
}

// emit publishes o. Callers hold e.mu so emission order matches the order of
// snapshot changes.
func (e *Engine) emit(o Outcome) {
	pfxlog.Logger().WithField("outcome", o.Kind()).Debug("emit")
	e.stream.Publish(o)
}

func (e *Engine) finish(done chan Outcome, o Outcome) {
	e.emit(o)
	done <- o
	close(done)
}

func (e *Engine) discard(done chan Outcome, fields logrus.Fields) {
	pfxlog.Logger().WithFields(fields).Info("discarding stale result")
	close(done)
}
