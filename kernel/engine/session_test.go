package engine

import (
	"context"
	"testing"

	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/dokeraj/androtainer/kernel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGateway is a testify mock of gateway.Gateway
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) List(ctx context.Context, sess model.Session) (model.Snapshot, error) {
	args := m.Called(ctx, sess)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Snapshot), nil
}

func (m *mockGateway) SetRunning(ctx context.Context, sess model.Session, containerId string, running bool) error {
	args := m.Called(ctx, sess, containerId, running)
	return args.Error(0)
}

func (m *mockGateway) Remove(ctx context.Context, sess model.Session, containerId string) error {
	args := m.Called(ctx, sess, containerId)
	return args.Error(0)
}

func TestEngine_PassesSessionThrough(t *testing.T) {
	first := model.NewSession("https://one.test/", "t1", 1)
	second := first.WithToken("t2").WithEndpoint(3)

	gw := &mockGateway{}
	gw.On("List", mock.Anything, first).Return(model.Snapshot{{Id: "a", State: model.Exited}}, nil).Once()
	gw.On("SetRunning", mock.Anything, second, "a", true).Return(nil).Once()
	gw.On("Remove", mock.Anything, second, "a").Return(nil).Once()

	e := NewEngine(gw, store.NewMemoryStore(), DefaultOptions())
	defer e.Close()
	ctx := context.Background()

	done, err := e.Dispatch(ctx, ListAll{Session: first})
	require.NoError(t, err)
	<-done

	done, err = e.Dispatch(ctx, StartStop{Session: second, Index: 0, Direction: Start})
	require.NoError(t, err)
	o := <-done
	assert.IsType(t, ItemSuccess{}, o)

	done, err = e.Dispatch(ctx, Delete{Session: second, Target: e.Snapshot()[0]})
	require.NoError(t, err)
	o = <-done
	assert.IsType(t, DeleteSuccess{}, o)
	assert.Empty(t, e.Snapshot())

	gw.AssertExpectations(t)
}

func TestEngine_ContextCancelReachesGateway(t *testing.T) {
	gw := &mockGateway{}
	gw.On("List", mock.Anything, mock.Anything).Return(nil, context.Canceled).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	})

	e := NewEngine(gw, store.NewMemoryStore(), DefaultOptions())
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done, err := e.Dispatch(ctx, ListAll{Session: model.NewSession("https://x.test", "", 1)})
	require.NoError(t, err)
	cancel()

	o := <-done
	errOutcome, ok := o.(Error)
	require.True(t, ok)
	assert.ErrorIs(t, errOutcome.Cause, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(nil))
	assert.Equal(t, DefaultOptions(), OptionsFromConfig(&model.Config{}))

	off := false
	assert.Equal(t, Options{AddressByIndex: true}, OptionsFromConfig(&model.Config{DiscardStale: &off, AddressByIndex: true}))
}
