package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/errdefs"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocker struct {
	containers []types.Container
	err        error
	started    []string
	stopped    []string
	removed    []container.RemoveOptions
}

func (s *stubDocker) ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error) {
	if !options.All {
		return nil, errors.New("expected all containers to be requested")
	}
	return s.containers, s.err
}

func (s *stubDocker) ContainerStart(ctx context.Context, id string, options container.StartOptions) error {
	s.started = append(s.started, id)
	return s.err
}

func (s *stubDocker) ContainerStop(ctx context.Context, id string, options container.StopOptions) error {
	s.stopped = append(s.stopped, id)
	return s.err
}

func (s *stubDocker) ContainerRemove(ctx context.Context, id string, options container.RemoveOptions) error {
	s.removed = append(s.removed, options)
	return s.err
}

func (s *stubDocker) Close() error { return nil }

func TestDockerGateway_List(t *testing.T) {
	stub := &stubDocker{containers: []types.Container{
		{ID: "a", Names: []string{"/one"}, State: "running"},
		{ID: "b", Names: []string{"/two"}, State: "exited"},
	}}
	g := newDockerGatewayWith(stub)

	snap, err := g.List(context.Background(), model.Session{})
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "one", snap[0].Name)
	assert.Equal(t, model.Exited, snap[1].State)
}

func TestDockerGateway_SetRunning(t *testing.T) {
	stub := &stubDocker{}
	g := newDockerGatewayWith(stub)

	require.NoError(t, g.SetRunning(context.Background(), model.Session{}, "a", true))
	require.NoError(t, g.SetRunning(context.Background(), model.Session{}, "b", false))
	assert.Equal(t, []string{"a"}, stub.started)
	assert.Equal(t, []string{"b"}, stub.stopped)
}

func TestDockerGateway_RemoveForces(t *testing.T) {
	stub := &stubDocker{}
	g := newDockerGatewayWith(stub)

	require.NoError(t, g.Remove(context.Background(), model.Session{}, "a"))
	require.Len(t, stub.removed, 1)
	assert.True(t, stub.removed[0].Force)
	assert.True(t, stub.removed[0].RemoveVolumes)
}

func TestDockerGateway_ErrorClassification(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{errdefs.Unauthorized(errors.New("no")), AuthError},
		{errdefs.Forbidden(errors.New("no")), AuthError},
		{errdefs.NotFound(errors.New("gone")), DomainError},
		{context.DeadlineExceeded, TransportError},
		{errors.New("boom"), ServerError},
	}
	for _, c := range cases {
		g := newDockerGatewayWith(&stubDocker{err: c.err})
		err := g.SetRunning(context.Background(), model.Session{}, "a", true)
		assert.True(t, IsKind(err, c.kind), "%v should be %s", c.err, c.kind)
	}
}

func TestDockerGateway_RemoveServerErrorIsDomain(t *testing.T) {
	g := newDockerGatewayWith(&stubDocker{err: errors.New("boom")})
	err := g.Remove(context.Background(), model.Session{}, "a")
	assert.True(t, IsKind(err, DomainError))
}
