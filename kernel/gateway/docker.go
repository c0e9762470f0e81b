package gateway

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/pkg/errors"
)

// dockerAPI is the subset of the docker SDK client the gateway uses.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

// DockerGateway manages containers on a docker engine directly, for setups
// without Portainer in front. The session is only used for logging context.
type DockerGateway struct {
	cli dockerAPI
}

// NewDockerGateway connects using the standard DOCKER_* environment, or host
// when it is not empty.
func NewDockerGateway(host string) (*DockerGateway, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create docker client")
	}
	return &DockerGateway{cli: cli}, nil
}

func newDockerGatewayWith(cli dockerAPI) *DockerGateway {
	return &DockerGateway{cli: cli}
}

func (g *DockerGateway) List(ctx context.Context, _ model.Session) (model.Snapshot, error) {
	containers, err := g.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, classifyDocker("list", err)
	}
	return FromDockerList(containers), nil
}

func (g *DockerGateway) SetRunning(ctx context.Context, _ model.Session, containerId string, running bool) error {
	if running {
		if err := g.cli.ContainerStart(ctx, containerId, container.StartOptions{}); err != nil {
			return classifyDocker("start", err)
		}
		return nil
	}
	if err := g.cli.ContainerStop(ctx, containerId, container.StopOptions{}); err != nil {
		return classifyDocker("stop", err)
	}
	return nil
}

func (g *DockerGateway) Remove(ctx context.Context, _ model.Session, containerId string) error {
	err := g.cli.ContainerRemove(ctx, containerId, container.RemoveOptions{Force: true, RemoveVolumes: true})
	if err != nil {
		e := classifyDocker("remove", err)
		if e.Kind == ServerError {
			e.Kind = DomainError
		}
		return e
	}
	return nil
}

func (g *DockerGateway) Close() error {
	return g.cli.Close()
}

func classifyDocker(op string, err error) *Error {
	switch {
	case client.IsErrConnectionFailed(err), isContextError(err):
		return transportError(op, err)
	case errdefs.IsUnauthorized(err), errdefs.IsForbidden(err):
		return &Error{Kind: AuthError, Op: op, Err: err}
	case errdefs.IsNotModified(err), errdefs.IsNotFound(err), errdefs.IsConflict(err):
		return &Error{Kind: DomainError, Op: op, Err: err}
	default:
		return &Error{Kind: ServerError, Op: op, Err: err}
	}
}

func init() {
	RegisterBackend("docker", func(profile *model.ProfileConfig) (Gateway, error) {
		return NewDockerGateway(profile.BaseURL)
	})
}
