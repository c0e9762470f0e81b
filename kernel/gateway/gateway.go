package gateway

import (
	"context"

	"github.com/dokeraj/androtainer/kernel/model"
)

// Gateway is the boundary to the remote container-management API. Every call
// is independent; a Gateway keeps no per-session state and never retries.
type Gateway interface {
	List(ctx context.Context, sess model.Session) (model.Snapshot, error)
	SetRunning(ctx context.Context, sess model.Session, containerId string, running bool) error
	Remove(ctx context.Context, sess model.Session, containerId string) error
}
