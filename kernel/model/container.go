package model

import (
	"fmt"
	"strings"
)

// ContainerState is the lifecycle state shown for a container. Transitioning is
// client-only and never comes from the server.
type ContainerState int

const (
	Running ContainerState = iota
	Exited
	Errored
	Transitioning
)

func (s ContainerState) String() string {
	switch s {
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Errored:
		return "errored"
	case Transitioning:
		return "transitioning"
	default:
		return fmt.Sprintf("ContainerState(%d)", int(s))
	}
}

func (s ContainerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ContainerState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "exited":
		*s = Exited
	case "errored":
		*s = Errored
	case "transitioning":
		*s = Transitioning
	default:
		return fmt.Errorf("unknown container state '%s'", string(text))
	}
	return nil
}

// ParseServerState maps the docker state string to a ContainerState. Anything
// that is neither running nor a clean stop is treated as errored.
func ParseServerState(state string) ContainerState {
	switch strings.ToLower(state) {
	case "running":
		return Running
	case "exited", "created", "paused":
		return Exited
	default:
		return Errored
	}
}

type Port struct {
	PublicPort  uint16 `json:"publicPort,omitempty"`
	PrivatePort uint16 `json:"privatePort"`
	Type        string `json:"type"`
}

type Mount struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type HostConfig struct {
	NetworkMode string `json:"networkMode"`
}

type MaintainerInfo struct {
	Maintainer string `json:"maintainer,omitempty"`
	URL        string `json:"url,omitempty"`
}

// ContainerRecord is an immutable view of one container. Use the With*
// methods to derive a changed copy; Id never changes.
type ContainerRecord struct {
	Id             string         `json:"id"`
	Name           string         `json:"name"`
	PulledImage    string         `json:"pulledImage"`
	CreatedAt      int64          `json:"createdAt"`
	Status         string         `json:"status"`
	State          ContainerState `json:"state"`
	Ports          []Port         `json:"ports"`
	Mounts         []Mount        `json:"mounts"`
	HostConfig     HostConfig     `json:"hostConfig"`
	MaintainerInfo MaintainerInfo `json:"maintainerInfo"`
}

func (r ContainerRecord) WithStatus(status string) ContainerRecord {
	r.Status = status
	return r
}

func (r ContainerRecord) WithState(state ContainerState) ContainerRecord {
	r.State = state
	return r
}

// IsTransitioning reports whether an operation is in flight for the record.
func (r ContainerRecord) IsTransitioning() bool {
	return r.State == Transitioning
}

func (r ContainerRecord) String() string {
	return fmt.Sprintf("%s(%s, %s)", r.Name, shortId(r.Id), r.State)
}

func shortId(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
