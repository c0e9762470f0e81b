package gateway

import (
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/dokeraj/androtainer/kernel/model"
)

var (
	maintainerLabels = []string{"maintainer", "org.opencontainers.image.authors", "org.label-schema.vendor"}
	urlLabels        = []string{"org.opencontainers.image.url", "org.opencontainers.image.source", "org.label-schema.url"}
)

// FromDocker converts the docker engine container summary, which is also the
// shape Portainer proxies, into a ContainerRecord.
func FromDocker(c types.Container) model.ContainerRecord {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	ports := make([]model.Port, 0, len(c.Ports))
	for _, p := range c.Ports {
		ports = append(ports, model.Port{
			PublicPort:  p.PublicPort,
			PrivatePort: p.PrivatePort,
			Type:        p.Type,
		})
	}

	mounts := make([]model.Mount, 0, len(c.Mounts))
	for _, m := range c.Mounts {
		mounts = append(mounts, model.Mount{
			Type:        string(m.Type),
			Source:      m.Source,
			Destination: m.Destination,
		})
	}

	return model.ContainerRecord{
		Id:          c.ID,
		Name:        name,
		PulledImage: c.Image,
		CreatedAt:   c.Created,
		Status:      c.Status,
		State:       model.ParseServerState(c.State),
		Ports:       ports,
		Mounts:      mounts,
		HostConfig: model.HostConfig{
			NetworkMode: c.HostConfig.NetworkMode,
		},
		MaintainerInfo: model.MaintainerInfo{
			Maintainer: firstLabel(c.Labels, maintainerLabels),
			URL:        firstLabel(c.Labels, urlLabels),
		},
	}
}

func FromDockerList(containers []types.Container) model.Snapshot {
	out := make(model.Snapshot, 0, len(containers))
	for _, c := range containers {
		out = append(out, FromDocker(c))
	}
	return out
}

func firstLabel(labels map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := labels[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
