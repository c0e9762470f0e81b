package render

import (
	"fmt"
	"strings"

	"github.com/dokeraj/androtainer/kernel/model"
)

// Details renders a container as markdown. Only bind mounts are listed.
func Details(r model.ContainerRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### ID\n- *%s*\n", r.Id)
	fmt.Fprintf(&b, "### Date Created\n- %s\n", Created(r.CreatedAt))
	fmt.Fprintf(&b, "### Image\n- %s\n", r.PulledImage)

	if m := r.MaintainerInfo; m.Maintainer != "" {
		fmt.Fprintf(&b, "### Maintainer Info\n- name: %s\n", m.Maintainer)
		if m.URL != "" {
			fmt.Fprintf(&b, "- url: %s\n", m.URL)
		}
	}

	fmt.Fprintf(&b, "### Host Config\n- Network Mode: `%s`\n", r.HostConfig.NetworkMode)

	var binds []string
	for _, m := range r.Mounts {
		if m.Type == "bind" {
			binds = append(binds, fmt.Sprintf("- `%s`:`%s`\n", m.Source, m.Destination))
		}
	}
	if len(binds) > 0 {
		b.WriteString("### Mounts [*External* : *Internal*]\n")
		b.WriteString(strings.Join(binds, ""))
	}

	if len(r.Ports) > 0 {
		ports := make([]string, 0, len(r.Ports))
		for _, p := range r.Ports {
			public := "none"
			if p.PublicPort != 0 {
				public = fmt.Sprintf("%d", p.PublicPort)
			}
			ports = append(ports, fmt.Sprintf("> `%s`:`%d` - **%s**\n", public, p.PrivatePort, p.Type))
		}
		b.WriteString("### Ports [*PublicPort* : *PrivatePort* - protocol]\n")
		b.WriteString(strings.Join(ports, ""))
	}

	fmt.Fprintf(&b, "### State\n- ***%s***\n", capitalize(r.State.String()))
	fmt.Fprintf(&b, "### Status\n- ***%s***\n", capitalize(r.Status))
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
