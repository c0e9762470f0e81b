package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Stats summarises a snapshot. Stopped counts exited and errored containers.
// Busy is set while any record is transitioning; the counts are not shown then.
type Stats struct {
	Total   int
	Running int
	Stopped int
	Busy    bool
}

func StatsOf(s model.Snapshot) Stats {
	stats := Stats{Total: len(s)}
	for _, r := range s {
		switch r.State {
		case model.Running:
			stats.Running++
		case model.Exited, model.Errored:
			stats.Stopped++
		case model.Transitioning:
			stats.Busy = true
		}
	}
	return stats
}

func (s Stats) String() string {
	if s.Busy {
		return "working..."
	}
	return fmt.Sprintf("total: %d  running: %d  stopped: %d", s.Total, s.Running, s.Stopped)
}

// Table writes the container list in server order, one row per record.
func Table(w io.Writer, s model.Snapshot, colors bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Image", "State", "Status", "Ports"})
	for i, r := range s {
		state := r.State.String()
		if colors {
			state = stateColors(r.State).Sprint(state)
		}
		t.AppendRow(table.Row{i, ShortId(r.Id), r.Name, r.PulledImage, state, r.Status, portSummary(r.Ports)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", StatsOf(s).String(), ""})
	t.Render()
}

func stateColors(state model.ContainerState) text.Colors {
	switch state {
	case model.Running:
		return text.Colors{text.FgGreen}
	case model.Exited:
		return text.Colors{text.FgHiBlack}
	case model.Errored:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{text.FgYellow}
	}
}

func portSummary(ports []model.Port) string {
	var out []string
	for _, p := range ports {
		if p.PublicPort == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d->%d/%s", p.PublicPort, p.PrivatePort, p.Type))
	}
	return strings.Join(out, ", ")
}

func ShortId(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// Created formats a unix timestamp in the local zone.
func Created(unix int64) string {
	return time.Unix(unix, 0).Local().Format("2006-01-02 15:04:05")
}
