package metrics

import (
	"os"
	"sync"
	"time"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/gateway"
	"github.com/dokeraj/androtainer/kernel/model"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

const Measurement = "androtainer_outcome"

// PointWriter is the subset of the influx WriteAPI the sink needs.
type PointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// Sink writes one point per engine outcome.
type Sink struct {
	writer  PointWriter
	profile string
	client  influxdb2.Client
	now     func() time.Time
	mu      sync.Mutex
	written int
}

func NewSink(writer PointWriter, profile string) *Sink {
	return &Sink{writer: writer, profile: profile, now: time.Now}
}

// NewInfluxSink connects to the configured server. The token is read from
// cfg.TokenEnv when set.
func NewInfluxSink(cfg *model.MetricsConfig, profile string) (*Sink, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("metrics are not configured")
	}
	token := ""
	if cfg.TokenEnv != "" {
		token = os.Getenv(cfg.TokenEnv)
	}
	client := influxdb2.NewClient(cfg.URL, token)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range writeAPI.Errors() {
			pfxlog.Logger().WithError(err).Warn("influx write failed")
		}
	}()

	s := NewSink(writeAPI, profile)
	s.client = client
	return s, nil
}

// Attach subscribes the sink to e. The returned function detaches it.
func (s *Sink) Attach(e *engine.Engine) func() {
	return e.Subscribe(s.Observe)
}

func (s *Sink) Observe(o engine.Outcome) {
	s.writer.WritePoint(s.point(o))
	s.mu.Lock()
	s.written++
	s.mu.Unlock()
}

func (s *Sink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

func (s *Sink) Close() {
	s.writer.Flush()
	if s.client != nil {
		s.client.Close()
	}
}

func (s *Sink) point(o engine.Outcome) *write.Point {
	tags := map[string]string{"kind": o.Kind()}
	if s.profile != "" {
		tags["profile"] = s.profile
	}
	fields := map[string]interface{}{"count": 1}

	if snapshot, ok := engine.SnapshotOf(o); ok {
		counts := map[model.ContainerState]int{}
		for _, r := range snapshot {
			counts[r.State]++
		}
		fields["total"] = len(snapshot)
		fields["running"] = counts[model.Running]
		fields["exited"] = counts[model.Exited]
		fields["errored"] = counts[model.Errored]
		fields["transitioning"] = counts[model.Transitioning]
	}

	switch out := o.(type) {
	case engine.ItemLoading:
		tags["containerId"] = containerAt(out.Snapshot, out.Index)
	case engine.ItemSuccess:
		tags["containerId"] = containerAt(out.Snapshot, out.Index)
	case engine.ItemError:
		tags["containerId"] = containerAt(out.Snapshot, out.Index)
	case engine.DeleteLoading:
		tags["containerId"] = out.Target.Id
	case engine.DeleteSuccess:
		tags["containerId"] = out.Target.Id
	}

	if cause := engine.CauseOf(o); cause != nil {
		tags["error"] = "unknown"
		if kind, ok := gateway.KindOf(cause); ok {
			tags["error"] = kind.String()
		}
	}
	return influxdb2.NewPoint(Measurement, tags, fields, s.now())
}

func containerAt(s model.Snapshot, index int) string {
	if index < 0 || index >= len(s) {
		return ""
	}
	return s[index].Id
}
