package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dokeraj/androtainer/kernel/engine"
	"github.com/dokeraj/androtainer/kernel/gateway"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/dokeraj/androtainer/kernel/store"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu      sync.Mutex
	lines   []string
	flushed int
}

func (w *recordingWriter) WritePoint(p *write.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, write.PointToLineProtocol(p, time.Second))
}

func (w *recordingWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flushed++
}

func (w *recordingWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

func TestSink_Point(t *testing.T) {
	w := &recordingWriter{}
	s := NewSink(w, "home")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	s.Observe(engine.ItemSuccess{
		Snapshot: model.Snapshot{{Id: "a", State: model.Running}, {Id: "b", State: model.Exited}},
		Index:    1,
	})
	s.Observe(engine.Error{Cause: &gateway.Error{Kind: gateway.AuthError, Op: "list", StatusCode: 401}})

	lines := w.Lines()
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], Measurement+",containerId=b,kind=item_success,profile=home ")
	assert.Contains(t, lines[0], "running=1i")
	assert.Contains(t, lines[0], "exited=1i")
	assert.Contains(t, lines[0], "total=2i")
	assert.Contains(t, lines[0], " 1700000000")

	assert.Contains(t, lines[1], "error=auth")
	assert.Contains(t, lines[1], "kind=error")
	assert.NotContains(t, lines[1], "total=")
	assert.Equal(t, 2, s.Written())

	s.Close()
	assert.Equal(t, 1, w.flushed)
}

func TestSink_AttachToEngine(t *testing.T) {
	gw := gateway.NewFakeGateway(model.ContainerRecord{Id: "a", State: model.Exited})
	e := engine.NewEngine(gw, store.NewMemoryStore(), engine.DefaultOptions())

	w := &recordingWriter{}
	s := NewSink(w, "")
	detach := s.Attach(e)
	defer detach()

	sess := model.NewSession("http://p", "t", 1)
	done, err := e.Dispatch(context.Background(), engine.ListAll{Session: sess})
	require.NoError(t, err)
	<-done
	done, err = e.Dispatch(context.Background(), engine.StartStop{Session: sess, Index: 0, Direction: engine.Start})
	require.NoError(t, err)
	<-done
	e.Close()

	assert.Eventually(t, func() bool { return s.Written() == 4 }, 2*time.Second, 10*time.Millisecond)
	lines := w.Lines()
	assert.Contains(t, lines[0], "kind=loading")
	assert.Contains(t, lines[1], "kind=success")
	assert.Contains(t, lines[2], "kind=item_loading")
	assert.Contains(t, lines[2], "transitioning=1i")
	assert.Contains(t, lines[3], "kind=item_success")
	assert.NotContains(t, lines[3], "profile=")
}

func TestNewInfluxSink_RequiresURL(t *testing.T) {
	_, err := NewInfluxSink(nil, "p")
	assert.Error(t, err)
	_, err = NewInfluxSink(&model.MetricsConfig{}, "p")
	assert.Error(t, err)
}
