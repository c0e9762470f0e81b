package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() Snapshot {
	return Snapshot{
		{Id: "aaaa1111", Name: "web", State: Running, Status: "Up 2 hours"},
		{Id: "bbbb2222", Name: "db", State: Exited, Status: "Exited (0)"},
		{Id: "bbbb3333", Name: "cache", State: Errored, Status: "Dead"},
	}
}

func TestContainerRecord_CopyOnWrite(t *testing.T) {
	orig := ContainerRecord{Id: "a", Status: "Up", State: Running}

	changed := orig.WithStatus("Exiting").WithState(Transitioning)

	assert.Equal(t, "a", changed.Id)
	assert.Equal(t, "Exiting", changed.Status)
	assert.True(t, changed.IsTransitioning())
	assert.Equal(t, "Up", orig.Status)
	assert.Equal(t, Running, orig.State)
}

func TestParseServerState(t *testing.T) {
	assert.Equal(t, Running, ParseServerState("running"))
	assert.Equal(t, Exited, ParseServerState("exited"))
	assert.Equal(t, Exited, ParseServerState("Created"))
	assert.Equal(t, Errored, ParseServerState("dead"))
	assert.Equal(t, Errored, ParseServerState("restarting"))
}

func TestContainerState_JSON(t *testing.T) {
	data, err := json.Marshal(ContainerRecord{Id: "a", State: Transitioning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"transitioning"`)

	var r ContainerRecord
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, Transitioning, r.State)

	assert.Error(t, json.Unmarshal([]byte(`{"state":"bogus"}`), &r))
}

func TestSnapshot_Replace(t *testing.T) {
	s := testSnapshot()

	out := s.Replace(1, s[1].WithState(Transitioning))

	assert.Equal(t, Transitioning, out[1].State)
	assert.Equal(t, Exited, s[1].State, "original snapshot must not change")
}

func TestSnapshot_Without(t *testing.T) {
	s := testSnapshot()

	out := s.Without("bbbb2222")

	assert.Len(t, out, 2)
	assert.Len(t, s, 3)
	assert.Equal(t, -1, out.IndexOf("bbbb2222"))
	assert.Len(t, s.Without("missing"), 3)
}

func TestSnapshot_AnyTransitioning(t *testing.T) {
	s := testSnapshot()
	assert.False(t, s.AnyTransitioning())
	assert.False(t, Snapshot{}.AnyTransitioning())

	s = s.Replace(2, s[2].WithState(Transitioning))
	assert.True(t, s.AnyTransitioning())
}

func TestSnapshot_Lookup(t *testing.T) {
	s := testSnapshot()

	i, ok := s.Lookup("aaaa1111")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = s.Lookup("db")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = s.Lookup("aaaa")
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = s.Lookup("bbbb")
	assert.False(t, ok, "ambiguous prefix")

	_, ok = s.Lookup("bb")
	assert.False(t, ok, "prefix too short")

	_, ok = s.Lookup("")
	assert.False(t, ok)
}

func TestSnapshot_CloneNil(t *testing.T) {
	var s Snapshot
	c := s.Clone()
	assert.NotNil(t, c)
	assert.Len(t, c, 0)
}
