package gateway

import (
	"testing"

	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackends_Registered(t *testing.T) {
	// portainer and docker register themselves in init()
	assert.Equal(t, []string{"docker", "portainer"}, Backends())
}

func TestNew_Portainer(t *testing.T) {
	g, err := New(&model.ProfileConfig{BaseURL: "https://p.local"})
	require.NoError(t, err)
	_, ok := g.(*PortainerGateway)
	assert.True(t, ok, "empty backend should default to portainer")
}

func TestNew_PortainerRequiresURL(t *testing.T) {
	_, err := New(&model.ProfileConfig{Backend: "portainer"})
	assert.Error(t, err)
}

func TestNew_NotFound(t *testing.T) {
	_, err := New(&model.ProfileConfig{Backend: "nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")

	_, withStack := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, withStack, "errors carry a stack trace")
}

func TestRegisterBackend_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterBackend("portainer", func(*model.ProfileConfig) (Gateway, error) { return nil, nil })
	})
}
