package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/dokeraj/androtainer/kernel/model"
	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
)

const maxErrorBody = 4096

// PortainerGateway talks to the Portainer docker proxy over HTTP.
type PortainerGateway struct {
	httpClient *http.Client
}

// Option configures a PortainerGateway
type Option func(*PortainerGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *PortainerGateway) {
		g.httpClient = c
	}
}

// WithTimeout bounds each request. By default requests rely on the context
// and the transport's own failure signalling.
func WithTimeout(timeout time.Duration) Option {
	return func(g *PortainerGateway) {
		g.httpClient.Timeout = timeout
	}
}

func WithInsecureSkipVerify() Option {
	return func(g *PortainerGateway) {
		g.httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

func NewPortainerGateway(options ...Option) *PortainerGateway {
	g := &PortainerGateway{
		httpClient: &http.Client{},
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *PortainerGateway) List(ctx context.Context, sess model.Session) (model.Snapshot, error) {
	const op = "list"
	u := fmt.Sprintf("%s/api/endpoints/%d/docker/containers/json?all=1", sess.GetBaseURL(), sess.EndpointId)

	resp, err := g.do(ctx, sess, http.MethodGet, u)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(op, resp.StatusCode, readMessage(resp.Body))
	}

	var containers []types.Container
	if err := json.NewDecoder(resp.Body).Decode(&containers); err != nil {
		return nil, &Error{Kind: DomainError, Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to decode container list")}
	}
	return FromDockerList(containers), nil
}

// SetRunning starts or stops a container. Only 204 confirms the change; docker
// answers 304 when the container is already in the requested state.
func (g *PortainerGateway) SetRunning(ctx context.Context, sess model.Session, containerId string, running bool) error {
	action := "stop"
	if running {
		action = "start"
	}
	u := fmt.Sprintf("%s/api/endpoints/%d/docker/containers/%s/%s",
		sess.GetBaseURL(), sess.EndpointId, url.PathEscape(containerId), action)

	resp, err := g.do(ctx, sess, http.MethodPost, u)
	if err != nil {
		return transportError(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(action, resp.StatusCode, readMessage(resp.Body))
	}
	return nil
}

// Remove force-deletes a container along with its anonymous volumes. Anything
// but 204 is a failure.
func (g *PortainerGateway) Remove(ctx context.Context, sess model.Session, containerId string) error {
	const op = "remove"
	u := fmt.Sprintf("%s/api/endpoints/%d/docker/containers/%s?force=true&v=1",
		sess.GetBaseURL(), sess.EndpointId, url.PathEscape(containerId))

	resp, err := g.do(ctx, sess, http.MethodDelete, u)
	if err != nil {
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	e := statusError(op, resp.StatusCode, readMessage(resp.Body))
	if e.Kind != AuthError {
		e.Kind = DomainError
	}
	return e
}

func (g *PortainerGateway) do(ctx context.Context, sess model.Session, method, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s request", method)
	}
	req.Header.Set("Accept", "application/json")
	if h := sess.AuthHeader(); h != "" {
		req.Header.Set("Authorization", h)
	}

	log := pfxlog.Logger().WithField("method", method).WithField("endpoint", sess.EndpointId)
	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, err
	}
	log.WithField("status", resp.StatusCode).WithField("elapsed", time.Since(start)).Debug("request complete")
	return resp, nil
}

// readMessage extracts the portainer/docker error message from a response body.
func readMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var msg struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &msg); err == nil && msg.Message != "" {
		if msg.Details != "" {
			return msg.Message + ": " + msg.Details
		}
		return msg.Message
	}
	return string(data)
}

func init() {
	RegisterBackend("portainer", func(profile *model.ProfileConfig) (Gateway, error) {
		if profile.BaseURL == "" {
			return nil, errors.New("portainer backend requires base_url")
		}
		var options []Option
		if profile.InsecureSkipVerify {
			options = append(options, WithInsecureSkipVerify())
		}
		return NewPortainerGateway(options...), nil
	})
}
