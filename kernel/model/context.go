package model

import (
	"fmt"
	"strings"
)

// Session carries the connection details for one endpoint. It is passed
// explicitly with every gateway call; nothing in the kernel keeps it globally.
type Session struct {
	BaseURL    string
	Token      string
	EndpointId int
}

func NewSession(baseURL, token string, endpointId int) Session {
	return Session{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		EndpointId: endpointId,
	}
}

func (s Session) GetBaseURL() string {
	return strings.TrimSuffix(s.BaseURL, "/")
}

func (s Session) WithToken(token string) Session {
	s.Token = token
	return s
}

func (s Session) WithEndpoint(endpointId int) Session {
	s.EndpointId = endpointId
	return s
}

// AuthHeader returns the Authorization header value, empty when no token is set.
func (s Session) AuthHeader() string {
	if s.Token == "" {
		return ""
	}
	return "Bearer " + s.Token
}

func (s Session) String() string {
	return fmt.Sprintf("%s#%d", s.GetBaseURL(), s.EndpointId)
}
