package remote

import (
	"context"
	"net/http"

	"github.com/svera/snapgram/internal/backend"
)

const currentSession = "current"

type accounts struct {
	client *Client
}

func (s accounts) Create(ctx context.Context, id, email, password, name string) (backend.Account, error) {
	var account backend.Account
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"account"},
		body: jsonBody(map[string]string{
			"userId":   id,
			"email":    email,
			"password": password,
			"name":     name,
		}),
	}, &account)
	return account, err
}

func (s accounts) Get(ctx context.Context) (backend.Account, error) {
	var account backend.Account
	err := s.client.do(ctx, request{method: http.MethodGet, path: []string{"account"}}, &account)
	return account, err
}

// CreateEmailSession signs in and keeps the secret of the new session for later requests
func (s accounts) CreateEmailSession(ctx context.Context, email, password string) (backend.Session, error) {
	var session backend.Session
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   []string{"account", "sessions", "email"},
		body:   jsonBody(map[string]string{"email": email, "password": password}),
	}, &session)
	if err != nil {
		return session, err
	}
	s.client.SetSession(session.Secret)
	return session, nil
}

func (s accounts) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   []string{"account", "sessions", sessionID},
	}, nil)
	if err == nil && sessionID == currentSession {
		s.client.SetSession("")
	}
	return err
}
