package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
)

func TestClient_GetUserByUID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/uid/u1":
			_ = json.NewEncoder(w).Encode(model.User{ID: 1, UID: "u1", Role: model.RoleReporter})
		case "/api/users/uid/boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"internal server error","code":"INTERNAL_ERROR"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	c := New(srv.URL + "/")

	user, err := c.GetUserByUID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleReporter, user.Role)

	_, err = c.GetUserByUID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetUserByUID(context.Background(), "boom")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", statusErr.Body.Code)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).GetUserByUID(context.Background(), "u1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_DemoSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/demo/session":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(model.DemoSession{Token: "tok", Persona: model.Persona{ID: body["personaId"]}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/session/me":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"identity":{"uid":"reporter_user"},"profile":null}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/session":
			_, _ = w.Write([]byte(`{"message":"Session revoked"}`))
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()
	c := New(srv.URL, WithHTTPClient(srv.Client()))
	ctx := context.Background()

	session, err := c.IssueDemoSession(ctx, "reporter_user")
	require.NoError(t, err)
	assert.Equal(t, "reporter_user", session.Persona.ID)

	info, err := c.Session(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "reporter_user", info.Identity.UID)
	assert.Nil(t, info.Profile)

	assert.NoError(t, c.RevokeSession(ctx, session.Token))

	_, err = c.ListDemoPersonas(ctx)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTeapot, statusErr.StatusCode)
}
