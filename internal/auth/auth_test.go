package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelgames/boardhouse/internal/auth"
)

func newService() *auth.Service {
	return auth.NewService(auth.NewMemStore(), auth.NewTokenService("test-secret", time.Hour))
}

func TestSignupThenLoginIssuesUsableTokens(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "alice", "hunter2pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	me, err := svc.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	_, loginToken, err := svc.Login(ctx, "alice", "hunter2pass")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "bob", "correct-password")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "bob", "wrong-password")
	require.Error(t, err)
}

func TestSignupRejectsDuplicateDisplayName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "carol", "first-password")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "carol", "second-password")
	require.Error(t, err)
}

func TestTokenServiceFromRequestReadsAuthorizationHeader(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	signed, err := tokens.Issue("user-1")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/tictactoe/1", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	userID, err := tokens.FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenServiceFromRequestFallsBackToQueryParam(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	signed, err := tokens.Issue("user-2")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/ws/tictactoe/1?token="+signed, nil)

	userID, err := tokens.FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)
}

func TestTokenServiceRejectsMissingToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/tictactoe/1", nil)

	_, err := tokens.FromRequest(r)
	require.Error(t, err)
}
