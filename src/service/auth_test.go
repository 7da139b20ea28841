package service

import (
	"testing"
	"time"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-do-not-use-in-production"

func TestAuthService_TokenRoundTrip(t *testing.T) {
	authService := NewAuthService(testJWTSecret, time.Hour)

	user := &domain.User{
		ID:       uuid.New(),
		Username: "player1",
		IsAdmin:  false,
	}

	token, err := authService.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := authService.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "player1", identity.Username)
	assert.False(t, identity.IsAdmin)
}

func TestAuthService_AdminClaimCarried(t *testing.T) {
	authService := NewAuthService(testJWTSecret, time.Hour)

	token, err := authService.IssueToken(&domain.User{
		ID:       uuid.New(),
		Username: "admin",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	identity, err := authService.VerifyToken(token)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin)
}

func TestAuthService_RejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(testJWTSecret, time.Hour)
	verifier := NewAuthService("a-different-secret", time.Hour)

	token, err := issuer.IssueToken(&domain.User{ID: uuid.New(), Username: "player1"})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	authService := NewAuthService(testJWTSecret, -time.Minute)

	token, err := authService.IssueToken(&domain.User{ID: uuid.New(), Username: "player1"})
	require.NoError(t, err)

	_, err = authService.VerifyToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsGarbage(t *testing.T) {
	authService := NewAuthService(testJWTSecret, time.Hour)

	_, err := authService.VerifyToken("not-a-token")
	assert.Error(t, err)

	_, err = authService.VerifyToken("")
	assert.Error(t, err)
}
