package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/tokens"
)

func newTestTokenService(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()

	access, err := tokens.NewAccessCodec([]byte("test-jwt-secret"), tokens.DefaultAccessTTL, tokens.WithClock(now))
	require.NoError(t, err)
	refresh, err := tokens.NewRefreshCodec([]byte("test-refresh-secret"), tokens.DefaultRefreshTTL, tokens.WithClock(now))
	require.NoError(t, err)

	return NewTokenService(access, refresh)
}

func TestTokenService_IssuePair_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	svc := newTestTokenService(t, func() time.Time { return now })
	user := &models.User{ID: 3, Email: "owner@garage.io", Role: models.RoleGarageAdmin}

	pair, err := svc.IssuePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, now.Add(15*time.Minute).Unix(), pair.AccessExp.Unix())
	assert.Equal(t, now.Add(30*24*time.Hour).Unix(), pair.RefreshExp.Unix())

	accessClaims, err := svc.Access.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.SubjectOf(user), accessClaims.Subject())

	refreshClaims, err := svc.Refresh.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.SubjectOf(user), refreshClaims.Subject())

	_, err = svc.Access.Verify(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenService_RotateAccess_OnlyAccessToken(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	svc := newTestTokenService(t, func() time.Time { return now })
	sub := tokens.Subject{UserID: 9, Email: "u@x.io", Role: models.RoleUser}

	token, exp, err := svc.RotateAccess(sub)
	require.NoError(t, err)
	assert.Equal(t, now.Add(tokens.DefaultAccessTTL).Unix(), exp.Unix())

	claims, err := svc.Access.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Subject())

	_, err = svc.Refresh.Verify(token)
	assert.ErrorIs(t, err, tokens.ErrSignatureInvalid)
}
