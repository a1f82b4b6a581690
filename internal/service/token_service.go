package service

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/tokens"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// TokenService mints credentials. It persists nothing: revocation lives in
// the revocation stores owned by the callers.
type TokenService struct {
	Access  *tokens.Codec
	Refresh *tokens.Codec
}

func NewTokenService(access, refresh *tokens.Codec) *TokenService {
	return &TokenService{Access: access, Refresh: refresh}
}

func (t *TokenService) IssuePair(user *models.User) (*TokenPair, error) {
	sub := tokens.SubjectOf(user)

	accessToken, accessClaims, err := t.Access.Issue(sub)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, refreshClaims, err := t.Refresh.Issue(sub)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessClaims.ExpiresAt.Time,
		RefreshExp:   refreshClaims.ExpiresAt.Time,
	}, nil
}

// RotateAccess mints a new access token for sub. The refresh token that
// authorised the call stays valid.
func (t *TokenService) RotateAccess(sub tokens.Subject) (string, time.Time, error) {
	accessToken, claims, err := t.Access.Issue(sub)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("rotate access token: %w", err)
	}
	return accessToken, claims.ExpiresAt.Time, nil
}
