package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/logging"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/revocation"
	"github.com/Skotchmaster/garage_market/internal/tokens"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
)

var (
	errHeaderMissing = apperr.Unauthenticated("Authorization header not found")
	errTokenMissing  = apperr.Unauthenticated("Authorization token not found")
	errBadScheme     = apperr.Unauthenticated("Malformed authorization header")
	errRevoked       = apperr.Unauthenticated("Access token is blacklisted already")
	errInvalid       = apperr.Unauthenticated("Invalid access token")
	errExpired       = apperr.Unauthenticated("Access token expired")
)

// Credential is a bearer token that passed extraction, revocation and
// verification.
type Credential struct {
	Token    string
	Claims   *tokens.Claims
	Identity Identity
}

// Gate guards routes with an access token. It holds no per-route state;
// the allowed roles are supplied to Require.
type Gate struct {
	Access  *tokens.Codec
	Revoked revocation.Store
}

func NewGate(access *tokens.Codec, revoked revocation.Store) *Gate {
	return &Gate{Access: access, Revoked: revoked}
}

// Authenticate extracts the bearer token, rejects revoked tokens and verifies
// the rest. It does not look at the role.
func (g *Gate) Authenticate(c echo.Context) (*Credential, error) {
	l := logging.FromContext(c.Request().Context())

	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		l.Warn("auth_failed", "status", 401, "reason", reasonOf(err))
		return nil, err
	}

	revoked, err := g.Revoked.IsRevoked(c.Request().Context(), raw)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("check access revocation: %w", err))
	}
	if revoked {
		l.Warn("auth_failed", "status", 401, "reason", "revoked")
		return nil, errRevoked
	}

	claims, err := g.Access.Verify(raw)
	if err != nil {
		if tokens.IsExpired(err) {
			l.Info("auth_failed", "status", 401, "reason", "expired")
			return nil, errExpired.Wrap(err)
		}
		l.Warn("auth_failed", "status", 401, "reason", "invalid", "error", err)
		return nil, errInvalid.Wrap(err)
	}

	return &Credential{Token: raw, Claims: claims, Identity: identityOf(claims)}, nil
}

// Require authenticates the request and admits it only when the caller's role
// is one of roles. With no roles any authenticated caller is admitted. On
// failure the response is written here and next is not called.
func (g *Gate) Require(roles ...models.Role) echo.MiddlewareFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred, err := g.Authenticate(c)
			if err != nil {
				return response.Error(c, err)
			}

			if len(allowed) > 0 {
				if _, ok := allowed[cred.Identity.Role]; !ok {
					logging.FromContext(c.Request().Context()).Warn("auth_forbidden",
						"status", 403,
						"user_id", cred.Identity.UserID,
						"role", cred.Identity.Role,
					)
					return response.Error(c, apperr.Forbidden(
						fmt.Sprintf("The user '%s' is not allowed to access this resource.", cred.Identity.Email),
					))
				}
			}

			setIdentity(c, cred.Identity)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errHeaderMissing
	}
	scheme, token, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", errBadScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errTokenMissing
	}
	return token, nil
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, errHeaderMissing):
		return "header_missing"
	case errors.Is(err, errTokenMissing):
		return "token_missing"
	default:
		return "bad_scheme"
	}
}
