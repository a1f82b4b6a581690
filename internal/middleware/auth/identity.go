package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/tokens"
)

const identityKey = "auth.identity"

// Identity is what handlers may trust about the caller.
type Identity struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

func identityOf(claims *tokens.Claims) Identity {
	return Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

func setIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by Require. ok is false on
// routes that are not behind the gate.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// WithIdentity attaches id to c, for handlers exercised without the gate.
func WithIdentity(c echo.Context, id Identity) {
	setIdentity(c, id)
}
