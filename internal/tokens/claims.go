package tokens

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/garage_market/internal/models"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Subject is the identity a token is minted for.
type Subject struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

func SubjectOf(u *models.User) Subject {
	return Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type Claims struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Type   Type        `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Subject() Subject {
	return Subject{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// ExpiresUnix returns exp in unix seconds, 0 when absent.
func (c *Claims) ExpiresUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}
