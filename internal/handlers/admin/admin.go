package admin

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/hash"
	"github.com/Skotchmaster/garage_market/internal/logging"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

type AdminHandler struct {
	Users    repo.UserRepository
	Hasher   hash.Hasher
	Producer mykafka.Publisher
}

type garageAdminRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateGarageAdmin opens a garage_admin account. Only super admins reach it.
func (h *AdminHandler) CreateGarageAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_create_garage_admin")

	var req garageAdminRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	pwHash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return apperr.Internal(err)
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: pwHash, Role: models.RoleGarageAdmin}
	if err := h.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("create_garage_admin_failed", "status", 409, "reason", "user_exists")
			return apperr.Conflict("User already exists")
		}
		return apperr.Internal(err)
	}

	by, _ := authmw.IdentityFrom(c)
	l.Info("garage_admin_created", "status", 201, "user_id", user.ID, "by", by.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicUsers, user.ID, mykafka.NewEvent("garage_admin_created", map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"by":    by.UserID,
	}))

	return response.Created(c, "Garage admin created successfully", map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}
