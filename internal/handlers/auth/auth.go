package auth

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/hash"
	"github.com/Skotchmaster/garage_market/internal/logging"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/revocation"
	"github.com/Skotchmaster/garage_market/internal/service"
	"github.com/Skotchmaster/garage_market/internal/tokens"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

var (
	errUserExists     = apperr.Conflict("User already exists")
	errUserNotFound   = apperr.NotFound("User not found")
	errBadPassword    = apperr.Unauthenticated("Incorrect password")
	errCookieMissing  = apperr.Unauthenticated("Refresh token cookie is missing")
	errRefreshRevoked = apperr.Unauthenticated("Refresh token is blacklisted already")
	errRefreshExpired = apperr.Unauthenticated("Refresh token expired")
	errRefreshInvalid = apperr.Unauthenticated("Invalid refresh token")
)

// AuthHandler serves the session lifecycle: register, login, logout and
// refresh. Access revocations go through Gate.Revoked.
type AuthHandler struct {
	Users          repo.UserRepository
	Hasher         hash.Hasher
	Tokens         *service.TokenService
	Gate           *authmw.Gate
	RefreshRevoked revocation.Store
	Producer       mykafka.Publisher
	Cookie         CookieConfig
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type userView struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type tokenView struct {
	AccessToken string `json:"accessToken"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req registerRequest
	if err := validation.Bind(c, &req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid_body")
		return err
	}

	pwHash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return apperr.Internal(err)
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: pwHash, Role: models.RoleUser}
	if err := h.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_failed", "status", 409, "reason", "user_exists")
			return errUserExists
		}
		return apperr.Internal(err)
	}

	l.Info("register_ok", "status", 201, "user_id", user.ID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicUsers, user.ID,
		mykafka.NewEvent("user_registered", viewOf(user)))

	return response.Created(c, "User created successfully", viewOf(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := validation.Bind(c, &req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid_body")
		return err
	}

	user, err := h.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 404, "reason", "user_not_found")
			return errUserNotFound
		}
		return apperr.Internal(err)
	}

	if !h.Hasher.Compare(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "bad_password", "user_id", user.ID)
		return errBadPassword
	}

	pair, err := h.Tokens.IssuePair(user)
	if err != nil {
		return apperr.Internal(err)
	}

	c.SetCookie(CreateCookie(h.Cookie, pair.RefreshToken, h.Tokens.Refresh.TTL()))

	l.Info("login_ok", "status", 200, "user_id", user.ID, "role", user.Role)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicUsers, user.ID,
		mykafka.NewEvent("user_logged_in", map[string]any{"id": user.ID}))

	return response.OK(c, "Login successful", tokenView{AccessToken: pair.AccessToken})
}

// Logout revokes the bearer access token first. A missing or bad refresh
// cookie is still reported after that, and the access revocation stands.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	cred, err := h.Gate.Authenticate(c)
	if err != nil {
		return err
	}

	if err := h.Gate.Revoked.Revoke(ctx, cred.Token, cred.Claims.ExpiresAt.Time); err != nil {
		return apperr.Internal(fmt.Errorf("revoke access token: %w", err))
	}

	raw, claims, err := h.refreshFromCookie(c)
	if err != nil {
		l.Warn("logout_partial", "status", 401, "user_id", cred.Identity.UserID, "reason", err.Error())
		return err
	}
	if claims.UserID != cred.Identity.UserID {
		l.Warn("logout_partial", "status", 401, "user_id", cred.Identity.UserID, "reason", "refresh_owner_mismatch")
		return errRefreshInvalid
	}

	if err := h.RefreshRevoked.Revoke(ctx, raw, claims.ExpiresAt.Time); err != nil {
		return apperr.Internal(fmt.Errorf("revoke refresh token: %w", err))
	}
	c.SetCookie(DeleteCookie(h.Cookie))

	l.Info("logout_ok", "status", 200, "user_id", cred.Identity.UserID)
	return response.OK(c, "Logout successful", nil)
}

// Refresh mints a new access token from the refresh cookie. The role is
// re-read from the user record, and the refresh token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	_, claims, err := h.refreshFromCookie(c)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", err.Error())
		return err
	}

	user, err := h.Users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 404, "reason", "user_not_found", "user_id", claims.UserID)
			return errUserNotFound
		}
		return apperr.Internal(err)
	}

	access, _, err := h.Tokens.RotateAccess(tokens.SubjectOf(user))
	if err != nil {
		return apperr.Internal(err)
	}

	l.Info("refresh_ok", "status", 200, "user_id", user.ID)
	return response.OK(c, "Access token refreshed successfully", tokenView{AccessToken: access})
}

func (h *AuthHandler) refreshFromCookie(c echo.Context) (string, *tokens.Claims, error) {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", nil, errCookieMissing
	}
	raw := cookie.Value

	revoked, err := h.RefreshRevoked.IsRevoked(c.Request().Context(), raw)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("check refresh revocation: %w", err))
	}
	if revoked {
		return "", nil, errRefreshRevoked
	}

	claims, err := h.Tokens.Refresh.Verify(raw)
	if err != nil {
		if tokens.IsExpired(err) {
			return "", nil, errRefreshExpired.Wrap(err)
		}
		return "", nil, errRefreshInvalid.Wrap(err)
	}
	return raw, claims, nil
}

