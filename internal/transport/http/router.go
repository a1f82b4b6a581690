package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/garage_market/internal/handlers/admin"
	authhdl "github.com/Skotchmaster/garage_market/internal/handlers/auth"
	"github.com/Skotchmaster/garage_market/internal/handlers/garage"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/garage_market/internal/middleware/logging"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

type Deps struct {
	DB            *gorm.DB
	Gate          *authmw.Gate
	AuthHandler   *authhdl.AuthHandler
	GarageHandler *garage.GarageHandler
	AdminHandler  *admin.AdminHandler
}

// NewEcho returns an echo instance with the shared middleware stack, the
// validator and the envelope error handler installed.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = response.ErrorHandler(logger)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/logout", d.AuthHandler.Logout)
	authGroup.POST("/refresh", d.AuthHandler.Refresh)

	garageAdmins := d.Gate.Require(models.RoleGarageAdmin)
	garageOwners := d.Gate.Require(models.RoleGarageAdmin, models.RoleSuperAdmin)
	users := d.Gate.Require(models.RoleUser)

	garages := api.Group("/garages")
	garages.GET("", d.GarageHandler.List)
	garages.GET("/mine", d.GarageHandler.Mine, garageAdmins)
	garages.POST("", d.GarageHandler.Create, garageAdmins)
	garages.PUT("/:id", d.GarageHandler.Update, garageOwners)
	garages.DELETE("/:id", d.GarageHandler.Delete, garageOwners)
	garages.GET("/:id/spots", d.GarageHandler.ListSpots)

	api.POST("/spots", d.GarageHandler.CreateSpot, garageAdmins)

	reservations := api.Group("/reservations", users)
	reservations.POST("", d.GarageHandler.Reserve)
	reservations.GET("", d.GarageHandler.ListReservations)
	reservations.DELETE("/:id", d.GarageHandler.Release)

	adminGroup := api.Group("/admin", d.Gate.Require(models.RoleSuperAdmin))
	adminGroup.POST("/garage-admins", d.AdminHandler.CreateGarageAdmin)
}

func (d *Deps) ready(c echo.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
