package garage

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/logging"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

type spotRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	GarageID uint   `json:"garageID" validate:"required,gte=1"`
}

func (h *GarageHandler) CreateSpot(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "spot_create")

	id, err := identity(c)
	if err != nil {
		return err
	}
	var req spotRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	if _, err := h.ownedGarage(c, id, req.GarageID); err != nil {
		return err
	}

	spot := &models.ParkingSpot{GarageID: req.GarageID, Name: req.Name}
	if err := h.Repo.CreateSpot(ctx, spot); err != nil {
		return apperr.Internal(err)
	}

	l.Info("spot_created", "status", 201, "spot_id", spot.ID, "garage_id", spot.GarageID)
	return response.Created(c, fmt.Sprintf("Parking spot is created successfully with id %d.", spot.ID), spot)
}

func (h *GarageHandler) ListSpots(c echo.Context) error {
	ctx := c.Request().Context()

	garageID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Repo.GetGarage(ctx, garageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return garageNotFound(garageID)
		}
		return apperr.Internal(err)
	}

	spots, err := h.Repo.ListSpots(ctx, garageID)
	if err != nil {
		return apperr.Internal(err)
	}
	return response.OK(c, fmt.Sprintf("Successfully fetched %d spots", len(spots)), spots)
}
