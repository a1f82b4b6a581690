package garage

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/logging"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

type reserveRequest struct {
	SpotID uint `json:"spotID" validate:"required,gte=1"`
}

func (h *GarageHandler) Reserve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_create")

	id, err := identity(c)
	if err != nil {
		return err
	}
	var req reserveRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.Repo.Reserve(ctx, id.UserID, req.SpotID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(fmt.Sprintf("Parking spot %d not found", req.SpotID))
	case errors.Is(err, repo.ErrSpotTaken):
		l.Info("reservation_conflict", "status", 409, "spot_id", req.SpotID, "user_id", id.UserID)
		return apperr.Conflict(fmt.Sprintf("Parking spot %d is already reserved", req.SpotID))
	case err != nil:
		return apperr.Internal(err)
	}

	l.Info("reservation_created", "status", 201, "reservation_id", res.ID, "spot_id", res.SpotID, "user_id", id.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicReservations, res.ID, mykafka.NewEvent("spot_reserved", res))

	return response.Created(c, "Spot reserved successfully", res)
}

func (h *GarageHandler) ListReservations(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	out, err := h.Repo.ListReservations(c.Request().Context(), id.UserID)
	if err != nil {
		return apperr.Internal(err)
	}
	return response.OK(c, fmt.Sprintf("Successfully fetched %d reservations", len(out)), out)
}

func (h *GarageHandler) Release(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_release")

	id, err := identity(c)
	if err != nil {
		return err
	}
	resID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.Repo.Release(ctx, id.UserID, resID, time.Now().UTC())
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(fmt.Sprintf("Reservation %d not found", resID))
	case errors.Is(err, repo.ErrNotOwner):
		l.Warn("reservation_forbidden", "status", 403, "reservation_id", resID, "user_id", id.UserID)
		return apperr.Forbidden(fmt.Sprintf(
			"User with ID %d is not allowed to access this reservation with ID %d.", id.UserID, resID))
	case errors.Is(err, repo.ErrAlreadyReleased):
		return apperr.Conflict(fmt.Sprintf("Reservation %d is already released", resID))
	case err != nil:
		return apperr.Internal(err)
	}

	l.Info("reservation_released", "status", 200, "reservation_id", res.ID, "user_id", id.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicReservations, res.ID, mykafka.NewEvent("spot_released", res))

	return response.OK(c, "Reservation released successfully", res)
}
