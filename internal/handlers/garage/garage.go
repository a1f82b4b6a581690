package garage

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	"github.com/Skotchmaster/garage_market/internal/logging"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/transport/response"
	"github.com/Skotchmaster/garage_market/internal/util"
	"github.com/Skotchmaster/garage_market/internal/validation"
)

type garageRequest struct {
	Name         string  `json:"name"         validate:"required,max=200"`
	Location     string  `json:"location"     validate:"required,max=200"`
	PricePerHour float64 `json:"pricePerHour" validate:"gte=1"`
}

type garageList struct {
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
	Garages []models.Garage `json:"garages"`
}

// List serves the public catalogue. q goes to the search index when one is
// configured, name and location filter in SQL.
func (h *GarageHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "garage_list")
	page := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))

	filter := repo.GarageFilter{
		Name:     c.QueryParam("name"),
		Location: c.QueryParam("location"),
		Offset:   page.Offset(),
		Limit:    page.Size,
	}

	if q := c.QueryParam("q"); q != "" {
		if h.Index != nil {
			total, ids, err := h.Index.Search(ctx, q, page.Offset(), page.Size)
			if err == nil {
				garages, err := h.Repo.GaragesByIDs(ctx, ids)
				if err != nil {
					return apperr.Internal(err)
				}
				return h.listed(c, total, page, garages)
			}
			l.Error("garage_search_failed", "error", err)
		}
		if filter.Name == "" {
			filter.Name = q
		}
	}

	garages, total, err := h.Repo.ListGarages(ctx, filter)
	if err != nil {
		return apperr.Internal(err)
	}
	return h.listed(c, total, page, garages)
}

func (h *GarageHandler) listed(c echo.Context, total int64, page util.Page, garages []models.Garage) error {
	return response.OK(c, fmt.Sprintf("Successfully fetched %d garages", len(garages)), garageList{
		Total:   total,
		Page:    page.Number,
		Size:    page.Size,
		Garages: garages,
	})
}

func (h *GarageHandler) Mine(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	page := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))

	garages, total, err := h.Repo.ListGarages(c.Request().Context(), repo.GarageFilter{
		AdminID: id.UserID,
		Offset:  page.Offset(),
		Limit:   page.Size,
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return response.OK(c,
		fmt.Sprintf("Successfully fetched %d garages of admin with ID %d", len(garages), id.UserID),
		garageList{Total: total, Page: page.Number, Size: page.Size, Garages: garages},
	)
}

func (h *GarageHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "garage_create")

	id, err := identity(c)
	if err != nil {
		return err
	}
	var req garageRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	g := &models.Garage{Name: req.Name, Location: req.Location, PricePerHour: req.PricePerHour, AdminID: id.UserID}
	if err := h.Repo.CreateGarage(ctx, g); err != nil {
		return apperr.Internal(err)
	}

	h.reindex(c, g)
	l.Info("garage_created", "status", 201, "garage_id", g.ID, "admin_id", id.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicGarages, g.ID, mykafka.NewEvent("garage_created", g))

	return response.Created(c, fmt.Sprintf("Garage created successfully with id: %d", g.ID), g)
}

func (h *GarageHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "garage_update")

	id, err := identity(c)
	if err != nil {
		return err
	}
	garageID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req garageRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	g, err := h.ownedGarage(c, id, garageID)
	if err != nil {
		return err
	}
	g.Name, g.Location, g.PricePerHour = req.Name, req.Location, req.PricePerHour
	if err := h.Repo.UpdateGarage(ctx, g); err != nil {
		return apperr.Internal(err)
	}

	h.reindex(c, g)
	l.Info("garage_updated", "status", 200, "garage_id", g.ID, "user_id", id.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicGarages, g.ID, mykafka.NewEvent("garage_updated", g))

	return response.OK(c, "Garage updated successfully", g)
}

func (h *GarageHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "garage_delete")

	id, err := identity(c)
	if err != nil {
		return err
	}
	garageID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.ownedGarage(c, id, garageID); err != nil {
		return err
	}
	if err := h.Repo.DeactivateGarage(ctx, garageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return garageNotFound(garageID)
		}
		return apperr.Internal(err)
	}

	if h.Index != nil {
		if err := h.Index.Remove(ctx, garageID); err != nil {
			l.Error("garage_unindex_failed", "garage_id", garageID, "error", err)
		}
	}
	l.Info("garage_deleted", "status", 200, "garage_id", garageID, "user_id", id.UserID)
	mykafka.Emit(ctx, h.Producer, l, mykafka.TopicGarages, garageID,
		mykafka.NewEvent("garage_deleted", map[string]any{"id": garageID}))

	return response.OK(c, "Garage deleted successfully", nil)
}

// ownedGarage loads the garage and checks that the caller may change it.
// Super admins may change any garage.
func (h *GarageHandler) ownedGarage(c echo.Context, id authmw.Identity, garageID uint) (*models.Garage, error) {
	g, err := h.Repo.GetGarage(c.Request().Context(), garageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, garageNotFound(garageID)
		}
		return nil, apperr.Internal(err)
	}
	if id.Role != models.RoleSuperAdmin && g.AdminID != id.UserID {
		logging.FromContext(c.Request().Context()).Warn("garage_forbidden",
			"status", 403, "garage_id", garageID, "user_id", id.UserID)
		return nil, apperr.Forbidden(fmt.Sprintf(
			"User with ID %d is not allowed to access this garage with ID %d.", id.UserID, garageID))
	}
	return g, nil
}

func (h *GarageHandler) reindex(c echo.Context, g *models.Garage) {
	if h.Index == nil {
		return
	}
	if err := h.Index.Put(c.Request().Context(), g); err != nil {
		logging.FromContext(c.Request().Context()).Error("garage_index_failed", "garage_id", g.ID, "error", err)
	}
}

func garageNotFound(id uint) error {
	return apperr.NotFound(fmt.Sprintf("Garage %d not found", id))
}
