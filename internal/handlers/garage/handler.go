package garage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/garage_market/internal/apperr"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	"github.com/Skotchmaster/garage_market/internal/models"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
)

// Indexer is the full-text side of the garage catalogue. It is optional;
// without it search falls back to SQL filters.
type Indexer interface {
	Put(ctx context.Context, g *models.Garage) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type GarageHandler struct {
	Repo     *repo.GormRepo
	Index    Indexer
	Producer mykafka.Publisher
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Malformed(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}

func identity(c echo.Context) (authmw.Identity, error) {
	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return authmw.Identity{}, apperr.Internal(fmt.Errorf("route %s is not behind the auth gate", c.Path()))
	}
	return id, nil
}
