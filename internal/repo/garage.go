package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/garage_market/internal/models"
)

type GarageFilter struct {
	Name     string
	Location string
	AdminID  uint
	Offset   int
	Limit    int
}

func (r *GormRepo) CreateGarage(ctx context.Context, g *models.Garage) error {
	g.Active = true
	if err := r.DB.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create garage: %w", translate(err))
	}
	return nil
}

// GetGarage returns an active garage.
func (r *GormRepo) GetGarage(ctx context.Context, id uint) (*models.Garage, error) {
	var g models.Garage
	err := r.DB.WithContext(ctx).Where("active = ?", true).First(&g, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// ListGarages returns one page of active garages plus the total match count.
// Name and location match as case-insensitive substrings.
func (r *GormRepo) ListGarages(ctx context.Context, f GarageFilter) ([]models.Garage, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Garage{}).Where("active = ?", true)
	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+f.Name+"%")
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+f.Location+"%")
	}
	if f.AdminID != 0 {
		q = q.Where("admin_id = ?", f.AdminID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count garages: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	var garages []models.Garage
	if err := q.Order("id").Offset(f.Offset).Limit(limit).Find(&garages).Error; err != nil {
		return nil, 0, fmt.Errorf("list garages: %w", err)
	}
	return garages, total, nil
}

// GaragesByIDs loads active garages keeping the order of ids. Unknown or
// inactive ids are skipped.
func (r *GormRepo) GaragesByIDs(ctx context.Context, ids []uint) ([]models.Garage, error) {
	if len(ids) == 0 {
		return []models.Garage{}, nil
	}
	var found []models.Garage
	if err := r.DB.WithContext(ctx).Where("id IN ? AND active = ?", ids, true).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("load garages: %w", err)
	}

	byID := make(map[uint]models.Garage, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	out := make([]models.Garage, 0, len(found))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GormRepo) UpdateGarage(ctx context.Context, g *models.Garage) error {
	err := r.DB.WithContext(ctx).
		Model(&models.Garage{ID: g.ID}).
		Select("name", "location", "price_per_hour").
		Updates(g).Error
	if err != nil {
		return fmt.Errorf("update garage: %w", err)
	}
	return nil
}

// DeactivateGarage hides the garage; its spots and reservation history stay.
func (r *GormRepo) DeactivateGarage(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Garage{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate garage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
