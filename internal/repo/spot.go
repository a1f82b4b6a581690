package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/garage_market/internal/models"
)

func (r *GormRepo) CreateSpot(ctx context.Context, s *models.ParkingSpot) error {
	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create spot: %w", translate(err))
	}
	return nil
}

func (r *GormRepo) GetSpot(ctx context.Context, id uint) (*models.ParkingSpot, error) {
	var s models.ParkingSpot
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *GormRepo) ListSpots(ctx context.Context, garageID uint) ([]models.ParkingSpot, error) {
	var spots []models.ParkingSpot
	if err := r.DB.WithContext(ctx).Where("garage_id = ?", garageID).Order("id").Find(&spots).Error; err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	return spots, nil
}
