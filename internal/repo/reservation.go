package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/garage_market/internal/models"
)

// Reserve marks the spot taken and records the reservation in one
// transaction. The conditional update makes two concurrent reservations of
// the same spot end with exactly one winner.
func (r *GormRepo) Reserve(ctx context.Context, userID, spotID uint) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spot models.ParkingSpot
		if err := tx.First(&spot, spotID).Error; err != nil {
			return translate(err)
		}
		var active int64
		if err := tx.Model(&models.Garage{}).Where("id = ? AND active = ?", spot.GarageID, true).Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return ErrNotFound
		}

		upd := tx.Model(&models.ParkingSpot{}).
			Where("id = ? AND reserved = ?", spotID, false).
			Update("reserved", true)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrSpotTaken
		}

		res = models.Reservation{SpotID: spotID, UserID: userID}
		return tx.Create(&res).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSpotTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve spot: %w", err)
	}
	return &res, nil
}

func (r *GormRepo) ListReservations(ctx context.Context, userID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

// Release ends the user's reservation and frees the spot.
func (r *GormRepo) Release(ctx context.Context, userID, reservationID uint, at time.Time) (*models.Reservation, error) {
	var res models.Reservation
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res, reservationID).Error; err != nil {
			return translate(err)
		}
		if res.UserID != userID {
			return ErrNotOwner
		}
		if res.ReleasedAt != nil {
			return ErrAlreadyReleased
		}

		res.ReleasedAt = &at
		if err := tx.Model(&res).Update("released_at", at).Error; err != nil {
			return err
		}
		return tx.Model(&models.ParkingSpot{}).Where("id = ?", res.SpotID).Update("reserved", false).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotOwner), errors.Is(err, ErrAlreadyReleased):
			return nil, err
		}
		return nil, fmt.Errorf("release reservation: %w", err)
	}
	return &res, nil
}
