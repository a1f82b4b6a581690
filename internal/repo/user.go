package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/garage_market/internal/models"
)

// GetUserByEmail matches email exactly, case included.
func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// CreateUser inserts u unless the email is taken, in which case ErrDuplicate
// is returned and u is left untouched.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var existing models.User
	tx := r.DB.WithContext(ctx).
		Where("email = ?", u.Email).
		Attrs(*u).
		FirstOrCreate(&existing)
	if tx.Error != nil {
		return fmt.Errorf("create user: %w", translate(tx.Error))
	}
	if tx.RowsAffected == 0 {
		return ErrDuplicate
	}
	*u = existing
	return nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
