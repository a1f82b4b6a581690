package revocation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/garage_market/internal/models"
)

// GormStore persists revocations in the revoked_tokens table so they survive
// restarts and are shared by every instance on the same database. Tokens are
// stored as sha256 hex and scoped by class.
type GormStore struct {
	DB    *gorm.DB
	Class string
	now   func() time.Time
}

func NewGormStore(db *gorm.DB, class string) *GormStore {
	return &GormStore{DB: db, Class: class, now: time.Now}
}

func (s *GormStore) WithClock(now func() time.Time) *GormStore {
	s.now = now
	return s
}

func (s *GormStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if expiresAt.Unix() <= s.now().Unix() {
		return nil
	}

	entry := models.RevokedToken{
		Class:     s.Class,
		Token:     sha256Hex(token),
		ExpiresAt: expiresAt.Unix(),
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("revoke %s token: %w", s.Class, err)
	}
	return nil
}

func (s *GormStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("class = ? AND token = ? AND expires_at > ?", s.Class, sha256Hex(token), s.now().Unix()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("lookup %s revocation: %w", s.Class, err)
	}
	return count > 0, nil
}

func (s *GormStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res := s.DB.WithContext(ctx).
		Where("class = ? AND expires_at <= ?", s.Class, now.Unix()).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep %s revocations: %w", s.Class, res.Error)
	}
	return int(res.RowsAffected), nil
}
