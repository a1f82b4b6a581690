package models

import (
	"time"
)

type Role string

const (
	RoleUser        Role = "user"
	RoleGarageAdmin Role = "garage_admin"
	RoleSuperAdmin  Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGarageAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `                                json:"createdAt"`
}

type Garage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null;index"           json:"name"`
	Location     string    `gorm:"not null;index"           json:"location"`
	PricePerHour float64   `gorm:"not null"                 json:"pricePerHour"`
	AdminID      uint      `gorm:"index;not null"           json:"adminID"`
	Active       bool      `gorm:"default:true"             json:"-"`
	CreatedAt    time.Time `                                json:"createdAt"`
	UpdatedAt    time.Time `                                json:"updatedAt"`
}

type ParkingSpot struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GarageID uint   `gorm:"index;not null"           json:"garageID"`
	Name     string `gorm:"not null"                 json:"name"`
	Reserved bool   `gorm:"default:false"            json:"reserved"`
}

type Reservation struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SpotID     uint       `gorm:"index;not null"           json:"spotID"`
	UserID     uint       `gorm:"index;not null"           json:"userID"`
	CreatedAt  time.Time  `                                json:"createdAt"`
	ReleasedAt *time.Time `                                json:"releasedAt,omitempty"`
}

// RevokedToken backs the database revocation store. Token holds the sha256
// of the raw token, never the token itself.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"                              json:"id"`
	Class     string    `gorm:"not null;uniqueIndex:idx_revoked_class_token" json:"class"`
	Token     string    `gorm:"not null;uniqueIndex:idx_revoked_class_token" json:"-"`
	ExpiresAt int64     `gorm:"not null;index"                          json:"expires_at"`
	CreatedAt time.Time `                                               json:"created_at"`
}

func All() []any {
	return []any{&User{}, &Garage{}, &ParkingSpot{}, &Reservation{}, &RevokedToken{}}
}
