package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the authentication identity. Subject is the stable identifier the
// upstream SSO provider asserts; PasswordHash is only set for accounts that
// use the local fallback login.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Subject      string     `gorm:"type:varchar(255);uniqueIndex"`
	EmployeeID   *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:varchar(255)"`
	Role         string     `gorm:"type:varchar(50);not null;default:'EMPLOYEE'"`
	IsActive     bool       `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
