package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name string    `gorm:"type:varchar(80);not null"`

	DefaultBalance   int  `gorm:"type:int;not null;default:0"`
	IsUnlimited      bool `gorm:"not null;default:false"`
	IsPaid           bool `gorm:"not null;default:true"`
	AllowHalfDay     bool `gorm:"not null;default:false"`
	AllowCarryover   bool `gorm:"not null;default:false"`
	MaxCarryoverDays int  `gorm:"type:int;not null;default:0"`
	RequireApproval  bool `gorm:"not null;default:true"`

	// Eligibility gates. Nil means no restriction.
	AllowedGender    *string `gorm:"type:varchar(10)"`
	RequiredWorkDays *int    `gorm:"type:int"`

	DisplayOrder int  `gorm:"type:int;not null;default:0"`
	IsActive     bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// EligibleFor applies the gender and tenure gates. tenureDays is whole days
// worked; callers pass zero when the start date is unset.
func (t *LeaveType) EligibleFor(gender string, tenureDays int) bool {
	if t.AllowedGender != nil && *t.AllowedGender != gender {
		return false
	}
	if t.RequiredWorkDays != nil && tenureDays < *t.RequiredWorkDays {
		return false
	}
	return true
}
