package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the singleton configuration row (id always 1). Every workflow
// component reads it; only HR mutates it.
type Settings struct {
	ID uint `gorm:"primaryKey"`

	MaxConsecutiveLeaveDays int             `gorm:"type:int;not null;default:14"`
	WorkHoursPerDay         decimal.Decimal `gorm:"type:numeric(4,2);not null;default:8"`
	CarryoverCap            int             `gorm:"type:int;not null;default:10"`

	ChatEnabled                 bool `gorm:"not null;default:true"`
	ReservationApprovalRequired bool `gorm:"not null;default:true"`

	UpdatedAt time.Time
}

func defaults() Settings {
	return Settings{
		ID:                          1,
		MaxConsecutiveLeaveDays:     14,
		WorkHoursPerDay:             decimal.NewFromInt(8),
		CarryoverCap:                10,
		ChatEnabled:                 true,
		ReservationApprovalRequired: true,
	}
}
