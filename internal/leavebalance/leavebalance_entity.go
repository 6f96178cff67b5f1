package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// BalanceOverride is the per (employee, leave type, year) adjustment row.
// Absence means: use the leave type's default balance, no carryover, no
// adjustment. Balances themselves are never persisted, only derived.
type BalanceOverride struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_override_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_override_key"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:idx_balance_override_key"`

	Balance     *int   `gorm:"type:int"`
	CarriedOver int    `gorm:"type:int;not null;default:0"`
	Adjustment  int    `gorm:"type:int;not null;default:0"`
	Notes       string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsageRow is the slice of an approved leave request the calculator needs.
type UsageRow struct {
	StartDate time.Time
	EndDate   time.Time
	HalfDay   bool
}

// Days is the day-weight of one approved request: 0.5 for a half day,
// otherwise the inclusive span between start and end.
func (u UsageRow) Days() float64 {
	if u.HalfDay {
		return 0.5
	}
	return float64(int(u.EndDate.Sub(u.StartDate).Hours()/24) + 1)
}
