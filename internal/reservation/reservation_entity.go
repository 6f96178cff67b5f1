package reservation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-portal/internal/employee"
)

// Reservation books part of a managed employee's working day. OwnerID is the
// resource's manager captured at creation; later manager changes do not move
// ownership of existing reservations.
type Reservation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResourceID  uuid.UUID `gorm:"type:uuid;not null;index:idx_reservations_resource_date"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterID uuid.UUID `gorm:"type:uuid;not null;index"`

	Date  time.Time       `gorm:"type:date;not null;index:idx_reservations_resource_date"`
	Hours decimal.Decimal `gorm:"type:numeric(4,2);not null"`

	Title       string  `gorm:"type:varchar(120);not null"`
	Description *string `gorm:"type:text"`

	Status          string  `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ResponseComment *string `gorm:"type:text"`
	RespondedAt     *time.Time

	Resource  *employee.Employee `gorm:"foreignKey:ResourceID"`
	Owner     *employee.Employee `gorm:"foreignKey:OwnerID"`
	Requester *employee.Employee `gorm:"foreignKey:RequesterID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
