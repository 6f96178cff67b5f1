package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EmployeeNumber string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	Email          string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Gender         string    `gorm:"type:varchar(10)"`
	StartWorkDate  *time.Time `gorm:"type:date"`

	// Managers who approve this employee's leave and own their reserved time.
	Managers []Employee `gorm:"many2many:employee_managers;joinForeignKey:EmployeeID;joinReferences:ManagerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TenureDays is whole days worked as of now, zero when the start date is unset.
func (e *Employee) TenureDays(now time.Time) int {
	if e.StartWorkDate == nil {
		return 0
	}
	days := int(now.Sub(*e.StartWorkDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
