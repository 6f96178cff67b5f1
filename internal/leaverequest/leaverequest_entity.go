package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-portal/internal/employee"
	"go-portal/internal/leavetype"
)

const (
	HalfMorning   = "MORNING"
	HalfAfternoon = "AFTERNOON"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	Reason    string    `gorm:"type:text;not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`

	HalfDay        bool    `gorm:"not null;default:false"`
	HalfDayPortion *string `gorm:"type:varchar(10)"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	Employee  *employee.Employee   `gorm:"foreignKey:EmployeeID"`
	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`
	Approvals []Approval           `gorm:"foreignKey:LeaveRequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Approval is one required approver's row, fanned out at creation time.
// Approved stays nil until the approver responds.
type Approval struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Approved    *bool   `gorm:"type:boolean"`
	Comment     *string `gorm:"type:text"`
	RespondedAt *time.Time

	Approver *employee.Employee `gorm:"foreignKey:ApproverID"`

	CreatedAt time.Time
}

func (Approval) TableName() string {
	return "leave_approvals"
}

// SpanDays is the inclusive day count of the request.
func (l *LeaveRequest) SpanDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
