package complaint

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-portal/internal/employee"
)

const (
	StatusBacklog    = "BACKLOG"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Complaint always stores the owner's real identity; anonymity is applied at
// read time, never at rest.
type Complaint struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Subject     string `gorm:"type:varchar(160);not null"`
	Description string `gorm:"type:text;not null"`
	Status      string `gorm:"type:varchar(20);not null;default:'BACKLOG';index"`

	DirectResponse   *string `gorm:"type:text"`
	DirectResponseAt *time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
	Messages []Message          `gorm:"foreignKey:ComplaintID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null"`

	Content  string `gorm:"type:text;not null"`
	IsFromHR bool   `gorm:"not null;default:false"`

	AttachmentURL  *string `gorm:"type:text"`
	AttachmentName *string `gorm:"type:varchar(255)"`

	Author *employee.Employee `gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time
}

func (Message) TableName() string {
	return "complaint_messages"
}
