package announcement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-portal/internal/employee"
)

type Announcement struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`

	Title  string `gorm:"type:varchar(160);not null"`
	Body   string `gorm:"type:text;not null"`
	Pinned bool   `gorm:"not null;default:false;index"`

	PublishedAt time.Time `gorm:"not null"`

	Author *employee.Employee `gorm:"foreignKey:AuthorID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
