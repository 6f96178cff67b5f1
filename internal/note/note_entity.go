package note

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a private scratchpad entry, visible to its owner only.
type Note struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Title string `gorm:"type:varchar(160);not null"`
	Body  string `gorm:"type:text"`
	Color string `gorm:"type:varchar(20);not null;default:'default'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
