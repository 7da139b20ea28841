package domain

import (
	"time"

	"github.com/google/uuid"
)

// CTFEvent groups challenges and teams. Event lifecycle and joining by
// code are managed outside the submission flow.
type CTFEvent struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Code        string    `gorm:"size:20;unique;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"not null" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	IsPublic    bool      `gorm:"not null;default:false" json:"isPublic"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (CTFEvent) TableName() string {
	return "ctf_events"
}
