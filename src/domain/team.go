package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team is the scoring unit. Points is only ever mutated through the
// repository's atomic increment, never read-modify-write.
type Team struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"eventId"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	IsSolo    bool      `gorm:"not null;default:false" json:"isSolo"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TeamID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teamId"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	JoinedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joinedAt"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
