package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChallengeCategory string

const (
	CategoryWeb       ChallengeCategory = "Web"
	CategoryPwn       ChallengeCategory = "Pwn"
	CategoryCrypto    ChallengeCategory = "Crypto"
	CategoryForensics ChallengeCategory = "Forensics"
	CategoryReverse   ChallengeCategory = "Reverse"
	CategoryMisc      ChallengeCategory = "Misc"
)

// Challenge is a scored task owned by an event. Flag is the stored
// solution and must never be serialized to players.
type Challenge struct {
	ID          uuid.UUID         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Title       string            `gorm:"size:200;not null"`
	Description string            `gorm:"type:text;not null"`
	Category    ChallengeCategory `gorm:"type:varchar(20);not null"`
	Points      int               `gorm:"not null"`
	Flag        string            `gorm:"size:255;not null"`
	Enabled     bool              `gorm:"not null;default:true"`
	SolveCount  int               `gorm:"not null;default:0"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeView is the player-facing shape of a challenge, with the
// solution flag stripped.
type ChallengeView struct {
	ID          uuid.UUID         `json:"id"`
	EventID     uuid.UUID         `json:"eventId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    ChallengeCategory `json:"category"`
	Points      int               `json:"points"`
	SolveCount  int               `json:"solveCount"`
}

func (c *Challenge) View() ChallengeView {
	return ChallengeView{
		ID:          c.ID,
		EventID:     c.EventID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Points:      c.Points,
		SolveCount:  c.SolveCount,
	}
}
