package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxFlagLength bounds the stored candidate flag text. Candidates are
// trimmed of surrounding whitespace before the bound is applied.
const MaxFlagLength = 100

// ErrDuplicateSolve is returned by the submission store when an insert
// trips the unique correct-solve-per-team constraint: a teammate's
// correct submission committed first.
var ErrDuplicateSolve = errors.New("challenge already solved by team")

// Submission is the immutable audit record of one flag attempt.
// Rows are never updated or deleted; they are the source of truth for
// solved-ness and for reconciling team points.
type Submission struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_submissions_user_challenge" json:"userId"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index" json:"teamId"`
	ChallengeID uuid.UUID `gorm:"type:uuid;not null;index:idx_submissions_user_challenge" json:"challengeId"`
	Flag        string    `gorm:"size:100;not null" json:"flag"`
	IsCorrect   bool      `gorm:"not null" json:"isCorrect"`
	SubmittedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submittedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionResult is the outcome of one flag submission. Success is
// true only for the first correct submission; AlreadySolved covers both
// the per-user short-circuit and a teammate winning the race.
type SubmissionResult struct {
	Success       bool   `json:"success"`
	AlreadySolved bool   `json:"alreadySolved,omitempty"`
	Points        int    `json:"points"`
	Message       string `json:"message"`
}
