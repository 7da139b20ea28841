package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// HasCorrectSubmission reports whether the user already has a correct
// submission for the challenge.
func (r *SubmissionRepository) HasCorrectSubmission(ctx context.Context, userID, challengeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND is_correct = ?", userID, challengeID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts an immutable submission row. A correct submission that
// violates the unique correct-solve-per-team index means a teammate
// committed first; that is reported as domain.ErrDuplicateSolve so the
// caller can treat it as already solved instead of a hard failure.
func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		if submission.IsCorrect && errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateSolve
		}
		return err
	}
	return nil
}

// SubmissionFilter narrows the audit-trail listing. Nil fields match
// everything.
type SubmissionFilter struct {
	TeamID      *uuid.UUID
	ChallengeID *uuid.UUID
	UserID      *uuid.UUID
	IsCorrect   *bool
	Limit       int
}

// List returns audit-trail rows, newest first.
func (r *SubmissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]*domain.Submission, error) {
	db := r.db.WithContext(ctx).Model(&domain.Submission{})

	if filter.TeamID != nil {
		db = db.Where("team_id = ?", *filter.TeamID)
	}
	if filter.ChallengeID != nil {
		db = db.Where("challenge_id = ?", *filter.ChallengeID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.IsCorrect != nil {
		db = db.Where("is_correct = ?", *filter.IsCorrect)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var submissions []*domain.Submission
	if err := db.Order("submitted_at desc").Limit(limit).Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// TeamAggregate is one team's totals derived from the audit trail.
type TeamAggregate struct {
	TeamID     uuid.UUID
	Points     int
	SolveCount int
	LastSolve  time.Time
}

// AggregateByTeam re-derives per-team totals for an event from correct
// submissions joined to challenge point values. This is the recovery
// source when a points increment failed after a submission committed.
func (r *SubmissionRepository) AggregateByTeam(ctx context.Context, eventID uuid.UUID) ([]TeamAggregate, error) {
	var aggregates []TeamAggregate
	err := r.db.WithContext(ctx).
		Table("submissions s").
		Select("s.team_id, COALESCE(SUM(c.points), 0) as points, COUNT(s.id) as solve_count, MAX(s.submitted_at) as last_solve").
		Joins("JOIN challenges c ON s.challenge_id = c.id").
		Where("s.is_correct = ? AND c.event_id = ?", true, eventID).
		Group("s.team_id").
		Scan(&aggregates).Error
	if err != nil {
		return nil, err
	}
	return aggregates, nil
}
