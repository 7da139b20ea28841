package repository

import (
	"context"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// FindEnabledByID retrieves a challenge by id, requiring enabled=true.
// Disabled challenges are indistinguishable from missing ones.
func (r *ChallengeRepository) FindEnabledByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	var challenge domain.Challenge
	if err := r.db.WithContext(ctx).
		Where("id = ? AND enabled = ?", id, true).
		First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindEnabledByEvent retrieves all enabled challenges for an event.
func (r *ChallengeRepository) FindEnabledByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Challenge, error) {
	var challenges []*domain.Challenge
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND enabled = ?", eventID, true).
		Order("category, points").
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// FindByID retrieves a challenge regardless of its enabled state.
// Used by admin management, not by the submission flow.
func (r *ChallengeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	var challenge domain.Challenge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *ChallengeRepository) Update(ctx context.Context, challenge *domain.Challenge) error {
	return r.db.WithContext(ctx).Save(challenge).Error
}

// IncrementSolveCount bumps the solve counter by one, pushed down to
// the database to stay correct under concurrent solves.
func (r *ChallengeRepository) IncrementSolveCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Challenge{}).
		Where("id = ?", id).
		UpdateColumn("solve_count", gorm.Expr("solve_count + 1")).Error
}
