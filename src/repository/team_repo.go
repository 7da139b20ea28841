package repository

import (
	"context"
	"fmt"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// AddPoints increments a team's point total by delta as a single
// UPDATE with the arithmetic pushed into the database. Concurrent
// correct submissions from different team members must never lose an
// update, so a read-modify-write from the caller is not allowed here.
func (r *TeamRepository) AddPoints(ctx context.Context, teamID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("team %s not found", teamID)
	}
	return nil
}

// SetPoints overwrites a team's point total. Only the reconciliation
// path uses this, after re-deriving the total from the audit trail.
func (r *TeamRepository) SetPoints(ctx context.Context, teamID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("points", points).Error
}
