package service

import (
	"context"
	"errors"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
	}
}

func (s *ChallengeService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "challenge-service").Logger()
	return &l
}

// ListEventChallenges returns the enabled challenges of an event with
// the solution flags stripped.
func (s *ChallengeService) ListEventChallenges(ctx context.Context, eventID uuid.UUID) ([]domain.ChallengeView, error) {
	challenges, err := s.challengeRepo.FindEnabledByEvent(ctx, eventID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list challenges")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to list challenges"))
	}

	views := make([]domain.ChallengeView, 0, len(challenges))
	for _, challenge := range challenges {
		views = append(views, challenge.View())
	}
	return views, nil
}

// GetChallenge returns one enabled challenge, flag stripped.
func (s *ChallengeService) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.ChallengeView, error) {
	challenge, err := s.challengeRepo.FindEnabledByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found or disabled"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to fetch challenge"))
	}
	view := challenge.View()
	return &view, nil
}

// CreateChallenge validates and persists a new challenge.
func (s *ChallengeService) CreateChallenge(ctx context.Context, challenge *domain.Challenge) error {
	if err := validateChallenge(challenge); err != nil {
		return err
	}

	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		s.logger(ctx).Error().Err(err).Str("title", challenge.Title).Msg("failed to create challenge")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to create challenge"))
	}

	s.logger(ctx).Info().
		Str("challenge_id", challenge.ID.String()).
		Str("title", challenge.Title).
		Msg("challenge created")
	return nil
}

// UpdateChallenge applies admin edits to an existing challenge.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, challenge *domain.Challenge) error {
	if err := validateChallenge(challenge); err != nil {
		return err
	}

	if _, err := s.challengeRepo.FindByID(ctx, challenge.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found"))
		}
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to fetch challenge"))
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		s.logger(ctx).Error().Err(err).Str("challenge_id", challenge.ID.String()).Msg("failed to update challenge")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to update challenge"))
	}
	return nil
}

func validateChallenge(challenge *domain.Challenge) error {
	if challenge.Title == "" || challenge.Flag == "" || challenge.EventID == uuid.Nil {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("missing required challenge fields"),
			domain.WithMsg("title, flag, and eventId are required"))
	}
	if challenge.Points <= 0 {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("points must be positive"),
			domain.WithMsg("points must be a positive integer"))
	}
	if len(challenge.Flag) > domain.MaxFlagLength {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("flag exceeds maximum length"),
			domain.WithMsg("Flag too long"))
	}
	switch challenge.Category {
	case domain.CategoryWeb, domain.CategoryPwn, domain.CategoryCrypto,
		domain.CategoryForensics, domain.CategoryReverse, domain.CategoryMisc:
	default:
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("unknown challenge category"),
			domain.WithMsg("unknown challenge category"))
	}
	return nil
}
