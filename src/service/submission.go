package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ChallengeStore is the challenge lookup surface the submission flow
// consumes.
type ChallengeStore interface {
	FindEnabledByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error)
	IncrementSolveCount(ctx context.Context, id uuid.UUID) error
}

// SubmissionStore records and queries the immutable attempt audit trail.
type SubmissionStore interface {
	HasCorrectSubmission(ctx context.Context, userID, challengeID uuid.UUID) (bool, error)
	Create(ctx context.Context, submission *domain.Submission) error
}

// TeamStore awards points. AddPoints must be a single atomic increment
// on the store side; the submission flow never reads a total to write
// one back.
type TeamStore interface {
	AddPoints(ctx context.Context, teamID uuid.UUID, delta int) error
}

// StandingsInvalidator drops cached standings for an event after a
// correct solve.
type StandingsInvalidator interface {
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}

type SubmissionService struct {
	challenges  ChallengeStore
	submissions SubmissionStore
	teams       TeamStore
	standings   StandingsInvalidator
}

func NewSubmissionService(challenges ChallengeStore, submissions SubmissionStore, teams TeamStore, standings StandingsInvalidator) *SubmissionService {
	return &SubmissionService{
		challenges:  challenges,
		submissions: submissions,
		teams:       teams,
		standings:   standings,
	}
}

func (s *SubmissionService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "submission-service").Logger()
	return &l
}

// SubmitFlag validates a candidate flag for a challenge and scores the
// first correct solve.
//
// Ordering matters: the already-solved check runs before the
// correctness comparison and before any write, so repeat submissions
// after a solve are a true no-op (no audit row, no points). Every
// other attempt, correct or not, inserts exactly one immutable
// submission row. Points are awarded after the row commits; if the
// award fails the row is kept and the player's credit stands, with the
// discrepancy logged for reconciliation from the audit trail.
func (s *SubmissionService) SubmitFlag(ctx context.Context, userID, teamID, challengeID uuid.UUID, candidateFlag string) (*domain.SubmissionResult, error) {
	logger := s.logger(ctx).With().
		Str("user_id", userID.String()).
		Str("team_id", teamID.String()).
		Str("challenge_id", challengeID.String()).
		Logger()

	if userID == uuid.Nil || teamID == uuid.Nil || challengeID == uuid.Nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("missing required fields"),
			domain.WithMsg("challengeId, teamId, and flag are required"))
	}

	// Trim surrounding whitespace only; internal content is compared
	// verbatim.
	flag := strings.TrimSpace(candidateFlag)
	if flag == "" {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("empty flag"),
			domain.WithMsg("challengeId, teamId, and flag are required"))
	}
	if len(flag) > domain.MaxFlagLength {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("flag exceeds maximum length"),
			domain.WithMsg("Flag too long"))
	}

	solved, err := s.submissions.HasCorrectSubmission(ctx, userID, challengeID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to check existing submissions")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to check submission history"))
	}
	if solved {
		return &domain.SubmissionResult{
			Success:       false,
			AlreadySolved: true,
			Points:        0,
			Message:       "You have already solved this challenge!",
		}, nil
	}

	challenge, err := s.challenges.FindEnabledByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found or disabled"))
		}
		logger.Error().Err(err).Msg("failed to fetch challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to fetch challenge"))
	}

	isCorrect := flag == challenge.Flag

	submission := &domain.Submission{
		UserID:      userID,
		TeamID:      teamID,
		ChallengeID: challengeID,
		Flag:        flag,
		IsCorrect:   isCorrect,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		if errors.Is(err, domain.ErrDuplicateSolve) {
			// A teammate's correct submission committed first. The
			// attempt is not recorded and the team is not scored twice.
			logger.Info().Msg("correct submission lost race to teammate")
			return &domain.SubmissionResult{
				Success:       false,
				AlreadySolved: true,
				Points:        0,
				Message:       "You have already solved this challenge!",
			}, nil
		}
		logger.Error().Err(err).Msg("failed to record submission")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to record submission"))
	}

	if !isCorrect {
		return &domain.SubmissionResult{
			Success: false,
			Points:  0,
			Message: "Incorrect flag. Try again!",
		}, nil
	}

	// The submission row is committed; from here on failures must not
	// take back the player's credit. Totals drift is repaired by
	// reconciliation from the audit trail.
	if err := s.teams.AddPoints(ctx, teamID, challenge.Points); err != nil {
		logger.Error().Err(err).
			Int("points", challenge.Points).
			Msg("points award failed after submission was recorded")
	}

	if err := s.challenges.IncrementSolveCount(ctx, challengeID); err != nil {
		logger.Error().Err(err).Msg("failed to increment solve count")
	}

	if s.standings != nil {
		if err := s.standings.Invalidate(ctx, challenge.EventID); err != nil {
			logger.Error().Err(err).Msg("failed to invalidate standings cache")
		}
	}

	logger.Info().
		Int("points", challenge.Points).
		Msg("challenge solved")

	return &domain.SubmissionResult{
		Success: true,
		Points:  challenge.Points,
		Message: "Correct flag! Points awarded.",
	}, nil
}
