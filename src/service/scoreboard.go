package service

import (
	"context"
	"sort"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StandingsSource derives per-team totals from the submission audit
// trail.
type StandingsSource interface {
	AggregateByTeam(ctx context.Context, eventID uuid.UUID) ([]repository.TeamAggregate, error)
}

// TeamDirectory lists an event's teams and repairs their stored totals.
type TeamDirectory interface {
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Team, error)
	SetPoints(ctx context.Context, teamID uuid.UUID, points int) error
}

// StandingsStore caches computed standings per event.
type StandingsStore interface {
	Get(ctx context.Context, eventID uuid.UUID) ([]repository.StandingsEntry, error)
	Set(ctx context.Context, eventID uuid.UUID, entries []repository.StandingsEntry) error
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}

type ScoreboardService struct {
	submissions StandingsSource
	teams       TeamDirectory
	cache       StandingsStore
}

func NewScoreboardService(submissions StandingsSource, teams TeamDirectory, cache StandingsStore) *ScoreboardService {
	return &ScoreboardService{
		submissions: submissions,
		teams:       teams,
		cache:       cache,
	}
}

func (s *ScoreboardService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "scoreboard-service").Logger()
	return &l
}

// Standings returns the ranked teams of an event, computed from the
// audit trail rather than the stored team totals so that a failed
// points award never hides a recorded solve. Results are cached; the
// cache is dropped on every correct solve.
func (s *ScoreboardService) Standings(ctx context.Context, eventID uuid.UUID) ([]repository.StandingsEntry, error) {
	if s.cache != nil {
		entries, err := s.cache.Get(ctx, eventID)
		if err == nil {
			return entries, nil
		}
		if !repository.IsCacheMiss(err) {
			s.logger(ctx).Warn().Err(err).Msg("standings cache read failed, recomputing")
		}
	}

	entries, err := s.computeStandings(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, eventID, entries); err != nil {
			s.logger(ctx).Warn().Err(err).Msg("failed to cache standings")
		}
	}
	return entries, nil
}

func (s *ScoreboardService) computeStandings(ctx context.Context, eventID uuid.UUID) ([]repository.StandingsEntry, error) {
	teams, err := s.teams.FindByEvent(ctx, eventID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list teams")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to compute standings"))
	}

	aggregates, err := s.submissions.AggregateByTeam(ctx, eventID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to aggregate submissions")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to compute standings"))
	}

	byTeam := make(map[uuid.UUID]repository.TeamAggregate, len(aggregates))
	for _, aggregate := range aggregates {
		byTeam[aggregate.TeamID] = aggregate
	}

	entries := make([]repository.StandingsEntry, 0, len(teams))
	for _, team := range teams {
		entry := repository.StandingsEntry{
			TeamID:   team.ID,
			TeamName: team.Name,
		}
		if aggregate, ok := byTeam[team.ID]; ok {
			entry.Points = aggregate.Points
			entry.SolveCount = aggregate.SolveCount
			entry.LastSolve = aggregate.LastSolve
		}
		entries = append(entries, entry)
	}

	// Ties break toward the earlier last solve.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].LastSolve.Before(entries[j].LastSolve)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	TeamsChecked  int `json:"teamsChecked"`
	TeamsRepaired int `json:"teamsRepaired"`
}

// Reconcile re-derives every team's point total from the audit trail
// and overwrites stored totals that drifted, e.g. after a points
// increment failed once its submission had committed.
func (s *ScoreboardService) Reconcile(ctx context.Context, eventID uuid.UUID) (*ReconcileReport, error) {
	logger := s.logger(ctx).With().Str("event_id", eventID.String()).Logger()

	teams, err := s.teams.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to list teams"))
	}

	aggregates, err := s.submissions.AggregateByTeam(ctx, eventID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to aggregate submissions"))
	}

	expected := make(map[uuid.UUID]int, len(aggregates))
	for _, aggregate := range aggregates {
		expected[aggregate.TeamID] = aggregate.Points
	}

	report := &ReconcileReport{}
	for _, team := range teams {
		report.TeamsChecked++
		want := expected[team.ID]
		if team.Points == want {
			continue
		}

		logger.Warn().
			Str("team_id", team.ID.String()).
			Int("stored", team.Points).
			Int("derived", want).
			Msg("team points drifted from audit trail, repairing")

		if err := s.teams.SetPoints(ctx, team.ID, want); err != nil {
			return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
				domain.WithMsg("Failed to repair team points"))
		}
		report.TeamsRepaired++
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, eventID); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate standings cache")
		}
	}

	logger.Info().
		Int("teams_checked", report.TeamsChecked).
		Int("teams_repaired", report.TeamsRepaired).
		Msg("reconciliation complete")
	return report, nil
}
