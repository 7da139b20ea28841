package service

import (
	"context"
	"testing"
	"time"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/repository"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStandingsSource struct {
	aggregates []repository.TeamAggregate
	calls      int
}

func (s *fakeStandingsSource) AggregateByTeam(ctx context.Context, eventID uuid.UUID) ([]repository.TeamAggregate, error) {
	s.calls++
	return s.aggregates, nil
}

type fakeTeamDirectory struct {
	teams     []*domain.Team
	setPoints map[uuid.UUID]int
}

func (d *fakeTeamDirectory) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Team, error) {
	return d.teams, nil
}

func (d *fakeTeamDirectory) SetPoints(ctx context.Context, teamID uuid.UUID, points int) error {
	if d.setPoints == nil {
		d.setPoints = make(map[uuid.UUID]int)
	}
	d.setPoints[teamID] = points
	return nil
}

type fakeStandingsStore struct {
	entries     map[uuid.UUID][]repository.StandingsEntry
	invalidated int
}

func newFakeStandingsStore() *fakeStandingsStore {
	return &fakeStandingsStore{entries: make(map[uuid.UUID][]repository.StandingsEntry)}
}

func (s *fakeStandingsStore) Get(ctx context.Context, eventID uuid.UUID) ([]repository.StandingsEntry, error) {
	entries, ok := s.entries[eventID]
	if !ok {
		return nil, redis.Nil
	}
	return entries, nil
}

func (s *fakeStandingsStore) Set(ctx context.Context, eventID uuid.UUID, entries []repository.StandingsEntry) error {
	s.entries[eventID] = entries
	return nil
}

func (s *fakeStandingsStore) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	s.invalidated++
	delete(s.entries, eventID)
	return nil
}

func TestStandings_RankedByPointsThenEarlierSolve(t *testing.T) {
	eventID := uuid.New()
	alpha := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "alpha"}
	bravo := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "bravo"}
	idle := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "idle"}

	now := time.Now()
	source := &fakeStandingsSource{aggregates: []repository.TeamAggregate{
		{TeamID: alpha.ID, Points: 200, SolveCount: 2, LastSolve: now},
		{TeamID: bravo.ID, Points: 200, SolveCount: 2, LastSolve: now.Add(-time.Hour)},
	}}
	directory := &fakeTeamDirectory{teams: []*domain.Team{alpha, bravo, idle}}
	cache := newFakeStandingsStore()

	scoreboard := NewScoreboardService(source, directory, cache)

	entries, err := scoreboard.Standings(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Equal points: the earlier last solve ranks higher.
	assert.Equal(t, "bravo", entries[0].TeamName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alpha", entries[1].TeamName)
	assert.Equal(t, 2, entries[1].Rank)

	// Teams without solves still appear, with zero points.
	assert.Equal(t, "idle", entries[2].TeamName)
	assert.Equal(t, 0, entries[2].Points)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestStandings_ServedFromCache(t *testing.T) {
	eventID := uuid.New()
	source := &fakeStandingsSource{}
	directory := &fakeTeamDirectory{}
	cache := newFakeStandingsStore()
	cache.entries[eventID] = []repository.StandingsEntry{{Rank: 1, TeamName: "cached"}}

	scoreboard := NewScoreboardService(source, directory, cache)

	entries, err := scoreboard.Standings(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cached", entries[0].TeamName)
	assert.Equal(t, 0, source.calls, "cache hit must not recompute")
}

func TestReconcile_RepairsDriftedTotals(t *testing.T) {
	eventID := uuid.New()
	drifted := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "drifted", Points: 100}
	intact := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "intact", Points: 300}
	phantom := &domain.Team{ID: uuid.New(), EventID: eventID, Name: "phantom", Points: 50}

	// drifted lost an award (audit says 200), phantom has points with
	// no correct submissions behind them.
	source := &fakeStandingsSource{aggregates: []repository.TeamAggregate{
		{TeamID: drifted.ID, Points: 200},
		{TeamID: intact.ID, Points: 300},
	}}
	directory := &fakeTeamDirectory{teams: []*domain.Team{drifted, intact, phantom}}
	cache := newFakeStandingsStore()

	scoreboard := NewScoreboardService(source, directory, cache)

	report, err := scoreboard.Reconcile(context.Background(), eventID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TeamsChecked)
	assert.Equal(t, 2, report.TeamsRepaired)
	assert.Equal(t, 200, directory.setPoints[drifted.ID])
	assert.Equal(t, 0, directory.setPoints[phantom.ID])
	assert.NotContains(t, directory.setPoints, intact.ID)
	assert.Equal(t, 1, cache.invalidated)
}
