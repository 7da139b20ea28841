package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChallengeStore struct {
	challenges   map[uuid.UUID]*domain.Challenge
	solveCounts  map[uuid.UUID]int
	incrementErr error
}

func newFakeChallengeStore(challenges ...*domain.Challenge) *fakeChallengeStore {
	store := &fakeChallengeStore{
		challenges:  make(map[uuid.UUID]*domain.Challenge),
		solveCounts: make(map[uuid.UUID]int),
	}
	for _, challenge := range challenges {
		store.challenges[challenge.ID] = challenge
	}
	return store
}

func (s *fakeChallengeStore) FindEnabledByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	challenge, ok := s.challenges[id]
	if !ok || !challenge.Enabled {
		return nil, gorm.ErrRecordNotFound
	}
	return challenge, nil
}

func (s *fakeChallengeStore) IncrementSolveCount(ctx context.Context, id uuid.UUID) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.solveCounts[id]++
	return nil
}

type fakeSubmissionStore struct {
	submissions []*domain.Submission
	createErr   error
}

func (s *fakeSubmissionStore) HasCorrectSubmission(ctx context.Context, userID, challengeID uuid.UUID) (bool, error) {
	for _, submission := range s.submissions {
		if submission.UserID == userID && submission.ChallengeID == challengeID && submission.IsCorrect {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSubmissionStore) Create(ctx context.Context, submission *domain.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	if submission.IsCorrect {
		for _, existing := range s.submissions {
			if existing.TeamID == submission.TeamID && existing.ChallengeID == submission.ChallengeID && existing.IsCorrect {
				return domain.ErrDuplicateSolve
			}
		}
	}
	s.submissions = append(s.submissions, submission)
	return nil
}

type fakeTeamStore struct {
	points   map[uuid.UUID]int
	addErr   error
	addCalls int
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{points: make(map[uuid.UUID]int)}
}

func (s *fakeTeamStore) AddPoints(ctx context.Context, teamID uuid.UUID, delta int) error {
	s.addCalls++
	if s.addErr != nil {
		return s.addErr
	}
	s.points[teamID] += delta
	return nil
}

type fakeInvalidator struct {
	invalidated []uuid.UUID
}

func (s *fakeInvalidator) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	s.invalidated = append(s.invalidated, eventID)
	return nil
}

type submissionFixture struct {
	service     *SubmissionService
	challenges  *fakeChallengeStore
	submissions *fakeSubmissionStore
	teams       *fakeTeamStore
	standings   *fakeInvalidator

	eventID     uuid.UUID
	challengeID uuid.UUID
	userID      uuid.UUID
	teamID      uuid.UUID
}

func newSubmissionFixture(flag string, points int, enabled bool) *submissionFixture {
	f := &submissionFixture{
		eventID:     uuid.New(),
		challengeID: uuid.New(),
		userID:      uuid.New(),
		teamID:      uuid.New(),
	}
	f.challenges = newFakeChallengeStore(&domain.Challenge{
		ID:      f.challengeID,
		EventID: f.eventID,
		Title:   "Basic SQL Injection",
		Points:  points,
		Flag:    flag,
		Enabled: enabled,
	})
	f.submissions = &fakeSubmissionStore{}
	f.teams = newFakeTeamStore()
	f.standings = &fakeInvalidator{}
	f.service = NewSubmissionService(f.challenges, f.submissions, f.teams, f.standings)
	return f
}

func (f *submissionFixture) submit(t *testing.T, flag string) (*domain.SubmissionResult, error) {
	t.Helper()
	return f.service.SubmitFlag(context.Background(), f.userID, f.teamID, f.challengeID, flag)
}

func assertDomainErrorCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}

func TestSubmitFlag_CorrectFlagAwardsPointsOnce(t *testing.T) {
	f := newSubmissionFixture("CTF{sql_1nj3ct10n_b4s1c}", 100, true)

	// Surrounding whitespace is trimmed before comparison.
	result, err := f.submit(t, "  CTF{sql_1nj3ct10n_b4s1c}  ")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.AlreadySolved)
	assert.Equal(t, 100, result.Points)
	assert.Equal(t, "Correct flag! Points awarded.", result.Message)

	assert.Equal(t, 100, f.teams.points[f.teamID])
	assert.Equal(t, 1, f.challenges.solveCounts[f.challengeID])
	assert.Equal(t, []uuid.UUID{f.eventID}, f.standings.invalidated)

	require.Len(t, f.submissions.submissions, 1)
	recorded := f.submissions.submissions[0]
	assert.True(t, recorded.IsCorrect)
	assert.Equal(t, "CTF{sql_1nj3ct10n_b4s1c}", recorded.Flag, "stored flag should be trimmed")
}

func TestSubmitFlag_RepeatSubmissionIsNoOp(t *testing.T) {
	f := newSubmissionFixture("CTF{sql_1nj3ct10n_b4s1c}", 100, true)

	first, err := f.submit(t, "CTF{sql_1nj3ct10n_b4s1c}")
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := f.submit(t, "CTF{sql_1nj3ct10n_b4s1c}")
	require.NoError(t, err)

	assert.False(t, second.Success)
	assert.True(t, second.AlreadySolved)
	assert.Equal(t, 0, second.Points)

	// No second audit row, no second award.
	assert.Len(t, f.submissions.submissions, 1)
	assert.Equal(t, 100, f.teams.points[f.teamID])
	assert.Equal(t, 1, f.teams.addCalls)
}

func TestSubmitFlag_IncorrectFlagStillRecorded(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 50, true)

	result, err := f.submit(t, "CTF{wrong}")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Points)
	assert.Equal(t, "Incorrect flag. Try again!", result.Message)

	require.Len(t, f.submissions.submissions, 1)
	assert.False(t, f.submissions.submissions[0].IsCorrect)
	assert.Equal(t, 0, f.teams.points[f.teamID])
	assert.Empty(t, f.standings.invalidated)
}

func TestSubmitFlag_ComparisonIsCaseSensitive(t *testing.T) {
	f := newSubmissionFixture("CTF{abc}", 10, true)

	result, err := f.submit(t, "ctf{abc}")
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, f.submissions.submissions, 1)
	assert.False(t, f.submissions.submissions[0].IsCorrect)
}

func TestSubmitFlag_LengthBoundary(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 10, true)

	tooLong := strings.Repeat("a", domain.MaxFlagLength+1)
	_, err := f.submit(t, tooLong)
	assertDomainErrorCode(t, err, domain.ErrorCodeParameterInvalid)
	assert.Empty(t, f.submissions.submissions, "no audit row before validation passes")

	// Exactly at the bound is accepted and compared normally.
	atBound := strings.Repeat("a", domain.MaxFlagLength)
	result, err := f.submit(t, atBound)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, f.submissions.submissions, 1)
}

func TestSubmitFlag_EmptyFlagRejected(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 10, true)

	_, err := f.submit(t, "   ")
	assertDomainErrorCode(t, err, domain.ErrorCodeParameterInvalid)
	assert.Empty(t, f.submissions.submissions)
}

func TestSubmitFlag_MissingIdentifiersRejected(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 10, true)

	_, err := f.service.SubmitFlag(context.Background(), f.userID, uuid.Nil, f.challengeID, "CTF{right}")
	assertDomainErrorCode(t, err, domain.ErrorCodeParameterInvalid)

	_, err = f.service.SubmitFlag(context.Background(), uuid.Nil, f.teamID, f.challengeID, "CTF{right}")
	assertDomainErrorCode(t, err, domain.ErrorCodeParameterInvalid)

	assert.Empty(t, f.submissions.submissions)
}

func TestSubmitFlag_DisabledChallengeNotFound(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 10, false)

	_, err := f.submit(t, "CTF{right}")
	assertDomainErrorCode(t, err, domain.ErrorCodeResourceNotFound)
	assert.Empty(t, f.submissions.submissions, "disabled challenges must not record attempts")
}

func TestSubmitFlag_UnknownChallengeNotFound(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 10, true)

	_, err := f.service.SubmitFlag(context.Background(), f.userID, f.teamID, uuid.New(), "CTF{right}")
	assertDomainErrorCode(t, err, domain.ErrorCodeResourceNotFound)
}

func TestSubmitFlag_TeammateSolvedFirst(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 100, true)

	// Another member of the same team already has the correct solve.
	f.submissions.submissions = append(f.submissions.submissions, &domain.Submission{
		UserID:      uuid.New(),
		TeamID:      f.teamID,
		ChallengeID: f.challengeID,
		Flag:        "CTF{right}",
		IsCorrect:   true,
	})

	result, err := f.submit(t, "CTF{right}")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.True(t, result.AlreadySolved)
	assert.Equal(t, 0, result.Points)
	assert.Equal(t, 0, f.teams.points[f.teamID], "team must not score twice")
	assert.Len(t, f.submissions.submissions, 1, "losing attempt is not recorded")
}

func TestSubmitFlag_PersistenceFailureIsHardError(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 100, true)
	f.submissions.createErr = errors.New("connection reset")

	_, err := f.submit(t, "CTF{right}")
	assertDomainErrorCode(t, err, domain.ErrorCodeInternalProcess)
	assert.Equal(t, 0, f.teams.points[f.teamID], "no points without a recorded submission")
}

func TestSubmitFlag_ScoringFailureKeepsCredit(t *testing.T) {
	f := newSubmissionFixture("CTF{right}", 100, true)
	f.teams.addErr = errors.New("deadlock detected")

	result, err := f.submit(t, "CTF{right}")
	require.NoError(t, err)

	// The submission committed, so the player keeps the credit; the
	// drifted total is repaired by reconciliation.
	assert.True(t, result.Success)
	assert.Equal(t, 100, result.Points)
	require.Len(t, f.submissions.submissions, 1)
	assert.True(t, f.submissions.submissions[0].IsCorrect)
}
