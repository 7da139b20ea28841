package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/repository"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	challengeService  *service.ChallengeService
	scoreboardService *service.ScoreboardService
	submissionRepo    *repository.SubmissionRepository
}

func NewAdminHandler(challengeService *service.ChallengeService, scoreboardService *service.ScoreboardService, submissionRepo *repository.SubmissionRepository) *AdminHandler {
	return &AdminHandler{
		challengeService:  challengeService,
		scoreboardService: scoreboardService,
		submissionRepo:    submissionRepo,
	}
}

func (h *AdminHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "admin").Logger()
	return &l
}

// ChallengeRequest is the admin payload for creating or updating a
// challenge. It is the only place the solution flag crosses the wire.
type ChallengeRequest struct {
	EventID     string `json:"eventId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,challengecategory"`
	Points      int    `json:"points" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
	Enabled     *bool  `json:"enabled"`
}

func (r *ChallengeRequest) toChallenge() (*domain.Challenge, error) {
	eventID, err := uuid.Parse(r.EventID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid eventId"))
	}

	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}

	return &domain.Challenge{
		EventID:     eventID,
		Title:       r.Title,
		Description: r.Description,
		Category:    domain.ChallengeCategory(r.Category),
		Points:      r.Points,
		Flag:        r.Flag,
		Enabled:     enabled,
	}, nil
}

// CreateChallenge godoc
// @Summary Create a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ChallengeRequest true "Challenge"
// @Success 201 {object} StandardResponse
// @Failure 400 {object} StandardResponse
// @Security BearerAuth
// @Router /admin/challenges [post]
func (h *AdminHandler) CreateChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "CreateChallenge").Logger()

	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	challenge, err := req.toChallenge()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.challengeService.CreateChallenge(c.Request.Context(), challenge); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Code:    0,
		Message: "Challenge created",
		Data:    challenge.View(),
	})
}

// UpdateChallenge godoc
// @Summary Update a challenge
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body ChallengeRequest true "Challenge"
// @Success 200 {object} StandardResponse
// @Failure 404 {object} StandardResponse
// @Security BearerAuth
// @Router /admin/challenges/{id} [put]
func (h *AdminHandler) UpdateChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "UpdateChallenge").Logger()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("invalid challenge id"),
			domain.WithMsg("invalid challenge id")))
		return
	}

	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("Invalid request payload")))
		return
	}

	challenge, err := req.toChallenge()
	if err != nil {
		respondWithError(c, err)
		return
	}
	challenge.ID = id

	if err := h.challengeService.UpdateChallenge(c.Request.Context(), challenge); err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, challenge.View())
}

// ListSubmissions godoc
// @Summary List the submission audit trail
// @Description Filterable listing of flag attempts for forensics
// @Tags admin
// @Produce json
// @Param teamId query string false "Team ID"
// @Param challengeId query string false "Challenge ID"
// @Param userId query string false "User ID"
// @Param correct query boolean false "Correctness filter"
// @Success 200 {object} StandardResponse
// @Security BearerAuth
// @Router /admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	var filter repository.SubmissionFilter

	if teamID := c.Query("teamId"); teamID != "" {
		id, err := uuid.Parse(teamID)
		if err != nil {
			respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("invalid teamId")))
			return
		}
		filter.TeamID = &id
	}
	if challengeID := c.Query("challengeId"); challengeID != "" {
		id, err := uuid.Parse(challengeID)
		if err != nil {
			respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("invalid challengeId")))
			return
		}
		filter.ChallengeID = &id
	}
	if userID := c.Query("userId"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("invalid userId")))
			return
		}
		filter.UserID = &id
	}
	if correct := c.Query("correct"); correct != "" {
		isCorrect := correct == "true" || correct == "1"
		filter.IsCorrect = &isCorrect
	}

	submissions, err := h.submissionRepo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger(c.Request.Context()).Error().Err(err).Msg("failed to list submissions")
		respondWithError(c, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to list submissions")))
		return
	}

	respondWithSuccess(c, submissions)
}

// ReconcileEvent godoc
// @Summary Reconcile team points from the audit trail
// @Description Recomputes every team total from correct submissions and repairs drift
// @Tags admin
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} StandardResponse
// @Security BearerAuth
// @Router /admin/events/{id}/reconcile [post]
func (h *AdminHandler) ReconcileEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("invalid event id"),
			domain.WithMsg("invalid event id")))
		return
	}

	report, err := h.scoreboardService.Reconcile(c.Request.Context(), eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, report)
}
