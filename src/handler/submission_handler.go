package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "submission").Logger()
	return &l
}

// SubmitFlagRequest represents the flag submission payload
type SubmitFlagRequest struct {
	ChallengeID string `json:"challengeId" binding:"required"`
	TeamID      string `json:"teamId" binding:"required"`
	Flag        string `json:"flag" binding:"required"`
}

// SubmitFlag godoc
// @Summary Submit a flag for a challenge
// @Description Validates a candidate flag, records the attempt, and awards points on the first correct solve
// @Tags flags
// @Accept json
// @Produce json
// @Param request body SubmitFlagRequest true "Flag submission"
// @Success 200 {object} domain.SubmissionResult
// @Failure 400 {object} StandardResponse
// @Failure 401 {object} StandardResponse
// @Failure 404 {object} StandardResponse
// @Failure 500 {object} StandardResponse
// @Security BearerAuth
// @Router /flags/submit [post]
func (h *SubmissionHandler) SubmitFlag(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "SubmitFlag").Logger()

	identity, ok := identityFromContext(c)
	if !ok {
		respondWithError(c, domain.NewError(domain.ErrorCodeAuthNotAuthenticated,
			errors.New("no identity in request context"),
			domain.WithMsg("Invalid authentication")))
		return
	}

	var req SubmitFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("challengeId, teamId, and flag are required")))
		return
	}

	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid challengeId")))
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid teamId")))
		return
	}

	result, err := h.submissionService.SubmitFlag(c.Request.Context(), identity.UserID, teamID, challengeID, req.Flag)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Business rejections (wrong flag, already solved) are 200s with
	// success=false; only transport and infrastructure failures use
	// error statuses.
	c.JSON(http.StatusOK, result)
}
