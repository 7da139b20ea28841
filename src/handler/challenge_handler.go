package handler

import (
	"errors"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// ListChallenges godoc
// @Summary List enabled challenges of an event
// @Description Returns enabled challenges with solution flags stripped
// @Tags challenges
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} StandardResponse
// @Failure 400 {object} StandardResponse
// @Security BearerAuth
// @Router /challenges [get]
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	eventID, err := uuid.Parse(c.Query("eventId"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err,
			domain.WithMsg("invalid eventId")))
		return
	}

	challenges, err := h.challengeService.ListEventChallenges(c.Request.Context(), eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, challenges)
}

// GetChallenge godoc
// @Summary Get one enabled challenge
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} StandardResponse
// @Failure 404 {object} StandardResponse
// @Security BearerAuth
// @Router /challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("invalid challenge id"),
			domain.WithMsg("invalid challenge id")))
		return
	}

	challenge, err := h.challengeService.GetChallenge(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, challenge)
}
