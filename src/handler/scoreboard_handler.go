package handler

import (
	"errors"

	"github.com/Mani19492/darkctf-arena/src/domain"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScoreboardHandler struct {
	scoreboardService *service.ScoreboardService
}

func NewScoreboardHandler(scoreboardService *service.ScoreboardService) *ScoreboardHandler {
	return &ScoreboardHandler{
		scoreboardService: scoreboardService,
	}
}

// GetStandings godoc
// @Summary Ranked team standings of an event
// @Description Standings derived from the submission audit trail, cached per event
// @Tags standings
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} StandardResponse
// @Failure 400 {object} StandardResponse
// @Security BearerAuth
// @Router /events/{id}/standings [get]
func (h *ScoreboardHandler) GetStandings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("invalid event id"),
			domain.WithMsg("invalid event id")))
		return
	}

	entries, err := h.scoreboardService.Standings(c.Request.Context(), eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, entries)
}
