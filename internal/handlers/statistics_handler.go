package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// StatisticsHandler handles statistics requests.
type StatisticsHandler struct {
	statisticsService services.StatisticsServicer
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService services.StatisticsServicer) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// GetSummary handles the statistical summary of the user's history.
// @Summary     Get statistical summary
// @Description Get spending maxima, savings rates, averages and the budget streak
// @Tags        statistics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.StatisticalSummary "Statistical summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /statistics/summary [get]
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.statisticsService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
