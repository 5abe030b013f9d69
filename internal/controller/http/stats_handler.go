package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmaster/internal/usecase"
	"taskmaster/pkg/logger"
)

type StatsHandler struct {
	statsUseCase usecase.StatsUseCase
	logger       *logger.Logger
}

func NewStatsHandler(statsUseCase usecase.StatsUseCase, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{statsUseCase: statsUseCase, logger: logger}
}

func (h *StatsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statsUseCase.GetOverview(c.GetString("user_id"))
	if err != nil {
		h.logger.Error("Failed to build task overview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *StatsHandler) GetCompletion(c *gin.Context) {
	from := parseTimeQuery(c, "from")
	to := parseTimeQuery(c, "to")

	stats, err := h.statsUseCase.GetCompletionStats(c.GetString("user_id"), from, to)
	if err != nil {
		h.logger.Error("Failed to build completion stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build completion stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
