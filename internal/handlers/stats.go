package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mrgear111/GROW/internal/dto"
	"github.com/mrgear111/GROW/internal/repo"
	"github.com/mrgear111/GROW/internal/service"
	"github.com/mrgear111/GROW/internal/streak"

	"github.com/gin-gonic/gin"
)

const maxStreakWindowDays = 3650

// StatsHandler serves derived statistics over the task collection.
type StatsHandler struct {
	svc *service.TaskService
}

func NewStatsHandler(svc *service.TaskService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Streak godoc
// @Summary      Completion streaks and day-by-day history
// @Tags         stats
// @Produce      json
// @Param        days  query  int     false  "Trailing window in days (default 365)"
// @Param        date  query  string  false  "Reference day (YYYY-MM-DD, default today)"
// @Success      200  {object}  dto.StreakResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /stats/streak [get]
func (h *StatsHandler) Streak(c *gin.Context) {
	days := streak.DefaultWindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStreakWindowDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 3650"})
			return
		}
		days = n
	}

	reference := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		reference = d
	}

	tasks, err := h.svc.List(c.Request.Context(), repo.TaskFilter{})
	if err != nil {
		internalError(c, "load tasks for streak", err)
		return
	}

	res := streak.Compute(tasks, days, reference)
	out := dto.StreakResponse{
		CurrentStreak:   res.CurrentStreak,
		LongestStreak:   res.LongestStreak,
		DailyCompletion: make([]dto.DayCompletionResponse, len(res.History)),
	}
	for i, day := range res.History {
		out.DailyCompletion[i] = dto.DayCompletionResponse{Date: day.Date, Completed: day.Completed}
	}
	c.JSON(http.StatusOK, out)
}
