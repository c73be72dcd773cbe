package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/examtrail/examtrail-backend/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (sh *ScheduleHandler) Generate(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	stats, err := sh.scheduleService.GenerateSchedule(c.Request.Context(), planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}

func (sh *ScheduleHandler) Replan(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	stats, err := sh.scheduleService.ReplanSchedule(c.Request.Context(), planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}

func (sh *ScheduleHandler) Overdue(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	count, err := sh.scheduleService.CountOverdue(c.Request.Context(), planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"overdue": count})
}

func (sh *ScheduleHandler) Sessions(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_start", err)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_end", err)
		return
	}
	sessions, err := sh.scheduleService.GetSessionsInRange(c.Request.Context(), planID, start, end)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}
