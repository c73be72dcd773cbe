package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/examtrail/examtrail-backend/internal/pkg/errors"
	"github.com/examtrail/examtrail-backend/internal/services"
	"github.com/examtrail/examtrail-backend/internal/types"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", apperrors.ErrInvalidArgument)
		return uuid.Nil, false
	}
	return id, true
}

func (ph *PlanHandler) Create(c *gin.Context) {
	var req struct {
		PlanName               string          `json:"plan_name"`
		ExamDate               string          `json:"exam_date"`
		StudyHoursPerDay       map[int]float64 `json:"study_hours_per_day"`
		SessionDurationMinutes int             `json:"session_duration_minutes"`
		HasEssay               bool            `json:"has_essay"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exam_date", err)
		return
	}

	plan, err := ph.planService.CreatePlan(c.Request.Context(), services.CreatePlanInput{
		PlanName:               req.PlanName,
		ExamDate:               examDate,
		StudyHoursPerDay:       req.StudyHoursPerDay,
		SessionDurationMinutes: req.SessionDurationMinutes,
		HasEssay:               req.HasEssay,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (ph *PlanHandler) List(c *gin.Context) {
	plans, err := ph.planService.ListPlans(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

func (ph *PlanHandler) Get(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := ph.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

func (ph *PlanHandler) AddSubject(c *gin.Context) {
	planID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		SubjectName    string   `json:"subject_name"`
		PriorityWeight int      `json:"priority_weight"`
		Topics         []string `json:"topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	subject, err := ph.planService.AddSubjectWithTopics(c.Request.Context(), planID, services.AddSubjectInput{
		SubjectName:    req.SubjectName,
		PriorityWeight: req.PriorityWeight,
		Topics:         req.Topics,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func (ph *PlanHandler) UpdateTopic(c *gin.Context) {
	topicID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status         string `json:"status"`
		CompletionDate string `json:"completion_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	var completionDate *time.Time
	if req.Status == types.TopicStatusCompleted && req.CompletionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.CompletionDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_completion_date", err)
			return
		}
		completionDate = &parsed
	}

	if err := ph.planService.UpdateTopicStatus(c.Request.Context(), topicID, req.Status, completionDate); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": topicID, "status": req.Status})
}
