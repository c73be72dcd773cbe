package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/examtrail/examtrail-backend/internal/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (sh *SessionHandler) UpdateStatus(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	session, err := sh.sessionService.UpdateStatus(c.Request.Context(), sessionID, req.Status)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, session)
}

func (sh *SessionHandler) Postpone(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	session, err := sh.sessionService.Postpone(c.Request.Context(), sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, session)
}

func (sh *SessionHandler) Reinforce(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	session, err := sh.sessionService.Reinforce(c.Request.Context(), sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}
