package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/middleware"
	"github.com/mscofield999-cyber/meetingminutes/model"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
	"github.com/mscofield999-cyber/meetingminutes/service"
)

type MeetingHandler struct {
	meetings *service.MeetingService
}

func NewMeetingHandler(meetings *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings}
}

// List returns newest-first meeting summaries.
func (h *MeetingHandler) List(c *gin.Context) {
	summaries, err := h.meetings.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list meetings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meetings"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Create stores a new meeting owned by the authenticated user.
func (h *MeetingHandler) Create(c *gin.Context) {
	var payload model.MeetingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request"})
		return
	}

	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := h.meetings.Create(c.Request.Context(), &payload, identity.Username)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to create meeting", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create meeting"})
		return
	}

	logger.Info(c.Request.Context(), "meeting created", "meeting_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// Get returns the full persisted document.
func (h *MeetingHandler) Get(c *gin.Context) {
	doc, err := h.meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		logger.Error(c.Request.Context(), "failed to fetch meeting", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meeting"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Update merge-patches the supplied fields into the stored document.
func (h *MeetingHandler) Update(c *gin.Context) {
	var payload model.MeetingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request"})
		return
	}

	id := c.Param("id")
	if err := h.meetings.Update(c.Request.Context(), id, &payload); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		logger.Error(c.Request.Context(), "failed to update meeting", "meeting_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update meeting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
