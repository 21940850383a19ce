package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/talkready/opic-backend/internal/middleware"
	"github.com/talkready/opic-backend/internal/response"
	"github.com/talkready/opic-backend/internal/service"
)

// FeedbackHandler serves submission history and detail.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// ListSubmissions godoc
// GET /api/v1/respondent/feedback
// Lists the respondent's submissions, newest first.
func (h *FeedbackHandler) ListSubmissions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	history, err := h.feedbackService.History(c.Request.Context(), claims.RespondentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": history})
}

// GetSubmission godoc
// GET /api/v1/respondent/feedback/:submission_id
// Returns one submission with its full scripts.
func (h *FeedbackHandler) GetSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.feedbackService.Detail(c.Request.Context(), id, claims.RespondentID)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, sub)
}
