package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkready/opic-backend/internal/middleware"
	"github.com/talkready/opic-backend/internal/question"
	"github.com/talkready/opic-backend/internal/response"
	"github.com/talkready/opic-backend/internal/service"
)

// ExamHandler handles exam session lifecycle endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// CreateExam godoc
// POST /api/v1/respondent/exams
// Generates a question sequence from the survey and opens a session.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	active, err := h.examService.Create(c.Request.Context(), claims.RespondentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionAlreadyActive):
			response.Fail(c, http.StatusConflict, response.ErrSessionAlreadyActive)
		case errors.Is(err, service.ErrSurveyNotFound):
			response.Fail(c, http.StatusPreconditionFailed, response.ErrSurveyRequired)
		case errors.Is(err, question.ErrNoSurveySets):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoSurveySets)
		case errors.Is(err, question.ErrInsufficientSurveySets):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrInsufficientSurveySets)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, active.Session)
}

// GetActiveExam godoc
// GET /api/v1/respondent/exams/active
// Returns the respondent's IN_PROGRESS session, if any.
func (h *ExamHandler) GetActiveExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	active, err := h.examService.GetActive(c.Request.Context(), claims.RespondentID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, active.Session)
}
