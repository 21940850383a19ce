package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talkready/opic-backend/internal/middleware"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/question"
	"github.com/talkready/opic-backend/internal/response"
	"github.com/talkready/opic-backend/internal/service"
	"github.com/talkready/opic-backend/internal/validator"
)

// SurveyHandler handles the background survey endpoints.
type SurveyHandler struct {
	surveyService *service.SurveyService
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// GetSurveyCatalog godoc
// GET /api/v1/respondent/survey/catalog
// Returns the selectable options for the background survey form.
func (h *SurveyHandler) GetSurveyCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, question.SurveyCatalog())
}

// GetSurvey godoc
// GET /api/v1/respondent/survey
// Returns the respondent's saved survey profile.
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.surveyService.Get(c.Request.Context(), claims.RespondentID)
	if err != nil {
		if errors.Is(err, service.ErrSurveyNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateSurvey godoc
// PUT /api/v1/respondent/survey
// Saves the respondent's survey answers, replacing any previous ones.
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateSurveyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := question.ValidateSelections(&req); len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	profile, err := h.surveyService.Update(c.Request.Context(), claims.RespondentID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, profile)
}
