package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/handler"
	"github.com/talkready/opic-backend/internal/middleware"
	"github.com/talkready/opic-backend/internal/response"
	"github.com/talkready/opic-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Survey   *handler.SurveyHandler
	Exam     *handler.ExamHandler
	Feedback *handler.FeedbackHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Session creation is rate limited: generating a sequence touches the
	// survey cache, Postgres and Redis in one request.
	examLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Respondent Group (JWT) ─────────────────────────────────────
	respondentAPI := router.Group("/api/v1/respondent")
	respondentAPI.Use(middleware.RequireRespondentJWT(authService))
	{
		respondentAPI.GET("/survey/catalog", handlers.Survey.GetSurveyCatalog)
		respondentAPI.GET("/survey", handlers.Survey.GetSurvey)
		respondentAPI.PUT("/survey", handlers.Survey.UpdateSurvey)

		respondentAPI.POST("/exams", examLimiter.Middleware(), handlers.Exam.CreateExam)
		respondentAPI.GET("/exams/active", handlers.Exam.GetActiveExam)

		respondentAPI.GET("/feedback", handlers.Feedback.ListSubmissions)
		respondentAPI.GET("/feedback/:submission_id", handlers.Feedback.GetSubmission)
	}

	// ─── 2. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireRespondentWSAuth(authService))
	{
		ws.GET("/respondent/session/stream", handlers.WS.SessionStream)
	}

	return router
}
