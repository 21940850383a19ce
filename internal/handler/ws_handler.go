package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/middleware"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/response"
	"github.com/talkready/opic-backend/internal/service"
	"github.com/talkready/opic-backend/internal/session"
	"github.com/talkready/opic-backend/internal/speech"
	ws "github.com/talkready/opic-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives live exam sessions over WebSocket. Each connection
// gets its own controller and event loop; the loop is the single
// goroutine that ever touches the controller, serializing client
// actions, timer ticks and async transcription results.
type WSHandler struct {
	cfg             *config.Config
	rdb             *redis.Client
	examService     *service.ExamService
	feedbackService *service.FeedbackService
	recognizer      *speech.Recognizer
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(cfg *config.Config, rdb *redis.Client, examService *service.ExamService, feedbackService *service.FeedbackService, recognizer *speech.Recognizer, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		cfg:             cfg,
		rdb:             rdb,
		examService:     examService,
		feedbackService: feedbackService,
		recognizer:      recognizer,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(cfg.AllowedOrigins),
	}
}

// wsPlayback asks the client to synthesize and play a question. All
// writes happen from the event loop goroutine.
type wsPlayback struct {
	conn *websocket.Conn
}

func (p *wsPlayback) Speak(text string) {
	ws.WriteTyped(p.conn, ws.SpeakResponse{Event: ws.EventSpeak, Text: text})
}

// wsCapture toggles the client-side speech engine.
type wsCapture struct {
	conn *websocket.Conn
}

func (c *wsCapture) Start() error {
	return ws.WriteTyped(c.conn, ws.CaptureResponse{Event: ws.EventCapture, Listen: true})
}

func (c *wsCapture) Stop() {
	ws.WriteTyped(c.conn, ws.CaptureResponse{Event: ws.EventCapture, Listen: false})
}

// SessionStream godoc
// WS /ws/v1/respondent/session/stream?token=...
// Upgrades to WebSocket and drives the respondent's active exam session.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	active, err := h.examService.GetActive(c.Request.Context(), claims.RespondentID)
	if err != nil {
		ws.WriteError(conn, string(response.ErrNoActiveSession), "no exam session in progress")
		return
	}

	h.runSession(conn, claims.RespondentID, active)
}

func (h *WSHandler) runSession(conn *websocket.Conn, respondentID int, active *service.ActiveSession) {
	ctx := context.Background()
	sessionID := active.Session.ID

	wsLog := h.log.With().
		Int("respondent_id", respondentID).
		Str("session_id", sessionID.String()).
		Logger()

	cp := h.restoreCheckpoint(ctx, sessionID)

	ctrl := session.NewController(
		active.Sequence,
		&wsCapture{conn: conn},
		&wsPlayback{conn: conn},
		cp.TimeRemaining,
		h.cfg.MaxPlaybacks,
		wsLog,
	)
	ctrl.Restore(cp.QuestionIndex, cp.Responses)

	msgs := make(chan []byte)
	go func() {
		defer close(msgs)
		for {
			conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			msgs <- raw
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Buffered so the producing goroutines never block on a gone loop.
	results := make(chan model.SubmissionStatus, 1)
	transcripts := make(chan session.CaptureResult, 4)

	wsLog.Info().Msg("Respondent connected")
	h.pushState(conn, ctrl)

	for {
		select {
		case raw, ok := <-msgs:
			if !ok {
				h.closeSession(ctx, ctrl, sessionID, respondentID, wsLog)
				return
			}
			h.dispatch(ctx, conn, ctrl, sessionID, respondentID, raw, results, transcripts, wsLog)

		case <-ticker.C:
			if ctrl.TimerRunning() {
				ctrl.Tick()
				h.pushState(conn, ctrl)
			}

		case res := <-transcripts:
			ctrl.HandleCaptureResult(res)
			h.pushState(conn, ctrl)

		case status := <-results:
			ws.WriteTyped(conn, ws.SubmissionResultResponse{
				Event:  ws.EventSubmissionResult,
				Status: string(status),
			})
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, ctrl *session.Controller, sessionID uuid.UUID, respondentID int, raw []byte, results chan<- model.SubmissionStatus, transcripts chan<- session.CaptureResult, wsLog zerolog.Logger) {
	var env ws.RequestEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		ws.WriteError(conn, string(response.ErrInvalidPayload), "malformed message")
		return
	}

	switch env.Action {
	case ws.ActionPing:
		ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		return

	case ws.ActionStart:
		ctrl.Begin()
		if err := ctrl.PlayQuestion(); err != nil {
			h.writeControllerError(conn, err)
			return
		}

	case ws.ActionPlay:
		if err := ctrl.PlayQuestion(); err != nil {
			h.writeControllerError(conn, err)
			return
		}

	case ws.ActionPlaybackStarted:
		ctrl.HandlePlaybackStarted()

	case ws.ActionPlaybackEnded:
		ctrl.HandlePlaybackEnded()

	case ws.ActionStartRecording:
		// Capture and the countdown only start on this explicit action;
		// a finished playback never starts them on its own.
		if err := ctrl.StartRecording(); err != nil {
			h.writeControllerError(conn, err)
			return
		}

	case ws.ActionNext:
		sub, err := ctrl.Next()
		if err != nil {
			h.writeControllerError(conn, err)
			return
		}
		if sub != nil {
			h.completeSession(ctx, conn, ctrl, sessionID, respondentID, sub, results, wsLog)
		}

	case ws.ActionSpeechResult:
		var req ws.SpeechResultRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			ws.WriteError(conn, string(response.ErrInvalidPayload), "malformed speech result")
			return
		}
		ctrl.HandleCaptureResult(req.Result)

	case ws.ActionSpeechEnded:
		ctrl.HandleCaptureEnded()

	case ws.ActionSpeechError:
		var req ws.SpeechErrorRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			ws.WriteError(conn, string(response.ErrInvalidPayload), "malformed speech error")
			return
		}
		ctrl.HandleCaptureError(req.Reason)

	case ws.ActionSpeechAudio:
		h.handleSpeechAudio(conn, ctrl, raw, transcripts, wsLog)
		return

	case ws.ActionCameraStatus:
		var req ws.CameraStatusRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			ws.WriteError(conn, string(response.ErrInvalidPayload), "malformed camera status")
			return
		}
		ctrl.SetVideoAvailable(req.Available)

	default:
		wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
		ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(env.Action))
		return
	}

	h.pushState(conn, ctrl)
}

// handleSpeechAudio transcribes a recorded batch off-loop and feeds the
// text back through the transcripts channel as a final segment.
func (h *WSHandler) handleSpeechAudio(conn *websocket.Conn, ctrl *session.Controller, raw []byte, transcripts chan<- session.CaptureResult, wsLog zerolog.Logger) {
	if !ctrl.Listening() {
		return
	}
	if !h.recognizer.Available() {
		wsLog.Debug().Msg("No recognizer configured, dropping audio batch")
		return
	}

	var req ws.SpeechAudioRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		ws.WriteError(conn, string(response.ErrInvalidPayload), "malformed audio batch")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		ws.WriteError(conn, string(response.ErrInvalidPayload), "audio is not valid base64")
		return
	}

	profile := speech.ProfileBrowser
	if req.Profile == "file" {
		profile = speech.ProfileFile
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		text, err := h.recognizer.Recognize(ctx, audio, profile)
		if err != nil {
			wsLog.Warn().Err(err).Msg("Server-side transcription failed")
			return
		}
		if text == "" {
			return
		}
		select {
		case transcripts <- session.CaptureResult{Transcript: text, IsFinal: true}:
		default:
			wsLog.Warn().Msg("Transcript channel full, dropping segment")
		}
	}()
}

// completeSession closes the finished session and dispatches the scripts
// to the scoring gateway. Delivery happens off-loop; its outcome arrives
// through the results channel and never reopens the session.
func (h *WSHandler) completeSession(ctx context.Context, conn *websocket.Conn, ctrl *session.Controller, sessionID uuid.UUID, respondentID int, sub *model.ScriptSubmission, results chan<- model.SubmissionStatus, wsLog zerolog.Logger) {
	if err := h.examService.Finish(ctx, sessionID, respondentID, model.SessionStatusCompleted); err != nil {
		wsLog.Error().Err(err).Msg("Failed to close completed session")
	}

	ws.WriteTyped(conn, ws.CompletedResponse{
		Event:     ws.EventCompleted,
		Questions: ctrl.QuestionCount(),
	})

	go func() {
		submitCtx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		results <- h.feedbackService.Submit(submitCtx, sessionID, respondentID, sub)
	}()
}

// sessionCheckpoint is the progress snapshot written to Redis when a
// respondent disconnects mid-session: the remaining clock, the question
// they stopped at and every answer recorded so far. The in-flight
// transcript of the interrupted question is not part of it; that
// question starts over on reconnect.
type sessionCheckpoint struct {
	TimeRemaining int                  `json:"time_remaining"`
	QuestionIndex int                  `json:"question_index"`
	Responses     []model.UserResponse `json:"responses"`
}

// closeSession runs when the socket goes away. A completed session was
// already closed; an expired one is abandoned; anything else stays
// IN_PROGRESS with its progress checkpointed for resumption.
func (h *WSHandler) closeSession(ctx context.Context, ctrl *session.Controller, sessionID uuid.UUID, respondentID int, wsLog zerolog.Logger) {
	ctrl.Teardown()

	if ctrl.State() == session.StateCompleted {
		return
	}

	if ctrl.TimeRemaining() <= 0 {
		wsLog.Info().Msg("Session clock expired, abandoning")
		if err := h.examService.Finish(ctx, sessionID, respondentID, model.SessionStatusAbandoned); err != nil {
			wsLog.Error().Err(err).Msg("Failed to abandon session")
		}
		return
	}

	raw, _ := json.Marshal(sessionCheckpoint{
		TimeRemaining: ctrl.TimeRemaining(),
		QuestionIndex: ctrl.QuestionIndex(),
		Responses:     ctrl.Responses(),
	})
	key := config.CacheKey.SessionCheckpointKey(sessionID.String())
	if err := h.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		wsLog.Warn().Err(err).Msg("Failed to checkpoint session progress")
	}
	wsLog.Info().
		Int("time_remaining", ctrl.TimeRemaining()).
		Int("question_index", ctrl.QuestionIndex()).
		Msg("Respondent disconnected mid-session")
}

// restoreCheckpoint loads the progress written at the last disconnect,
// defaulting to a fresh session on a full clock.
func (h *WSHandler) restoreCheckpoint(ctx context.Context, sessionID uuid.UUID) sessionCheckpoint {
	fresh := sessionCheckpoint{TimeRemaining: h.cfg.ExamDurationSeconds}

	raw, err := h.rdb.Get(ctx, config.CacheKey.SessionCheckpointKey(sessionID.String())).Result()
	if err != nil {
		return fresh
	}
	var cp sessionCheckpoint
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		return fresh
	}
	if cp.TimeRemaining < 0 || cp.TimeRemaining > h.cfg.ExamDurationSeconds {
		return fresh
	}
	return cp
}

// writeControllerError maps controller rejections onto typed socket errors.
func (h *WSHandler) writeControllerError(conn *websocket.Conn, err error) {
	code := response.ErrInternal
	switch {
	case errors.Is(err, session.ErrPlaybackRequired):
		code = response.ErrPlaybackRequired
	case errors.Is(err, session.ErrSessionFinished):
		code = response.ErrSessionFinished
	}
	ws.WriteError(conn, string(code), response.GetMessage(code))
}

func (h *WSHandler) pushState(conn *websocket.Conn, ctrl *session.Controller) {
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, Snapshot: ctrl.Snapshot()})
}
