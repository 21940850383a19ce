// Package session implements the exam session engine: a finite-state
// machine that walks a respondent through the generated question sequence,
// coordinating question playback, speech capture, the shared countdown
// timer and the accumulated responses.
package session

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/model"
)

// State enumerates the controller's phases. AdvancePending from the design
// notes is transient inside Next and never observable.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StatePrompted   State = "PROMPTED"
	StateRecording  State = "RECORDING"
	StateCompleted  State = "COMPLETED"
	StateAborted    State = "ABORTED"
)

var (
	// ErrPlaybackRequired rejects Next before the current question has been
	// played at least once.
	ErrPlaybackRequired = errors.New("question must be played before advancing")

	// ErrSessionFinished rejects operations on a completed or aborted session.
	ErrSessionFinished = errors.New("session already finished")

	// ErrCaptureUnavailable is returned by the degraded-mode capture adapter.
	ErrCaptureUnavailable = errors.New("speech capture unavailable")
)

// Controller drives one exam session. It is NOT internally synchronized:
// all calls must come from a single goroutine (the per-session event loop),
// which serializes operator actions, adapter events and timer ticks.
// Handlers tolerate stale adapter events: a capture-ended or result event
// arriving after a manual stop is ignored rather than acted on.
type Controller struct {
	questions []string
	capture   Capture
	playback  Playback
	log       zerolog.Logger

	maxPlaybacks int

	state          State
	idx            int
	timeRemaining  int
	timerRunning   bool
	playCount      int
	hasListened    bool
	isPlaying      bool
	isListening    bool
	videoAvailable bool

	// finalScript accumulates committed segments, space-joined, and is never
	// rewritten. interim holds the latest provisional segment; it is
	// replaced on every result event and only survives into a stored
	// response if it is still live when the operator advances.
	finalScript string
	interim     string

	responses []model.UserResponse
}

// NewController builds the state machine for one generated question
// sequence. durationSeconds is the countdown shared across the whole
// session; it only runs while a question is being recorded.
func NewController(questions []string, capture Capture, playback Playback, durationSeconds, maxPlaybacks int, log zerolog.Logger) *Controller {
	return &Controller{
		questions:      questions,
		capture:        capture,
		playback:       playback,
		log:            log.With().Str("component", "session_controller").Logger(),
		maxPlaybacks:   maxPlaybacks,
		state:          StateNotStarted,
		timeRemaining:  durationSeconds,
		videoAvailable: true,
		responses:      make([]model.UserResponse, 0, len(questions)),
	}
}

// Restore rewinds a rebuilt controller to a checkpointed position: the
// answers recorded before a disconnect and the question they stopped at.
// The restored question starts over (unplayed, empty transcript). Only
// honored before Begin; out-of-range indexes are ignored.
func (c *Controller) Restore(index int, responses []model.UserResponse) {
	if c.state != StateNotStarted {
		return
	}
	if index < 0 || index >= len(c.questions) {
		return
	}
	c.idx = index
	c.responses = append(c.responses[:0], responses...)
}

// Begin moves a fresh session to its first prompt. Calling it again later
// is a no-op.
func (c *Controller) Begin() {
	if c.state == StateNotStarted {
		c.state = StatePrompted
	}
}

// PlayQuestion asks the playback adapter to speak the current question.
// Silently ignored once the replay cap is reached; while a previous
// utterance is still active the new request replaces it (latest wins).
func (c *Controller) PlayQuestion() error {
	if c.finished() {
		return ErrSessionFinished
	}
	if c.playCount >= c.maxPlaybacks {
		c.log.Debug().Int("play_count", c.playCount).Msg("Replay cap reached, ignoring")
		return nil
	}
	c.playback.Speak(c.questions[c.idx])
	return nil
}

// HandlePlaybackStarted marks the utterance active.
func (c *Controller) HandlePlaybackStarted() {
	c.isPlaying = true
}

// HandlePlaybackEnded counts a completed playback and unlocks Next.
// A stray ended without a matching start is ignored.
func (c *Controller) HandlePlaybackEnded() {
	if !c.isPlaying {
		return
	}
	c.isPlaying = false
	if c.playCount < c.maxPlaybacks {
		c.playCount++
	}
	c.hasListened = true
}

// StartRecording begins speech capture and the countdown for the current
// question. Calling it while already recording is a no-op.
func (c *Controller) StartRecording() error {
	if c.finished() {
		return ErrSessionFinished
	}
	if c.isListening {
		return nil
	}

	c.finalScript = ""
	c.interim = ""

	if err := c.capture.Start(); err != nil {
		c.log.Warn().Err(err).Msg("Speech capture failed to start")
		return err
	}

	c.isListening = true
	c.timerRunning = true
	c.state = StateRecording
	return nil
}

// Next records the current answer and advances. It requires at least one
// completed playback of the current question. On the final question it
// transitions to Completed and returns the assembled submission for the
// caller to dispatch to the scoring gateway; the transition itself never
// depends on the delivery outcome.
func (c *Controller) Next() (*model.ScriptSubmission, error) {
	if c.finished() {
		return nil, ErrSessionFinished
	}
	if !c.hasListened {
		return nil, ErrPlaybackRequired
	}

	if c.isListening {
		c.capture.Stop()
		c.isListening = false
	}
	c.timerRunning = false

	c.responses = append(c.responses, model.UserResponse{
		QuestionNumber: c.idx + 1,
		Question:       c.questions[c.idx],
		UserScript:     c.Transcript(),
	})

	if c.idx == len(c.questions)-1 {
		c.state = StateCompleted
		c.log.Info().Int("responses", len(c.responses)).Msg("Session completed")
		return &model.ScriptSubmission{Scripts: c.Responses()}, nil
	}

	c.idx++
	c.playCount = 0
	c.hasListened = false
	c.isPlaying = false
	c.finalScript = ""
	c.interim = ""
	c.state = StatePrompted
	return nil, nil
}

// Tick decrements the shared countdown by one second. Armed only while
// recording; reaching zero is observed by the caller, it forces nothing.
func (c *Controller) Tick() {
	if c.timerRunning && c.timeRemaining > 0 {
		c.timeRemaining--
	}
}

// HandleCaptureResult folds one recognition segment into the transcript.
// Segments arriving after capture stopped are dropped.
func (c *Controller) HandleCaptureResult(res CaptureResult) {
	if !c.isListening {
		return
	}
	if res.IsFinal {
		c.finalScript += res.Transcript + " "
		c.interim = ""
		return
	}
	c.interim = res.Transcript
}

// HandleCaptureEnded restarts capture when the engine ends on its own
// mid-recording. After a manual stop it is a stale event and does nothing.
func (c *Controller) HandleCaptureEnded() {
	if !c.isListening || c.state != StateRecording {
		return
	}
	if err := c.capture.Start(); err != nil {
		c.log.Warn().Err(err).Msg("Capture restart failed")
		c.isListening = false
	}
}

// HandleCaptureError recovers silently from "no speech detected"; any
// other reason stops listening without disturbing the rest of the state,
// so the operator can still advance with whatever was captured.
func (c *Controller) HandleCaptureError(reason string) {
	if reason == CaptureErrNoSpeech {
		if c.isListening {
			if err := c.capture.Start(); err != nil {
				c.log.Warn().Err(err).Msg("Capture restart after no-speech failed")
				c.isListening = false
			}
		}
		return
	}

	c.log.Warn().Str("reason", reason).Msg("Speech capture error, listening stopped")
	c.isListening = false
}

// SetVideoAvailable records whether the operator's camera could be
// acquired. Denial only degrades the session to no-video; nothing blocks.
func (c *Controller) SetVideoAvailable(ok bool) {
	c.videoAvailable = ok
	if !ok {
		c.log.Info().Msg("Camera unavailable, continuing without video")
	}
}

// Teardown releases capture and the timer on every exit path. An
// in-progress session becomes Aborted; a completed one stays Completed.
func (c *Controller) Teardown() {
	if c.isListening {
		c.capture.Stop()
		c.isListening = false
	}
	c.timerRunning = false
	if c.state != StateCompleted {
		c.state = StateAborted
	}
}

func (c *Controller) finished() bool {
	return c.state == StateCompleted || c.state == StateAborted
}

// Transcript returns the live transcript: committed segments plus the
// trailing interim fragment, trimmed.
func (c *Controller) Transcript() string {
	return strings.TrimSpace(c.finalScript + c.interim)
}

// Responses returns a copy of the answers recorded so far.
func (c *Controller) Responses() []model.UserResponse {
	out := make([]model.UserResponse, len(c.responses))
	copy(out, c.responses)
	return out
}

func (c *Controller) State() State       { return c.state }
func (c *Controller) QuestionIndex() int { return c.idx }
func (c *Controller) QuestionCount() int { return len(c.questions) }
func (c *Controller) TimeRemaining() int { return c.timeRemaining }
func (c *Controller) TimerRunning() bool { return c.timerRunning }
func (c *Controller) PlayCount() int     { return c.playCount }
func (c *Controller) HasListened() bool  { return c.hasListened }
func (c *Controller) Listening() bool    { return c.isListening }
func (c *Controller) Playing() bool      { return c.isPlaying }

// CurrentQuestion returns the question at the current index, or "" once
// the session has completed.
func (c *Controller) CurrentQuestion() string {
	if c.idx >= len(c.questions) {
		return ""
	}
	return c.questions[c.idx]
}

// Snapshot is the state view pushed to the client after every mutation.
type Snapshot struct {
	State          State  `json:"state"`
	QuestionIndex  int    `json:"question_index"`
	QuestionCount  int    `json:"question_count"`
	Question       string `json:"question"`
	TimeRemaining  int    `json:"time_remaining_seconds"`
	TimerRunning   bool   `json:"timer_running"`
	PlayCount      int    `json:"play_count"`
	HasListened    bool   `json:"has_listened"`
	Listening      bool   `json:"listening"`
	Playing        bool   `json:"playing"`
	Transcript     string `json:"transcript"`
	VideoAvailable bool   `json:"video_available"`
}

// Snapshot captures the current state for the client.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:          c.state,
		QuestionIndex:  c.idx,
		QuestionCount:  len(c.questions),
		Question:       c.CurrentQuestion(),
		TimeRemaining:  c.timeRemaining,
		TimerRunning:   c.timerRunning,
		PlayCount:      c.playCount,
		HasListened:    c.hasListened,
		Listening:      c.isListening,
		Playing:        c.isPlaying,
		Transcript:     c.Transcript(),
		VideoAvailable: c.videoAvailable,
	}
}
