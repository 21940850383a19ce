// Package websocket defines the wire schema and helpers for the exam
// session socket. The browser is a thin view: every operator action is an
// Action message, every state change comes back as an Event message, and
// the server owns all session logic.
package websocket

import "github.com/talkready/opic-backend/internal/session"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionStart           Action = "start"
	ActionPlay            Action = "play"
	ActionStartRecording  Action = "start_recording"
	ActionNext            Action = "next"
	ActionPlaybackStarted Action = "playback_started"
	ActionPlaybackEnded   Action = "playback_ended"
	ActionSpeechResult    Action = "speech_result"
	ActionSpeechEnded     Action = "speech_ended"
	ActionSpeechError     Action = "speech_error"
	ActionSpeechAudio     Action = "speech_audio"
	ActionCameraStatus    Action = "camera_status"
	ActionPing            Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// SpeechResultRequest carries one recognition segment from the browser's
// live speech engine.
type SpeechResultRequest struct {
	Action Action                `json:"action"`
	Result session.CaptureResult `json:"result"`
}

// SpeechErrorRequest reports a recognition engine error by reason string.
type SpeechErrorRequest struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// SpeechAudioRequest ships a recorded audio batch for server-side
// transcription when the browser has no live speech engine.
type SpeechAudioRequest struct {
	Action  Action `json:"action"`
	Audio   string `json:"audio"` // base64-encoded
	Profile string `json:"profile"`
}

// CameraStatusRequest reports whether the client could acquire a camera.
type CameraStatusRequest struct {
	Action    Action `json:"action"`
	Available bool   `json:"available"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState            Event = "state"
	EventSpeak            Event = "speak"
	EventCapture          Event = "capture"
	EventCompleted        Event = "completed"
	EventSubmissionResult Event = "submission_result"
	EventError            Event = "error"
	EventPong             Event = "pong"
)

// StateResponse pushes a full controller snapshot after every mutation.
type StateResponse struct {
	Event    Event            `json:"event"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// SpeakResponse instructs the client to synthesize and play a question.
type SpeakResponse struct {
	Event Event  `json:"event"`
	Text  string `json:"text"`
}

// CaptureResponse starts or stops the client-side speech engine.
type CaptureResponse struct {
	Event  Event `json:"event"`
	Listen bool  `json:"listen"`
}

// CompletedResponse announces that the final answer was recorded.
type CompletedResponse struct {
	Event     Event `json:"event"`
	Questions int   `json:"questions"`
}

// SubmissionResultResponse reports the scoring gateway outcome. Delivery
// failure never reopens the session; the client just learns the status.
type SubmissionResultResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

// ErrorResponse carries a typed rejection, e.g. advancing before playback.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
