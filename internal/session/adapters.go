package session

// Capture controls a continuous speech-to-text stream. Implementations
// forward recognized segments back into the controller via
// HandleCaptureResult/HandleCaptureEnded/HandleCaptureError.
// Start and Stop must be idempotent and safe to call at any time.
type Capture interface {
	Start() error
	Stop()
}

// Playback speaks a question out loud. Only one utterance is logically
// active at a time: a new Speak cancels whatever is still playing.
// Completion is reported back via HandlePlaybackStarted/HandlePlaybackEnded.
type Playback interface {
	Speak(text string)
}

// CaptureErrNoSpeech is the adapter error reason for "no speech detected".
// The controller recovers from it by restarting capture; every other
// reason stops listening.
const CaptureErrNoSpeech = "no-speech"

// CaptureResult is one recognition segment. Segments arrive in
// non-decreasing ResultIndex order; interim segments may be superseded
// until a final one commits.
type CaptureResult struct {
	ResultIndex int    `json:"result_index"`
	Transcript  string `json:"transcript"`
	IsFinal     bool   `json:"is_final"`
}

// UnavailableCapture is the degraded-mode capture used when no live
// speech engine could be selected. Start reports unavailability once;
// the session continues, the operator just gets no live transcript.
type UnavailableCapture struct{}

func (UnavailableCapture) Start() error { return ErrCaptureUnavailable }
func (UnavailableCapture) Stop()        {}

// UnavailablePlayback swallows playback requests in degraded mode.
type UnavailablePlayback struct{}

func (UnavailablePlayback) Speak(string) {}
