package session

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/model"
)

// fakeCapture records Start/Stop calls and can be told to fail.
type fakeCapture struct {
	starts   int
	stops    int
	startErr error
}

func (f *fakeCapture) Start() error {
	f.starts++
	return f.startErr
}

func (f *fakeCapture) Stop() { f.stops++ }

// fakePlayback records everything it was asked to speak.
type fakePlayback struct {
	spoken []string
}

func (f *fakePlayback) Speak(text string) { f.spoken = append(f.spoken, text) }

func newTestController(questions []string) (*Controller, *fakeCapture, *fakePlayback) {
	cap := &fakeCapture{}
	pb := &fakePlayback{}
	c := NewController(questions, cap, pb, 2400, 2, zerolog.Nop())
	return c, cap, pb
}

// listen simulates one full playback of the current question.
func listen(c *Controller) {
	c.PlayQuestion()
	c.HandlePlaybackStarted()
	c.HandlePlaybackEnded()
}

func TestBeginPromptsOnce(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})

	c.Begin()
	if c.State() != StatePrompted {
		t.Fatalf("state = %s, want %s", c.State(), StatePrompted)
	}

	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	c.Begin()
	if c.State() != StateRecording {
		t.Errorf("late Begin rewound state to %s", c.State())
	}
}

func TestStartRecordingBeginsCaptureAndTimer(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1", "q2"})

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	if cap.starts != 1 {
		t.Errorf("capture started %d times, want 1", cap.starts)
	}
	if !c.Listening() {
		t.Error("controller not listening after StartRecording")
	}
	if !c.TimerRunning() {
		t.Error("timer not running after StartRecording")
	}
	if c.State() != StateRecording {
		t.Errorf("state = %s, want %s", c.State(), StateRecording)
	}

	// Starting again while already recording must not touch the adapter.
	if err := c.StartRecording(); err != nil {
		t.Fatalf("second StartRecording returned %v", err)
	}
	if cap.starts != 1 {
		t.Errorf("capture started %d times after duplicate call, want 1", cap.starts)
	}
}

func TestNextRequiresPlayback(t *testing.T) {
	c, _, _ := newTestController([]string{"q1", "q2"})

	if _, err := c.Next(); !errors.Is(err, ErrPlaybackRequired) {
		t.Fatalf("Next before playback returned %v, want ErrPlaybackRequired", err)
	}

	listen(c)
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next after playback returned %v", err)
	}
	if c.QuestionIndex() != 1 {
		t.Errorf("question index = %d, want 1", c.QuestionIndex())
	}
	if c.State() != StatePrompted {
		t.Errorf("state = %s, want %s", c.State(), StatePrompted)
	}
	if c.PlayCount() != 0 || c.HasListened() {
		t.Error("playback counters not reset after advancing")
	}
}

func TestTranscriptAccumulation(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}

	c.HandleCaptureResult(CaptureResult{Transcript: "I like", IsFinal: false})
	if got := c.Transcript(); got != "I like" {
		t.Errorf("transcript = %q, want %q", got, "I like")
	}

	// The interim segment is replaced, then committed as final.
	c.HandleCaptureResult(CaptureResult{Transcript: "I like movies", IsFinal: true})
	if got := c.Transcript(); got != "I like movies" {
		t.Errorf("transcript = %q, want %q", got, "I like movies")
	}

	// A trailing interim fragment is part of the live transcript.
	c.HandleCaptureResult(CaptureResult{Transcript: "a lot", IsFinal: false})
	if got := c.Transcript(); got != "I like movies a lot" {
		t.Errorf("transcript = %q, want %q", got, "I like movies a lot")
	}
}

func TestCaptureResultDroppedWhenNotListening(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})

	c.HandleCaptureResult(CaptureResult{Transcript: "stale", IsFinal: true})
	if got := c.Transcript(); got != "" {
		t.Errorf("transcript = %q, want empty", got)
	}
}

func TestReplayCap(t *testing.T) {
	c, _, pb := newTestController([]string{"q1"})

	listen(c)
	listen(c)
	if got := len(pb.spoken); got != 2 {
		t.Fatalf("spoke %d times, want 2", got)
	}

	// Third request is silently ignored.
	if err := c.PlayQuestion(); err != nil {
		t.Fatalf("PlayQuestion returned %v", err)
	}
	if got := len(pb.spoken); got != 2 {
		t.Errorf("spoke %d times after cap, want 2", got)
	}
	if c.PlayCount() != 2 {
		t.Errorf("play count = %d, want 2", c.PlayCount())
	}
}

func TestStrayPlaybackEndedIgnored(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})

	c.HandlePlaybackEnded()
	if c.PlayCount() != 0 || c.HasListened() {
		t.Error("stray playback-ended mutated state")
	}
}

func TestCaptureEndedRestartsWhileRecording(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1"})

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	c.HandleCaptureEnded()
	if cap.starts != 2 {
		t.Errorf("capture started %d times, want 2 (restart)", cap.starts)
	}
	if !c.Listening() {
		t.Error("controller stopped listening after engine-side end")
	}
}

func TestCaptureEndedAfterManualStopIgnored(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1", "q2"})

	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next returned %v", err)
	}

	// The stale ended event from the stopped engine must not restart it.
	c.HandleCaptureEnded()
	if cap.starts != 1 {
		t.Errorf("capture started %d times, want 1", cap.starts)
	}
}

func TestCaptureErrorRecovery(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1"})

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}

	c.HandleCaptureError(CaptureErrNoSpeech)
	if cap.starts != 2 {
		t.Errorf("capture started %d times after no-speech, want 2", cap.starts)
	}
	if !c.Listening() {
		t.Error("no-speech stopped listening")
	}

	c.HandleCaptureError("audio-capture")
	if c.Listening() {
		t.Error("still listening after hard capture error")
	}
	if c.State() != StateRecording {
		t.Errorf("state = %s, want %s (error must not abort the session)", c.State(), StateRecording)
	}
}

func TestTimerOnlyRunsWhileRecording(t *testing.T) {
	c, _, _ := newTestController([]string{"q1", "q2"})

	c.Tick()
	if got := c.TimeRemaining(); got != 2400 {
		t.Errorf("time remaining = %d before recording, want 2400", got)
	}

	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	c.Tick()
	c.Tick()
	if got := c.TimeRemaining(); got != 2398 {
		t.Errorf("time remaining = %d while recording, want 2398", got)
	}

	if _, err := c.Next(); err != nil {
		t.Fatalf("Next returned %v", err)
	}
	c.Tick()
	if got := c.TimeRemaining(); got != 2398 {
		t.Errorf("time remaining = %d after stop, want 2398", got)
	}
}

func TestTimerNeverGoesNegative(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})
	c.timeRemaining = 1
	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	c.Tick()
	c.Tick()
	if got := c.TimeRemaining(); got != 0 {
		t.Errorf("time remaining = %d, want 0", got)
	}
	// Expiry is observed, never enforced: the session keeps going.
	if c.State() != StateRecording {
		t.Errorf("state = %s after expiry, want %s", c.State(), StateRecording)
	}
}

func TestFullSessionCompletes(t *testing.T) {
	questions := make([]string, 15)
	for i := range questions {
		questions[i] = string(rune('a' + i))
	}
	c, _, _ := newTestController(questions)

	var submission bool
	for i := 0; i < len(questions); i++ {
		listen(c)
		if err := c.StartRecording(); err != nil {
			t.Fatalf("StartRecording on question %d returned %v", i+1, err)
		}
		c.HandleCaptureResult(CaptureResult{Transcript: "answer", IsFinal: true})
		sub, err := c.Next()
		if err != nil {
			t.Fatalf("Next on question %d returned %v", i+1, err)
		}
		if sub != nil {
			if i != len(questions)-1 {
				t.Fatalf("submission produced on question %d", i+1)
			}
			submission = true
			if len(sub.Scripts) != 15 {
				t.Fatalf("submission has %d scripts, want 15", len(sub.Scripts))
			}
			for j, r := range sub.Scripts {
				if r.QuestionNumber != j+1 {
					t.Errorf("script %d numbered %d", j, r.QuestionNumber)
				}
				if r.UserScript != "answer" {
					t.Errorf("script %d transcript = %q", j, r.UserScript)
				}
			}
		}
	}
	if !submission {
		t.Fatal("final Next produced no submission")
	}
	if c.State() != StateCompleted {
		t.Errorf("state = %s, want %s", c.State(), StateCompleted)
	}

	if _, err := c.Next(); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("Next after completion returned %v, want ErrSessionFinished", err)
	}
	if err := c.PlayQuestion(); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("PlayQuestion after completion returned %v, want ErrSessionFinished", err)
	}
}

func TestTeardownAbortsInProgress(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1"})

	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}

	c.Teardown()
	if cap.stops != 1 {
		t.Errorf("capture stopped %d times, want 1", cap.stops)
	}
	if c.State() != StateAborted {
		t.Errorf("state = %s, want %s", c.State(), StateAborted)
	}
	if c.TimerRunning() {
		t.Error("timer still running after teardown")
	}
}

func TestTeardownKeepsCompleted(t *testing.T) {
	c, _, _ := newTestController([]string{"q1"})

	listen(c)
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next returned %v", err)
	}
	c.Teardown()
	if c.State() != StateCompleted {
		t.Errorf("state = %s, want %s", c.State(), StateCompleted)
	}
}

func TestDegradedCapture(t *testing.T) {
	pb := &fakePlayback{}
	c := NewController([]string{"q1"}, UnavailableCapture{}, pb, 2400, 2, zerolog.Nop())

	if err := c.StartRecording(); !errors.Is(err, ErrCaptureUnavailable) {
		t.Fatalf("StartRecording returned %v, want ErrCaptureUnavailable", err)
	}
	if c.Listening() {
		t.Error("listening with unavailable capture")
	}

	// The session itself is still usable.
	listen(c)
	sub, err := c.Next()
	if err != nil {
		t.Fatalf("Next returned %v", err)
	}
	if sub == nil || len(sub.Scripts) != 1 {
		t.Fatal("single-question session produced no submission")
	}
	if sub.Scripts[0].UserScript != "" {
		t.Errorf("transcript = %q without capture, want empty", sub.Scripts[0].UserScript)
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	c, _, _ := newTestController([]string{"q1", "q2"})

	snap := c.Snapshot()
	if snap.State != StateNotStarted || snap.Question != "q1" || snap.QuestionCount != 2 {
		t.Errorf("unexpected initial snapshot: %+v", snap)
	}

	c.SetVideoAvailable(false)
	listen(c)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	c.HandleCaptureResult(CaptureResult{Transcript: "hello", IsFinal: true})

	snap = c.Snapshot()
	if snap.State != StateRecording || !snap.Listening || snap.VideoAvailable {
		t.Errorf("unexpected recording snapshot: %+v", snap)
	}
	if snap.Transcript != "hello" {
		t.Errorf("snapshot transcript = %q, want %q", snap.Transcript, "hello")
	}
}

func TestPlaybackEndedDoesNotStartCapture(t *testing.T) {
	c, cap, _ := newTestController([]string{"q1", "q2"})
	c.Begin()

	listen(c)
	if cap.starts != 0 {
		t.Errorf("capture started %d times by playback alone, want 0", cap.starts)
	}
	if c.Listening() {
		t.Error("controller listening without an explicit recording start")
	}
	if c.TimerRunning() {
		t.Error("timer running without an explicit recording start")
	}
	if c.State() != StatePrompted {
		t.Errorf("state = %s, want %s", c.State(), StatePrompted)
	}

	if err := c.StartRecording(); err != nil {
		t.Fatalf("StartRecording returned %v", err)
	}
	if cap.starts != 1 || !c.TimerRunning() {
		t.Error("explicit start did not begin capture and the countdown")
	}
}

func TestRestoreResumesMidSession(t *testing.T) {
	questions := []string{"q1", "q2", "q3"}
	c, _, _ := newTestController(questions)

	saved := []model.UserResponse{
		{QuestionNumber: 1, Question: "q1", UserScript: "first answer"},
		{QuestionNumber: 2, Question: "q2", UserScript: "second answer"},
	}
	c.Restore(2, saved)
	c.Begin()

	if c.QuestionIndex() != 2 {
		t.Fatalf("question index = %d, want 2", c.QuestionIndex())
	}
	if c.CurrentQuestion() != "q3" {
		t.Fatalf("current question = %q, want q3", c.CurrentQuestion())
	}

	listen(c)
	c.StartRecording()
	c.HandleCaptureResult(CaptureResult{Transcript: "third answer", IsFinal: true})

	sub, err := c.Next()
	if err != nil {
		t.Fatalf("Next returned %v", err)
	}
	if sub == nil {
		t.Fatal("final Next returned no submission")
	}
	if len(sub.Scripts) != 3 {
		t.Fatalf("submission has %d scripts, want 3", len(sub.Scripts))
	}
	for i, r := range sub.Scripts {
		if r.QuestionNumber != i+1 {
			t.Errorf("script %d numbered %d", i, r.QuestionNumber)
		}
	}
	if sub.Scripts[0].UserScript != "first answer" {
		t.Errorf("restored answer lost: %q", sub.Scripts[0].UserScript)
	}
}

func TestRestoreIgnoredAfterBegin(t *testing.T) {
	c, _, _ := newTestController([]string{"q1", "q2", "q3"})
	c.Begin()

	c.Restore(2, []model.UserResponse{{QuestionNumber: 1, Question: "q1", UserScript: "x"}})
	if c.QuestionIndex() != 0 {
		t.Errorf("question index = %d after late Restore, want 0", c.QuestionIndex())
	}
	if len(c.Responses()) != 0 {
		t.Error("late Restore injected responses")
	}
}

func TestRestoreRejectsOutOfRangeIndex(t *testing.T) {
	c, _, _ := newTestController([]string{"q1", "q2"})

	c.Restore(5, nil)
	if c.QuestionIndex() != 0 {
		t.Errorf("question index = %d after out-of-range Restore, want 0", c.QuestionIndex())
	}
	c.Restore(-1, nil)
	if c.QuestionIndex() != 0 {
		t.Errorf("question index = %d after negative Restore, want 0", c.QuestionIndex())
	}
}
