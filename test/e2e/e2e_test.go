//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultBaseURL  = "http://localhost:8080"
	respondentEmail = "e2e_respondent@example.com"
	respondentPass  = "password123"
	respondentName  = "E2E Respondent"
)

var (
	baseURL         string
	respondentID    int
	respondentToken string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if err := setupRespondent(); err != nil {
		fmt.Printf("Setup failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupRespondent provisions a fresh e2e account directly in Postgres and
// mints a token for it the same way the seeding tool does.
func setupRespondent() error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, `DELETE FROM respondents WHERE email = $1`, respondentEmail); err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(respondentPass), cfg.BcryptCost)
	if err != nil {
		return err
	}

	err = conn.QueryRow(ctx,
		`INSERT INTO respondents (email, full_name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		respondentEmail, respondentName, string(hash),
	).Scan(&respondentID)
	if err != nil {
		return fmt.Errorf("insert respondent: %w", err)
	}

	respondentToken, err = service.NewAuthService(cfg).GenerateRespondentToken(respondentID)
	return err
}

func TestE2EFlow(t *testing.T) {
	t.Run("SurveyCatalog", testSurveyCatalog)
	t.Run("SaveSurvey", testSaveSurvey)
	t.Run("GetSurvey", testGetSurvey)
	t.Run("CreateExam", testCreateExam)
	t.Run("ResumeActiveExam", testResumeActiveExam)
	t.Run("RunSessionOverWebSocket", testRunSessionOverWebSocket)
	t.Run("FeedbackHistory", testFeedbackHistory)
}

func testSurveyCatalog(t *testing.T) {
	resp := doJSON(t, "GET", "/api/v1/respondent/survey/catalog", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog status = %d: %s", resp.StatusCode, readBody(resp))
	}

	var out struct {
		Data struct {
			Occupations       []string `json:"occupations"`
			LeisureActivities struct {
				Options   []string `json:"options"`
				MinSelect int      `json:"min_select"`
			} `json:"leisure_activities"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data.Occupations) != 4 {
		t.Fatalf("occupations = %d, want 4", len(out.Data.Occupations))
	}
	if out.Data.LeisureActivities.MinSelect != 2 {
		t.Fatalf("leisure min_select = %d, want 2", out.Data.LeisureActivities.MinSelect)
	}
}

func testSaveSurvey(t *testing.T) {
	body := map[string]interface{}{
		"occupation":         "NO_WORK_EXPERIENCE",
		"is_student":         "YES",
		"recent_course":      "Language courses",
		"living_arrangement": "Alone in a house or apartment",
		"leisure_activities": []string{"Watching movies", "Going to the beach"},
		"hobbies":            []string{"Listening to music"},
		"sports":             []string{"Swimming"},
		"travel_experience":  []string{"Domestic travel"},
	}
	resp := doJSON(t, "PUT", "/api/v1/respondent/survey", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save survey status = %d: %s", resp.StatusCode, readBody(resp))
	}
}

func testGetSurvey(t *testing.T) {
	resp := doJSON(t, "GET", "/api/v1/respondent/survey", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get survey status = %d: %s", resp.StatusCode, readBody(resp))
	}
}

func testCreateExam(t *testing.T) {
	resp := doJSON(t, "POST", "/api/v1/respondent/exams", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create exam status = %d: %s", resp.StatusCode, readBody(resp))
	}

	var out struct {
		Data struct {
			ID            string `json:"id"`
			QuestionCount int    `json:"question_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.QuestionCount != 15 {
		t.Fatalf("question_count = %d, want 15", out.Data.QuestionCount)
	}

	// A second create must be rejected while the first is open.
	resp2 := doJSON(t, "POST", "/api/v1/respondent/exams", nil)
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", resp2.StatusCode)
	}
}

func testResumeActiveExam(t *testing.T) {
	resp := doJSON(t, "GET", "/api/v1/respondent/exams/active", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("active exam status = %d: %s", resp.StatusCode, readBody(resp))
	}
}

func dialSession(t *testing.T) *websocket.Conn {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) +
		"/ws/v1/respondent/session/stream?token=" + respondentToken

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

// answerQuestion walks one question: listen, press start, speak, advance.
func answerQuestion(t *testing.T, conn *websocket.Conn, n int) {
	send(t, conn, map[string]interface{}{"action": "playback_started"})
	send(t, conn, map[string]interface{}{"action": "playback_ended"})
	send(t, conn, map[string]interface{}{"action": "start_recording"})
	waitEvent(t, conn, "capture")

	send(t, conn, map[string]interface{}{
		"action": "speech_result",
		"result": map[string]interface{}{
			"transcript": fmt.Sprintf("answer %d", n+1),
			"is_final":   true,
		},
	})
	send(t, conn, map[string]interface{}{"action": "next"})
}

func sessionSnapshot(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	state := waitEvent(t, conn, "state")
	return state["snapshot"].(map[string]interface{})
}

func testRunSessionOverWebSocket(t *testing.T) {
	conn := dialSession(t)

	snap := sessionSnapshot(t, conn)
	count := int(snap["question_count"].(float64))
	if count != 15 {
		t.Fatalf("question_count = %d, want 15", count)
	}

	send(t, conn, map[string]interface{}{"action": "start"})
	waitEvent(t, conn, "speak")

	// Answer the first two questions, then drop the connection.
	for i := 0; i < 2; i++ {
		if i > 0 {
			send(t, conn, map[string]interface{}{"action": "play"})
			waitEvent(t, conn, "speak")
		}
		answerQuestion(t, conn, i)
	}
	conn.Close()
	time.Sleep(time.Second) // Let the server checkpoint the session.

	// Reconnect: the session must resume at question 3 with the earlier
	// answers intact, not start over.
	conn = dialSession(t)
	defer conn.Close()

	snap = sessionSnapshot(t, conn)
	if idx := int(snap["question_index"].(float64)); idx != 2 {
		t.Fatalf("resumed question_index = %d, want 2", idx)
	}
	if remaining := int(snap["time_remaining_seconds"].(float64)); remaining > 2400 {
		t.Fatalf("resumed clock = %d, exceeds the full duration", remaining)
	}

	send(t, conn, map[string]interface{}{"action": "start"})
	waitEvent(t, conn, "speak")

	for i := 2; i < count; i++ {
		if i > 2 {
			send(t, conn, map[string]interface{}{"action": "play"})
			waitEvent(t, conn, "speak")
		}
		answerQuestion(t, conn, i)
	}

	completed := waitEvent(t, conn, "completed")
	if int(completed["questions"].(float64)) != count {
		t.Fatalf("completed questions = %v, want %d", completed["questions"], count)
	}

	// Gateway outcome always arrives, even when the scoring service is down.
	result := waitEvent(t, conn, "submission_result")
	status := result["status"].(string)
	if status != "DELIVERED" && status != "FAILED" {
		t.Fatalf("submission status = %q", status)
	}
}

func testFeedbackHistory(t *testing.T) {
	// The submission row is persisted by a batch worker; give it a moment.
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp := doJSON(t, "GET", "/api/v1/respondent/feedback", nil)
		var out struct {
			Data struct {
				Submissions []map[string]interface{} `json:"submissions"`
			} `json:"data"`
		}
		err := json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err == nil && len(out.Data.Submissions) > 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("submission never appeared in feedback history")
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// ─── Helpers ────────────────────────────────────────────────────────

func doJSON(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+respondentToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}

func readBody(resp *http.Response) string {
	raw, _ := io.ReadAll(resp.Body)
	return string(raw)
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// waitEvent reads messages until one matches the wanted event type,
// skipping interleaved state pushes and ticks.
func waitEvent(t *testing.T, conn *websocket.Conn, event string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q event: %v", event, err)
		}
		if msg["event"] == "error" && event != "error" {
			t.Fatalf("unexpected error event: %v", msg)
		}
		if msg["event"] == event {
			return msg
		}
	}
}
