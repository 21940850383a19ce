package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecognizeJoinsResults(t *testing.T) {
	var gotReq recognizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speech:recognize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("unexpected key %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"alternatives":[{"transcript":"I usually go","confidence":0.92}]},
			{"alternatives":[{"transcript":"to the park","confidence":0.88}]}
		]}`))
	}))
	defer srv.Close()

	rec := NewRecognizer(srv.URL, "test-key", "en-US", zerolog.Nop())
	got, err := rec.Recognize(context.Background(), []byte("audio"), ProfileBrowser)
	if err != nil {
		t.Fatalf("Recognize returned %v", err)
	}
	if got != "I usually go to the park" {
		t.Errorf("transcript = %q", got)
	}
	if gotReq.Config.Encoding != "WEBM_OPUS" || gotReq.Config.SampleRateHertz != 48000 {
		t.Errorf("unexpected config %+v", gotReq.Config)
	}
	if gotReq.Config.LanguageCode != "en-US" {
		t.Errorf("language = %q", gotReq.Config.LanguageCode)
	}
}

func TestRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	rec := NewRecognizer(srv.URL, "test-key", "en-US", zerolog.Nop())
	if _, err := rec.Recognize(context.Background(), []byte("audio"), ProfileFile); err == nil {
		t.Fatal("expected error on HTTP 400")
	}
}

func TestRecognizeUnconfigured(t *testing.T) {
	rec := NewRecognizer("", "", "en-US", zerolog.Nop())
	if rec.Available() {
		t.Error("recognizer without key reports available")
	}
	if _, err := rec.Recognize(context.Background(), []byte("audio"), ProfileBrowser); err == nil {
		t.Fatal("expected error when unconfigured")
	}
}

func TestRecognizeEmptyAudio(t *testing.T) {
	rec := NewRecognizer("http://localhost", "k", "en-US", zerolog.Nop())
	got, err := rec.Recognize(context.Background(), nil, ProfileBrowser)
	if err != nil || got != "" {
		t.Errorf("Recognize(nil) = %q, %v", got, err)
	}
}
