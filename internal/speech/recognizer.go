// Package speech provides a server-side speech-to-text fallback for
// clients whose browsers cannot run live recognition. Audio chunks are
// shipped over the session socket and transcribed through the cloud
// recognition REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EncodingProfile describes how a batch of audio was encoded.
type EncodingProfile struct {
	Encoding        string
	SampleRateHertz int
}

var (
	// ProfileBrowser matches MediaRecorder output from the exam client.
	ProfileBrowser = EncodingProfile{Encoding: "WEBM_OPUS", SampleRateHertz: 48000}

	// ProfileFile matches pre-recorded WAV uploads used by the ops tooling.
	ProfileFile = EncodingProfile{Encoding: "LINEAR16", SampleRateHertz: 44100}
)

// Recognizer calls the recognition API for one audio batch at a time.
// A zero-value API key disables it; Recognize then reports unavailability
// and the session continues without a transcript.
type Recognizer struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
	log      zerolog.Logger
}

func NewRecognizer(baseURL, apiKey, language string, log zerolog.Logger) *Recognizer {
	return &Recognizer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "speech_recognizer").Logger(),
	}
}

// Available reports whether the recognizer is configured.
func (r *Recognizer) Available() bool {
	return r.apiKey != "" && r.baseURL != ""
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Recognize transcribes one audio batch. Failures are returned to the
// caller, which is expected to degrade to an empty transcript rather
// than interrupt the session.
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, profile EncodingProfile) (string, error) {
	if !r.Available() {
		return "", fmt.Errorf("speech recognition not configured")
	}
	if len(audio) == 0 {
		return "", nil
	}

	payload, err := json.Marshal(recognizeRequest{
		Config: recognizeConfig{
			Encoding:        profile.Encoding,
			SampleRateHertz: profile.SampleRateHertz,
			LanguageCode:    r.language,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal recognition request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/speech:recognize?key=%s", r.baseURL, r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.log.Warn().Int("status", resp.StatusCode).Bytes("body", body).Msg("Recognition API error")
		return "", fmt.Errorf("recognition API returned status %d", resp.StatusCode)
	}

	var parsed recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode recognition response: %w", err)
	}

	var sb strings.Builder
	for _, res := range parsed.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(res.Alternatives[0].Transcript)
	}
	return strings.TrimSpace(sb.String()), nil
}
