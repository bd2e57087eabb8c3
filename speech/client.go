package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the synthesis API endpoint root.
const DefaultBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"

// VoiceParams are the synthesis tuning knobs sent with every request.
type VoiceParams struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
}

// DefaultVoiceParams returns the voice settings tuned for motivational
// delivery.
func DefaultVoiceParams() VoiceParams {
	return VoiceParams{
		Stability:       0.1,
		SimilarityBoost: 0.8,
		Style:           1,
		UseSpeakerBoost: true,
		Speed:           1.1,
	}
}

// ClientConfig configures the synthesis client.
type ClientConfig struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
	Voice   VoiceParams
	Timeout time.Duration
	// RequestsPerMinute caps outbound synthesis calls; zero disables the
	// limiter.
	RequestsPerMinute int
}

// Client converts text into audio through the hosted text-to-speech API.
// The API is asked for raw PCM (16-bit mono 44.1kHz) so clips feed the
// playback sink directly.
type Client struct {
	apiKey     string
	voiceID    string
	modelID    string
	baseURL    string
	voice      VoiceParams
	httpClient *http.Client
	limiter    *rate.Limiter
}

type synthesisRequest struct {
	Text          string      `json:"text"`
	ModelID       string      `json:"model_id"`
	VoiceSettings VoiceParams `json:"voice_settings"`
}

// NewClient builds a synthesis client. An empty API key is tolerated at
// construction; Synthesize fails fast with ErrMissingAPIKey instead.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.Voice == (VoiceParams{}) {
		cfg.Voice = DefaultVoiceParams()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.APIKey == "" {
		log.Warn("speech synthesis API key not configured")
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return &Client{
		apiKey:     cfg.APIKey,
		voiceID:    cfg.VoiceID,
		modelID:    cfg.ModelID,
		baseURL:    cfg.BaseURL,
		voice:      cfg.Voice,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
	}
}

// Synthesize converts text into an audio clip. Failures are mapped to the
// typed errors in errors.go so callers can branch on cause.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("speech: rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       c.modelID,
		VoiceSettings: c.voice,
	})
	if err != nil {
		return nil, ErrEncodingFailed
	}

	url := fmt.Sprintf("%s/%s?output_format=pcm_44100", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, ErrEncodingFailed
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/basic")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		clip, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		if len(clip) == 0 {
			return nil, ErrInvalidResponse
		}
		return clip, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return nil, ErrServerError
	default:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}
}
