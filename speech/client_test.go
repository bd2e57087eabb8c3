package speech_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nurtra/nurtra/speech"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *speech.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return speech.NewClient(speech.ClientConfig{
		APIKey:  "test-key",
		VoiceID: "test-voice",
		BaseURL: server.URL,
	})
}

func TestSynthesizeSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte("pcm-bytes"))
	})

	clip, err := client.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if string(clip) != "pcm-bytes" {
		t.Errorf("clip = %q", clip)
	}
	if gotPath != "/test-voice" {
		t.Errorf("request path = %q, want /test-voice", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
	if gotBody["text"] != "hello" {
		t.Errorf("request text = %v", gotBody["text"])
	}
	settings, ok := gotBody["voice_settings"].(map[string]any)
	if !ok {
		t.Fatal("voice_settings missing from request")
	}
	if settings["stability"] != 0.1 {
		t.Errorf("stability = %v, want 0.1", settings["stability"])
	}
	if settings["speed"] != 1.1 {
		t.Errorf("speed = %v, want 1.1", settings["speed"])
	}
}

func TestSynthesizeStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, speech.ErrUnauthorized},
		{http.StatusTooManyRequests, speech.ErrRateLimited},
		{http.StatusInternalServerError, speech.ErrServerError},
		{http.StatusBadGateway, speech.ErrServerError},
		{http.StatusNotFound, speech.ErrInvalidResponse},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		})
		_, err := client.Synthesize(context.Background(), "hello")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestSynthesizeEmptyBodyIsInvalid(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {})
	_, err := client.Synthesize(context.Background(), "hello")
	if !errors.Is(err, speech.ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestSynthesizeMissingAPIKey(t *testing.T) {
	client := speech.NewClient(speech.ClientConfig{VoiceID: "v"})
	_, err := client.Synthesize(context.Background(), "hello")
	if !errors.Is(err, speech.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("request sent for empty text")
	})
	_, err := client.Synthesize(context.Background(), "")
	if !errors.Is(err, speech.ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
}
