package quotegen_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nurtra/nurtra/quotegen"
	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/survey"
)

func numberedQuotes(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d. Quote number %d about staying strong.\n", i, i)
	}
	return b.String()
}

func TestParseQuotes(t *testing.T) {
	content := "Here are your quotes:\n\n" + numberedQuotes(store.MaxQuotes) + "\nGood luck!"
	quotes, err := quotegen.ParseQuotes(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != store.MaxQuotes {
		t.Fatalf("parsed %d quotes, want %d", len(quotes), store.MaxQuotes)
	}
	if quotes[0] != "Quote number 1 about staying strong." {
		t.Errorf("first quote = %q", quotes[0])
	}
	// The surrounding prose must not leak into the set.
	for _, q := range quotes {
		if strings.Contains(q, "Good luck") {
			t.Errorf("non-quote line parsed: %q", q)
		}
	}
}

func TestParseQuotesDropsExtras(t *testing.T) {
	quotes, err := quotegen.ParseQuotes(numberedQuotes(store.MaxQuotes + 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != store.MaxQuotes {
		t.Errorf("parsed %d quotes, want cap of %d", len(quotes), store.MaxQuotes)
	}
}

func TestParseQuotesInsufficient(t *testing.T) {
	_, err := quotegen.ParseQuotes(numberedQuotes(store.MaxQuotes - 1))
	if !errors.Is(err, quotegen.ErrInsufficientQuotes) {
		t.Errorf("err = %v, want ErrInsufficientQuotes", err)
	}
}

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": numberedQuotes(store.MaxQuotes)}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := quotegen.NewClient(quotegen.ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	responses := survey.OnboardingResponses{
		BingeTriggers:    []string{"stress"},
		CopingActivities: []string{"running", "journaling"},
	}
	quotes, err := client.Generate(context.Background(), responses, "Sam")
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != store.MaxQuotes {
		t.Fatalf("got %d quotes, want %d", len(quotes), store.MaxQuotes)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq["model"] != "gpt-3.5-turbo" {
		t.Errorf("model = %v", gotReq["model"])
	}

	messages, ok := gotReq["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", gotReq["messages"])
	}
	user := messages[1].(map[string]any)["content"].(string)
	for _, want := range []string{"Sam", "stress", "running, journaling"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	client := quotegen.NewClient(quotegen.ClientConfig{})
	_, err := client.Generate(context.Background(), survey.OnboardingResponses{}, "")
	if !errors.Is(err, quotegen.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := quotegen.NewClient(quotegen.ClientConfig{APIKey: "k", BaseURL: server.URL})
	_, err := client.Generate(context.Background(), survey.OnboardingResponses{}, "")
	if !errors.Is(err, quotegen.ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}
