package quotegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nurtra/nurtra/speech"
	"github.com/nurtra/nurtra/store"
	"github.com/nurtra/nurtra/survey"
)

// Generator produces a quote set from survey responses; it is the
// narrow view of Client the service needs.
type Generator interface {
	Generate(ctx context.Context, responses survey.OnboardingResponses, userName string) ([]string, error)
}

// Service runs the full quote pipeline: generate from survey answers,
// persist the set, then warm the speech cache so the first craving
// session does not wait on synthesis.
type Service struct {
	generator Generator
	quotes    store.QuoteStore
	profiles  store.ProfileStore

	cache *speech.Cache
	synth speech.Synthesizer
}

// ServiceConfig wires a Service. Cache and Synth are optional; without
// them the pre-warm step is skipped.
type ServiceConfig struct {
	Generator Generator
	Quotes    store.QuoteStore
	Profiles  store.ProfileStore
	Cache     *speech.Cache
	Synth     speech.Synthesizer
}

// NewService builds the pipeline.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		generator: cfg.Generator,
		quotes:    cfg.Quotes,
		profiles:  cfg.Profiles,
		cache:     cfg.Cache,
		synth:     cfg.Synth,
	}
}

// GenerateAndStore produces the user's quote set and persists it,
// replacing any previous set. Returns the generated quotes in
// generation order.
func (s *Service) GenerateAndStore(ctx context.Context, userID string, responses survey.OnboardingResponses) ([]string, error) {
	userName := ""
	if s.profiles != nil {
		profile, err := s.profiles.Fetch(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Warn("failed to fetch profile for quote personalization", "err", err)
		} else if profile != nil {
			userName = profile.Name
		}
	}

	quotes, err := s.generator.Generate(ctx, responses, userName)
	if err != nil {
		return nil, fmt.Errorf("generate quotes: %w", err)
	}

	if err := s.quotes.Save(ctx, userID, quotes); err != nil {
		return nil, fmt.Errorf("save quotes: %w", err)
	}

	log.Info("generated quote set", "user", userID, "count", len(quotes))
	return quotes, nil
}

// Prewarm synthesizes and caches audio for every quote not already
// cached. Failures are logged and skipped; the playback loop will retry
// uncached quotes on demand.
func (s *Service) Prewarm(ctx context.Context, quotes []string) {
	if s.cache == nil || s.synth == nil {
		return
	}
	warmed := 0
	for _, text := range quotes {
		if ctx.Err() != nil {
			return
		}
		if s.cache.Has(text) {
			continue
		}
		clip, err := s.synth.Synthesize(ctx, text)
		if err != nil {
			log.Warn("failed to pre-synthesize quote", "err", err)
			continue
		}
		if err := s.cache.Store(text, clip); err != nil {
			log.Warn("failed to cache quote audio", "err", err)
			continue
		}
		warmed++
	}
	log.Info("pre-warmed speech cache", "quotes", warmed)
}
