// Package paywall gates premium features behind a subscription check and
// owns the presentation policy for the upgrade prompt.
package paywall

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// Service answers subscription questions. Implementations wrap whatever
// entitlement backend the build uses.
type Service interface {
	IsSubscribed(ctx context.Context) (bool, error)
}

// Local is a config-driven Service for builds without an entitlement
// backend.
type Local struct {
	Subscribed bool
}

func (l Local) IsSubscribed(context.Context) (bool, error) {
	return l.Subscribed, nil
}

// Prompt renders the upgrade surface. Implementations must be quick;
// Presenter serializes calls.
type Prompt interface {
	Show(ctx context.Context) error
}

// Presenter decides when the upgrade prompt actually appears. A prompt
// already on screen suppresses further requests instead of stacking, and
// subscribed users are never prompted.
type Presenter struct {
	service Service
	prompt  Prompt

	mu         sync.Mutex
	presenting bool
}

// NewPresenter wires a presenter.
func NewPresenter(service Service, prompt Prompt) *Presenter {
	return &Presenter{service: service, prompt: prompt}
}

// MaybePresent shows the prompt unless the user is subscribed or a
// prompt is already up. Returns whether the prompt was shown.
func (p *Presenter) MaybePresent(ctx context.Context) bool {
	subscribed, err := p.service.IsSubscribed(ctx)
	if err != nil {
		log.Error("failed to check subscription", "err", err)
		return false
	}
	if subscribed {
		return false
	}

	p.mu.Lock()
	if p.presenting {
		p.mu.Unlock()
		log.Debug("paywall already presenting, suppressing")
		return false
	}
	p.presenting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.presenting = false
		p.mu.Unlock()
	}()

	if err := p.prompt.Show(ctx); err != nil {
		log.Error("failed to present paywall", "err", err)
		return false
	}
	return true
}
