package authprovider

import (
	"context"

	"github.com/orderfood/ordering-system/internal/api/metrics"
	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// Instrumented decorates an AuthProvider with Prometheus counters on the
// hot validation path. Wrap the concrete provider once at wiring time.
type Instrumented struct {
	ports.AuthProvider
}

func NewInstrumented(inner ports.AuthProvider) *Instrumented {
	return &Instrumented{AuthProvider: inner}
}

func (p *Instrumented) ValidateSession(ctx context.Context, token string) (*domain.ExternalIdentity, error) {
	identity, err := p.AuthProvider.ValidateSession(ctx, token)
	switch {
	case err != nil:
		metrics.SessionsValidatedTotal.WithLabelValues("error").Inc()
	case identity == nil:
		metrics.SessionsValidatedTotal.WithLabelValues("none").Inc()
	default:
		metrics.SessionsValidatedTotal.WithLabelValues("valid").Inc()
	}
	return identity, err
}
