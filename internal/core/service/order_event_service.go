package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderCode, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, orderCode, status string, ts time.Time) error
}

type orderEventService struct {
	orders ports.OrderRepository
	dedup  DedupChecker
	log    zerolog.Logger
}

// NewOrderEventService returns an OrderEventService implementation.
func NewOrderEventService(orders ports.OrderRepository, dedup DedupChecker, log zerolog.Logger) ports.OrderEventService {
	return &orderEventService{orders: orders, dedup: dedup, log: log}
}

// Process validates, deduplicates, and applies a single kitchen status event.
func (s *orderEventService) Process(ctx context.Context, in ports.OrderEventInput) error {
	newStatus := domain.OrderStatus(in.Status)

	// 1. Idempotency check. Duplicates surface as ErrDuplicateEvent so the
	// caller can account for them separately from real failures.
	isDup, err := s.dedup.IsDuplicate(ctx, in.OrderCode, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("order_code", in.OrderCode).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("order_code", in.OrderCode).Str("status", in.Status).Msg("duplicate event skipped")
		return domain.ErrDuplicateEvent
	}

	// 2. Find the order.
	order, err := s.orders.FindByCode(ctx, in.OrderCode)
	if err != nil {
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Validate state machine transition.
	if !order.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("process event: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	// 4. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.OrderCode, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("order_code", in.OrderCode).Msg("failed to set dedup key")
	}

	// 5. Atomically update order status + history.
	if err := s.orders.UpdateStatus(ctx, in.OrderCode, newStatus, in.Timestamp, in.Source); err != nil {
		return fmt.Errorf("process event: update status: %w", err)
	}

	s.log.Info().
		Str("order_code", in.OrderCode).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("order event processed")

	return nil
}
