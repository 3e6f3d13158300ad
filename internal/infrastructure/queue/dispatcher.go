package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/orderfood/ordering-system/internal/api/metrics"
	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes kitchen order events to a fixed set of workers using
// consistent hashing on the order code, guaranteeing per-order event
// ordering.
type Dispatcher struct {
	workers []chan ports.OrderEventInput
	service ports.OrderEventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.OrderEventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OrderEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OrderEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its order code.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.OrderEventInput) {
	d.workers[d.shardIndex(event.OrderCode)] <- event
}

// EnqueueBatch enqueues multiple events preserving per-order ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.OrderEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch chan ports.OrderEventInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			metrics.KitchenQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			start := time.Now()
			if err := d.service.Process(ctx, event); err != nil {
				if errors.Is(err, domain.ErrDuplicateEvent) {
					metrics.KitchenEventsTotal.WithLabelValues(event.Status, "duplicate").Inc()
					continue
				}
				metrics.KitchenEventsTotal.WithLabelValues(event.Status, "error").Inc()
				metrics.KitchenEventDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
				d.log.Error().Err(err).
					Str("order_code", event.OrderCode).
					Str("status", event.Status).
					Msg("order event processing failed")
				continue
			}
			metrics.KitchenEventsTotal.WithLabelValues(event.Status, "applied").Inc()
			metrics.KitchenEventDuration.WithLabelValues(event.Status).Observe(time.Since(start).Seconds())
		}
	}
}

// shardIndex maps an order code deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderCode string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderCode))
	return int(h.Sum32()) % len(d.workers)
}
