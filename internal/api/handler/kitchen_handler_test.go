package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/orderfood/ordering-system/internal/core/ports"
)

type stubDispatcher struct {
	events []ports.OrderEventInput
}

func (d *stubDispatcher) Enqueue(e ports.OrderEventInput) {
	d.events = append(d.events, e)
}

func (d *stubDispatcher) EnqueueBatch(events []ports.OrderEventInput) {
	d.events = append(d.events, events...)
}

func newEventContext(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestKitchenHandler_ReceiveEvent_Accepted(t *testing.T) {
	dispatcher := &stubDispatcher{}
	h := NewKitchenHandler(nil, dispatcher)

	c, rec := newEventContext("/kitchen/orders/events",
		`{"order_code":"ORD-AABBCCDD","status":"preparing","timestamp":"2026-09-01T12:30:00Z","source":"kitchen_app"}`)

	if err := h.ReceiveEvent(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].OrderCode != "ORD-AABBCCDD" {
		t.Errorf("event not enqueued: %v", dispatcher.events)
	}
}

func TestKitchenHandler_ReceiveEvent_RejectsUnknownStatus(t *testing.T) {
	dispatcher := &stubDispatcher{}
	h := NewKitchenHandler(nil, dispatcher)

	c, _ := newEventContext("/kitchen/orders/events",
		`{"order_code":"ORD-AABBCCDD","status":"burnt","timestamp":"2026-09-01T12:30:00Z","source":"kitchen_app"}`)

	err := h.ReceiveEvent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got: %v", err)
	}
	if len(dispatcher.events) != 0 {
		t.Errorf("invalid event must not be enqueued")
	}
}

func TestKitchenHandler_ReceiveEventBatch(t *testing.T) {
	dispatcher := &stubDispatcher{}
	h := NewKitchenHandler(nil, dispatcher)

	c, rec := newEventContext("/kitchen/orders/events/batch",
		`[{"order_code":"ORD-1","status":"confirmed","timestamp":"2026-09-01T12:00:00Z","source":"kitchen_app"},
		  {"order_code":"ORD-2","status":"ready","timestamp":"2026-09-01T12:05:00Z","source":"kitchen_app"}]`)

	if err := h.ReceiveEventBatch(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if len(dispatcher.events) != 2 {
		t.Errorf("expected 2 enqueued events, got %d", len(dispatcher.events))
	}
}

func TestKitchenHandler_ReceiveEventBatch_Empty(t *testing.T) {
	h := NewKitchenHandler(nil, &stubDispatcher{})

	c, _ := newEventContext("/kitchen/orders/events/batch", `[]`)
	err := h.ReceiveEventBatch(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got: %v", err)
	}
}
