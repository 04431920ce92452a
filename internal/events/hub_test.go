package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kama/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_BroadcastToSubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	errc := make(chan error, 1)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	go func() {
		errc <- Subscribe(ctx, url, func(ev Event) { got <- ev })
	}()

	waitFor(t, func() bool { return hub.Len() == 1 })
	hub.PublishOrder("order.created", domain.Order{ID: 7, Status: domain.OrderStatusPending, Total: 5000})

	select {
	case ev := <-got:
		if ev.Type != "order.created" || ev.Order.ID != 7 || ev.Order.Total != 5000 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("subscribe returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscribe did not stop on cancel")
	}
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.PublishOrder("order.updated", domain.Order{ID: 1})
	if hub.Len() != 0 {
		t.Fatalf("expected no clients")
	}
	hub.Close()
	hub.Close()
}
