package checkout

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"kama/internal/cart"
	"kama/internal/client"
	"kama/internal/domain"
	httpapi "kama/internal/http"
	"kama/internal/repository"
	"kama/internal/service"
)

func twoItemCart(t *testing.T) *cart.Store {
	t.Helper()
	c := cart.New(cart.NewMemoryStorage())
	if err := c.AddItem(cart.Item{ProductID: "p1", Name: "Silk", Price: 1500, Color: "Red", Size: "M", Quantity: 2}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddItem(cart.Item{ProductID: "p2", Name: "Cotton", Price: 2000, Color: "Blue", Size: "S", Quantity: 1}); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSubmit_EndToEnd(t *testing.T) {
	ctx := context.Background()
	stores := repository.NewMemoryStores()
	srv := httpapi.NewServer(httpapi.Services{
		Categories: service.NewCategoryService(stores.Categories, stores.Products, stores.Tx),
		Products:   service.NewProductService(stores.Products, stores.Categories),
		Orders:     service.NewOrderService(stores.Orders, stores.Tx, nil),
		Stats:      service.NewStatsService(stores.Categories, stores.Products, stores.Orders),
	}, nil, httpapi.Options{})
	ts := httptest.NewServer(srv.Engine())
	defer ts.Close()
	api := client.New(ts.URL, ts.Client())

	c := twoItemCart(t)
	sub := New(api)
	conf, err := sub.Submit(ctx, c)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if conf.OrderID == 0 || conf.Total != 5000 || conf.Items != 2 {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
	if sub.LastOrderID() != conf.OrderID {
		t.Fatalf("LastOrderID = %d", sub.LastOrderID())
	}
	if c.Len() != 0 {
		t.Fatalf("cart must be empty after successful submit")
	}

	orders, err := api.ListOrders(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	o := orders[0]
	if o.ID != conf.OrderID || o.Status != domain.OrderStatusPending || o.Total != 5000 || len(o.Items) != 2 {
		t.Fatalf("unexpected stored order %+v", o)
	}
	if o.Items[0].ProductID != "p1" || o.Items[0].Quantity != 2 || o.Items[0].Price != 1500 {
		t.Fatalf("item snapshot differs: %+v", o.Items[0])
	}

	// пустая корзина уходит как есть, сервер отвечает 400
	_, err = sub.Submit(ctx, c)
	var apiErr *client.APIError
	if !errors.Is(err, ErrSubmitFailed) || !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected rejected empty submit, got %v", err)
	}
	if sub.LastOrderID() != conf.OrderID {
		t.Fatalf("failed submit must not change LastOrderID")
	}
}

type stubCreator struct {
	order *domain.Order
	err   error
	got   domain.OrderRequest
}

func (s *stubCreator) CreateOrder(_ context.Context, req domain.OrderRequest) (*domain.Order, error) {
	s.got = req
	return s.order, s.err
}

func TestSubmit_FailureKeepsCart(t *testing.T) {
	cases := map[string]*stubCreator{
		"transport": {err: errors.New("connection refused")},
		"no id":     {order: &domain.Order{}},
		"nil order": {},
	}
	for name, stub := range cases {
		c := twoItemCart(t)
		sub := New(stub)
		if _, err := sub.Submit(context.Background(), c); !errors.Is(err, ErrSubmitFailed) {
			t.Fatalf("%s: expected ErrSubmitFailed, got %v", name, err)
		}
		if c.Len() != 2 || c.TotalPrice() != 5000 {
			t.Fatalf("%s: cart changed after failure", name)
		}
		if sub.LastOrderID() != 0 {
			t.Fatalf("%s: LastOrderID set after failure", name)
		}
	}
}

func TestBuildRequest(t *testing.T) {
	stub := &stubCreator{order: &domain.Order{ID: 9}}
	c := twoItemCart(t)
	if _, err := New(stub).Submit(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	req := stub.got
	if req.Total == nil || *req.Total != 5000 || len(req.Items) != 2 {
		t.Fatalf("unexpected request %+v", req)
	}
	l := req.Items[1]
	if l.ProductID != "p2" || l.Name != "Cotton" || l.Color != "Blue" || l.Size != "S" || l.Quantity != 1 || l.Price != 2000 {
		t.Fatalf("line not copied verbatim: %+v", l)
	}
}
