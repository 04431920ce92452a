package repository

import (
	"context"
	"errors"
	"testing"

	"kama/internal/domain"
)

// runStoreSuite проверяет поведение, общее для всех бэкендов
func runStoreSuite(t *testing.T, s Stores) {
	t.Helper()
	ctx := context.Background()

	second := domain.Category{Name: "Халаты", Slug: "halaty", SortOrder: 2}
	first := domain.Category{Name: "Пижамы", Slug: "pizhamy", SortOrder: 1}
	for _, c := range []*domain.Category{&second, &first} {
		if err := s.Categories.Create(ctx, c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}
	dup := domain.Category{Name: "Пижамы 2", Slug: "pizhamy"}
	if err := s.Categories.Create(ctx, &dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}

	red := "Red"
	p := domain.Product{
		Name:       "Silk",
		Price:      250000,
		CategoryID: first.ID,
		Images: []domain.ProductImage{
			{URL: "main.jpg", IsMain: true},
			{URL: "red.jpg", Color: &red},
		},
		Variants: []domain.ProductVariant{
			{Color: "Red", Size: "S", InStock: true},
			{Color: "Red", Size: "M", InStock: false},
		},
	}
	if err := s.Products.Create(ctx, &p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	other := domain.Product{Name: "Cotton", Price: 90000, CategoryID: second.ID}
	if err := s.Products.Create(ctx, &other); err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := s.Products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if len(got.Images) != 2 || len(got.Variants) != 2 {
		t.Fatalf("nested rows not stored: %d images, %d variants", len(got.Images), len(got.Variants))
	}
	if got.Category == nil || got.Category.ID != first.ID {
		t.Fatalf("category not attached: %+v", got.Category)
	}

	cats, err := s.Categories.List(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != first.ID {
		t.Fatalf("categories not ordered by sortOrder: %+v", cats)
	}
	if cats[0].Count == nil || cats[0].Count.Products != 1 {
		t.Fatalf("product count missing: %+v", cats[0].Count)
	}

	filtered, err := s.Products.List(ctx, ProductFilter{CategoryID: second.ID})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != other.ID {
		t.Fatalf("category filter failed: %+v", filtered)
	}

	got.Name = "Silk Deluxe"
	got.Variants = nil
	if err := s.Products.Update(ctx, got); err != nil {
		t.Fatalf("update product: %v", err)
	}
	if got.Name != "Silk Deluxe" || len(got.Variants) != 2 {
		t.Fatalf("update changed variants or lost name: %+v", got)
	}

	bySlug, err := s.Categories.GetBySlug(ctx, "halaty")
	if err != nil || bySlug.ID != second.ID {
		t.Fatalf("get by slug: %v", err)
	}
	if _, err := s.Categories.GetBySlug(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	o := domain.Order{Status: domain.OrderStatusPending, Total: 5000, Items: []domain.OrderItem{
		{ProductID: p.ID, Name: "Silk", Color: "Red", Size: "S", Quantity: 1, Price: 3000},
		{ProductID: other.ID, Name: "Cotton", Color: "Blue", Size: "M", Quantity: 1, Price: 2000},
	}}
	if err := s.Orders.Create(ctx, &o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.ID == 0 {
		t.Fatalf("order id not assigned")
	}
	o2 := domain.Order{Status: domain.OrderStatusPending, Total: 100, Items: []domain.OrderItem{
		{ProductID: p.ID, Name: "Silk", Quantity: 1, Price: 100},
	}}
	if err := s.Orders.Create(ctx, &o2); err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := s.Orders.UpdateStatus(ctx, o.ID, domain.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusCompleted || len(updated.Items) != 2 {
		t.Fatalf("unexpected order after update: %+v", updated)
	}
	if _, err := s.Orders.UpdateStatus(ctx, 9999, domain.OrderStatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	orders, err := s.Orders.List(ctx, OrderFilter{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != o2.ID {
		t.Fatalf("orders not newest first: %+v", orders)
	}
	pending, _ := s.Orders.List(ctx, OrderFilter{Status: domain.OrderStatusPending})
	if len(pending) != 1 || pending[0].ID != o2.ID {
		t.Fatalf("status filter failed: %+v", pending)
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Products.DeleteByCategory(ctx, first.ID); err != nil {
			return err
		}
		return s.Categories.Delete(ctx, first.ID)
	})
	if err != nil {
		t.Fatalf("cascade delete: %v", err)
	}
	if _, err := s.Products.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("product survived category delete: %v", err)
	}
	stored, err := s.Orders.GetByID(ctx, o.ID)
	if err != nil || len(stored.Items) != 2 || stored.Items[0].Name != "Silk" {
		t.Fatalf("order snapshot changed after catalog delete: %v %+v", err, stored)
	}
}
