package repository

import (
	"context"
	"errors"
	"testing"

	"kama/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "Пижама", Price: 150000, CategoryID: "c1",
		Variants: []domain.ProductVariant{{Color: "Red", Size: "M", InStock: true}}}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("no id")
	}
	if p.Variants[0].ID == "" || p.Variants[0].ProductID != p.ID {
		t.Fatalf("variant ids not assigned: %+v", p.Variants[0])
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get: %v", err)
	}

	p.Price = 120000
	p.Variants = nil
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Price != 120000 || len(p.Variants) != 1 {
		t.Fatalf("update must keep variants: %+v", p)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{Name: "A", Price: 1, CategoryID: "c1",
		Images: []domain.ProductImage{{URL: "a.jpg", IsMain: true}}}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	got, _ := store.GetByID(ctx, p.ID)
	got.Images[0].URL = "changed.jpg"
	again, _ := store.GetByID(ctx, p.ID)
	if again.Images[0].URL != "a.jpg" {
		t.Fatalf("store leaked internal slice")
	}
}

func TestMemoryTx_CascadeInsideTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStores()

	c := domain.Category{Name: "Женские", Slug: "zhenskie"}
	if err := s.Categories.Create(ctx, &c); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"A", "B"} {
		p := domain.Product{Name: n, Price: 10, CategoryID: c.ID}
		if err := s.Products.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.Products.DeleteByCategory(ctx, c.ID)
		if err != nil {
			return err
		}
		if n != 2 {
			t.Fatalf("expected 2 deleted, got %d", n)
		}
		return s.Categories.Delete(ctx, c.ID)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	list, _ := s.Products.List(ctx, ProductFilter{})
	if len(list) != 0 {
		t.Fatalf("products left after cascade: %d", len(list))
	}
}

func TestMemoryStores_Suite(t *testing.T) {
	runStoreSuite(t, NewMemoryStores())
}
