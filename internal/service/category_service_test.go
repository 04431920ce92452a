package service

import (
	"context"
	"errors"
	"testing"

	"kama/internal/domain"
	"kama/internal/repository"
)

func TestCategory_CreateGeneratesSlug(t *testing.T) {
	f := setup(t)
	c := f.category(t, "Женские пижамы")
	if c.Slug != "zhenskie-pizhamy" {
		t.Fatalf("slug = %q", c.Slug)
	}
	if c.Count == nil || c.Count.Products != 0 {
		t.Fatalf("new category must report zero products")
	}
}

func TestCategory_CreateInvalidAndDuplicate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	if _, err := f.categories.Create(ctx, domain.Category{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.categories.Create(ctx, domain.Category{Name: "!!!"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty slug, got %v", err)
	}
	f.category(t, "Пижамы")
	if _, err := f.categories.Create(ctx, domain.Category{Name: "Пижамы"}); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestCategory_Update(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	icon := "moon"
	up, err := f.categories.Update(ctx, domain.Category{ID: c.ID, Name: "Пижамы", Slug: "pajamas", Icon: &icon, SortOrder: 5})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Slug != "pajamas" || up.SortOrder != 5 || up.Icon == nil || *up.Icon != "moon" {
		t.Fatalf("not updated: %+v", up)
	}
	if _, err := f.categories.Update(ctx, domain.Category{ID: "missing", Name: "X"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategory_DeleteCascadesToProducts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	keep := f.category(t, "Халаты")
	for _, n := range []string{"A", "B"} {
		if _, err := f.products.Create(ctx, domain.Product{Name: n, Price: 10, CategoryID: c.ID}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.products.Create(ctx, domain.Product{Name: "C", Price: 10, CategoryID: keep.ID}); err != nil {
		t.Fatal(err)
	}

	if err := f.categories.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := f.products.List(ctx, repository.ProductFilter{})
	if len(list) != 1 || list[0].Name != "C" {
		t.Fatalf("expected only C to remain, got %+v", list)
	}
	if err := f.categories.Delete(ctx, c.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCategory_GetBySlugKeepsMainImageOnly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	_, err := f.products.Create(ctx, domain.Product{Name: "A", Price: 10, CategoryID: c.ID, Images: []domain.ProductImage{
		{URL: "side.jpg"}, {URL: "main.jpg", IsMain: true}, {URL: "back.jpg"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.products.Create(ctx, domain.Product{Name: "B", Price: 10, CategoryID: c.ID, Images: []domain.ProductImage{{URL: "x.jpg"}}})

	got, err := f.categories.GetBySlug(ctx, "pizhamy")
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if len(got.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got.Products))
	}
	for _, p := range got.Products {
		switch p.Name {
		case "A":
			if len(p.Images) != 1 || p.Images[0].URL != "main.jpg" {
				t.Fatalf("A images = %+v", p.Images)
			}
		case "B":
			if len(p.Images) != 0 {
				t.Fatalf("B has no main image, got %+v", p.Images)
			}
		}
	}
	if _, err := f.categories.GetBySlug(ctx, "unknown"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategory_ListCounts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	_, _ = f.products.Create(ctx, domain.Product{Name: "A", Price: 10, CategoryID: c.ID})
	list, err := f.categories.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Count.Products != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}
