package service

import (
	"context"
	"errors"
	"testing"

	"kama/internal/domain"
	"kama/internal/repository"
)

type fixture struct {
	stores     repository.Stores
	categories *CategoryService
	products   *ProductService
	orders     *OrderService
	stats      *StatsService
	events     *recordingPublisher
}

type recordingPublisher struct {
	kinds  []string
	orders []domain.Order
}

func (r *recordingPublisher) PublishOrder(kind string, o domain.Order) {
	r.kinds = append(r.kinds, kind)
	r.orders = append(r.orders, o)
}

func setup(t *testing.T) *fixture {
	t.Helper()
	s := repository.NewMemoryStores()
	pub := &recordingPublisher{}
	return &fixture{
		stores:     s,
		categories: NewCategoryService(s.Categories, s.Products, s.Tx),
		products:   NewProductService(s.Products, s.Categories),
		orders:     NewOrderService(s.Orders, s.Tx, pub),
		stats:      NewStatsService(s.Categories, s.Products, s.Orders),
		events:     pub,
	}
}

func (f *fixture) category(t *testing.T, name string) *domain.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), domain.Category{Name: name})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func TestProduct_Create_Valid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	p, err := f.products.Create(ctx, domain.Product{
		Name: "Silk", Price: 250000, CategoryID: c.ID,
		Variants: ExpandVariants([]string{"Red", "Blue"}, []string{"S", "M", "L"}),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected id assigned")
	}
	if len(p.Variants) != 6 {
		t.Fatalf("expected 6 variants, got %d", len(p.Variants))
	}
}

func TestProduct_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	bad := []domain.Product{
		{Name: "", Price: 1, CategoryID: c.ID},
		{Name: "N", Price: 0, CategoryID: c.ID},
		{Name: "N", Price: 1, CategoryID: ""},
		{Name: "N", Price: 1, CategoryID: "missing"},
		{Name: "N", Price: 1, CategoryID: c.ID, Images: []domain.ProductImage{{URL: " "}}},
		{Name: "N", Price: 1, CategoryID: c.ID, Variants: []domain.ProductVariant{{Color: "Red"}}},
	}
	for i, p := range bad {
		if _, err := f.products.Create(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestProduct_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	c := f.category(t, "Пижамы")
	other := f.category(t, "Халаты")
	p, _ := f.products.Create(ctx, domain.Product{Name: "A", Price: 10, CategoryID: c.ID,
		Variants: ExpandVariants([]string{"Red"}, []string{"S", "M"})})

	got, err := f.products.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get failed: %v", err)
	}

	up, err := f.products.Update(ctx, domain.Product{ID: p.ID, Name: "A+", Price: 12, CategoryID: other.ID})
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if up.Name != "A+" || up.Price != 12 || up.CategoryID != other.ID {
		t.Fatalf("not updated: %+v", up)
	}
	if len(up.Variants) != 2 {
		t.Fatalf("update must not regenerate variants, got %d", len(up.Variants))
	}

	if err := f.products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if _, err := f.products.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProduct_List_ByCategory(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.category(t, "A")
	b := f.category(t, "B")
	_, _ = f.products.Create(ctx, domain.Product{Name: "1", Price: 1, CategoryID: a.ID})
	_, _ = f.products.Create(ctx, domain.Product{Name: "2", Price: 1, CategoryID: a.ID})
	_, _ = f.products.Create(ctx, domain.Product{Name: "3", Price: 1, CategoryID: b.ID})

	list, err := f.products.List(ctx, repository.ProductFilter{CategoryID: a.ID})
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(list) != 2 || list[0].Name != "2" {
		t.Fatalf("expected newest first within category, got %+v", list)
	}
	all, _ := f.products.List(ctx, repository.ProductFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}
}

func TestExpandVariants(t *testing.T) {
	vs := ExpandVariants([]string{" Red", "Blue", "", "Red"}, []string{"S", "M"})
	if len(vs) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(vs))
	}
	want := [][2]string{{"Red", "S"}, {"Red", "M"}, {"Blue", "S"}, {"Blue", "M"}}
	for i, v := range vs {
		if v.Color != want[i][0] || v.Size != want[i][1] || !v.InStock {
			t.Fatalf("variant %d = %+v", i, v)
		}
	}
	if len(ExpandVariants(nil, []string{"S"})) != 0 {
		t.Fatalf("no colors must yield no variants")
	}
	if got := SplitList("Red, Blue ,, Red"); len(got) != 2 || got[1] != "Blue" {
		t.Fatalf("SplitList = %v", got)
	}
}
