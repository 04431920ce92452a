package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kama/internal/domain"
)

func openTestDB(t *testing.T) Stores {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := OpenDatabase(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// одно соединение: shared cache иначе ловит "table is locked" между соединениями
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewGormStores(db)
}

func TestGormStores_Suite(t *testing.T) {
	runStoreSuite(t, openTestDB(t))
}

func TestGormTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openTestDB(t)

	c := domain.Category{Name: "Детские", Slug: "detskie"}
	if err := s.Categories.Create(ctx, &c); err != nil {
		t.Fatal(err)
	}
	p := domain.Product{Name: "Kids", Price: 10, CategoryID: c.ID}
	if err := s.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Products.DeleteByCategory(ctx, c.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Products.GetByID(ctx, p.ID); err != nil {
		t.Fatalf("product should survive rolled back tx: %v", err)
	}
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	if _, err := OpenDatabase("oracle", ""); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
