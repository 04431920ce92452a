package service

import (
	"context"
	"log"
	"strings"

	"kama/internal/domain"
	"kama/internal/repository"
	"kama/internal/slug"
)

// CategoryService категории каталога; удаление каскадно удаляет товары
type CategoryService struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	tx       repository.TxManager
}

func NewCategoryService(repo repository.CategoryRepository, products repository.ProductRepository, tx repository.TxManager) *CategoryService {
	return &CategoryService{repo: repo, products: products, tx: tx}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// GetBySlug возвращает категорию с товарами; у каждого товара остаётся только главное изображение
func (s *CategoryService) GetBySlug(ctx context.Context, slugValue string) (*domain.Category, error) {
	if slugValue == "" {
		return nil, invalid("slug is required")
	}
	c, err := s.repo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, repository.ProductFilter{CategoryID: c.ID})
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = mainImageOnly(products[i].Images)
		products[i].Category = nil
	}
	c.Products = products
	return c, nil
}

func mainImageOnly(images []domain.ProductImage) []domain.ProductImage {
	for _, img := range images {
		if img.IsMain {
			return []domain.ProductImage{img}
		}
	}
	return []domain.ProductImage{}
}

// Create: slug по умолчанию строится из названия
func (s *CategoryService) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if err := normalizeCategory(&c); err != nil {
		return nil, err
	}
	cp := c
	cp.ID = ""
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	cp.Count = &domain.CategoryCount{}
	return &cp, nil
}

func (s *CategoryService) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.ID == "" {
		return nil, invalid("id is required")
	}
	if err := normalizeCategory(&c); err != nil {
		return nil, err
	}
	cp := c
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// Delete удаляет категорию и все её товары в одной транзакции
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return invalid("id is required")
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := s.products.DeleteByCategory(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		log.Printf("category %s deleted with %d products", id, n)
		return nil
	})
}

func normalizeCategory(c *domain.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("name is required")
	}
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	if c.Slug == "" {
		return invalid("slug is required")
	}
	return nil
}
