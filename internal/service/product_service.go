package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kama/internal/domain"
	"kama/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categories: categories}
}

var ErrInvalidInput = errors.New("invalid input")

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// Create сохраняет товар вместе с изображениями и вариантами
func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, invalid("image url is required")
		}
	}
	for _, v := range p.Variants {
		if v.Color == "" || v.Size == "" {
			return nil, invalid("variant color and size are required")
		}
	}
	cp := p
	cp.ID = ""
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, invalid("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update меняет название, описание, цену и категорию; варианты не пересоздаются
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, invalid("id is required")
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	cp := p
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return invalid("id is required")
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

func (s *ProductService) validate(ctx context.Context, p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" || p.Price <= 0 || p.CategoryID == "" {
		return invalid("name, price and categoryId are required")
	}
	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("unknown category")
		}
		return err
	}
	return nil
}

// ExpandVariants строит декартово произведение цветов и размеров.
// Пустые и повторяющиеся значения отбрасываются, порядок сохраняется.
func ExpandVariants(colors, sizes []string) []domain.ProductVariant {
	colors = uniqueTrimmed(colors)
	sizes = uniqueTrimmed(sizes)
	out := make([]domain.ProductVariant, 0, len(colors)*len(sizes))
	for _, c := range colors {
		for _, sz := range sizes {
			out = append(out, domain.ProductVariant{Color: c, Size: sz, InStock: true})
		}
	}
	return out
}

// SplitList разбирает ввод вида "Red, Blue ,Green"
func SplitList(s string) []string {
	return uniqueTrimmed(strings.Split(s, ","))
}

func uniqueTrimmed(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
