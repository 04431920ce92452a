package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"kama/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate нарушение уникальности (slug категории)
	ErrDuplicate = errors.New("already exists")
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	CategoryID string
}

// OrderFilter параметры фильтрации списка заказов
type OrderFilter struct {
	Status domain.OrderStatus
}

// CategoryRepository интерфейс репозитория категорий
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	// List отдаёт категории по SortOrder вместе с числом товаров
	List(ctx context.Context) ([]domain.Category, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	// Create сохраняет товар вместе с вложенными изображениями и вариантами
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Update меняет только скалярные поля; изображения и варианты не трогает
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) (int, error)
	// List отдаёт товары от новых к старым
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	// Create сохраняет заказ и его позиции атомарно
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	// List отдаёт заказы от новых к старым
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}

// TxManager абстракция транзакции
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// assignProductIDs проставляет идентификаторы товару и вложенным сущностям
func assignProductIDs(p *domain.Product) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Images {
		if p.Images[i].ID == "" {
			p.Images[i].ID = uuid.NewString()
		}
		p.Images[i].ProductID = p.ID
	}
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.NewString()
		}
		p.Variants[i].ProductID = p.ID
	}
}

func matchesOrder(o domain.Order, f OrderFilter) bool {
	return f.Status == "" || o.Status == f.Status
}
