package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kama/internal/domain"
	"kama/internal/repository"
)

// События, которые OrderService отдаёт подписчикам админки
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// OrderPublisher получает уведомления о созданных и изменённых заказах
type OrderPublisher interface {
	PublishOrder(kind string, o domain.Order)
}

// OrderService реализует логику заказов: создание, смену статуса, выборку
type OrderService struct {
	orders repository.OrderRepository
	tx     repository.TxManager
	events OrderPublisher
}

// NewOrderService: events может быть nil
func NewOrderService(orders repository.OrderRepository, tx repository.TxManager, events OrderPublisher) *OrderService {
	return &OrderService{orders: orders, tx: tx, events: events}
}

var ErrInvalidState = errors.New("invalid state")

// CreateOrder сохраняет заказ со снимком позиций. Total не пересчитывается
func (s *OrderService) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 || req.Total == nil {
		return nil, invalid("items and total are required")
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || strings.TrimSpace(it.Name) == "" || it.Quantity <= 0 {
			return nil, invalid("each item needs productId, name and a positive quantity")
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	o := domain.Order{
		Status: domain.OrderStatusPending,
		Total:  *req.Total,
		Items:  items,
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return s.orders.Create(ctx, &o)
	})
	if err != nil {
		return nil, err
	}
	s.publish(EventOrderCreated, o)
	return &o, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, invalid("id must be positive")
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("unknown status")
	}
	return s.orders.List(ctx, f)
}

// UpdateStatus переводит PENDING в COMPLETED или CANCELLED.
// Повторная установка текущего статуса ничего не меняет.
// Статус сравнивается точно, "completed" не принимается.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	next := domain.OrderStatus(status)
	if !next.Valid() {
		return nil, invalid("valid status is required")
	}
	if id <= 0 {
		return nil, invalid("id must be positive")
	}

	var updated *domain.Order
	changed := false
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == next {
			updated = o
			return nil
		}
		if !o.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidState, o.Status, next)
		}
		updated, err = s.orders.UpdateStatus(ctx, id, next)
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(EventOrderUpdated, *updated)
	}
	return updated, nil
}

func (s *OrderService) publish(kind string, o domain.Order) {
	if s.events != nil {
		s.events.PublishOrder(kind, o)
	}
}
