package service

import (
	"context"

	"kama/internal/domain"
	"kama/internal/repository"
)

// StatsService счётчики для главной страницы админки
type StatsService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
}

func NewStatsService(categories repository.CategoryRepository, products repository.ProductRepository, orders repository.OrderRepository) *StatsService {
	return &StatsService{categories: categories, products: products, orders: orders}
}

// Stats: выручка считается только по выполненным заказам
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, err
	}
	st := &domain.Stats{
		Categories: len(cats),
		Products:   len(products),
		Orders:     len(orders),
	}
	for _, o := range orders {
		switch o.Status {
		case domain.OrderStatusPending:
			st.PendingOrders++
		case domain.OrderStatusCompleted:
			st.CompletedOrders++
			st.Revenue += o.Total
		case domain.OrderStatusCancelled:
			st.CancelledOrders++
		}
	}
	return st, nil
}
