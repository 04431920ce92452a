package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"kama/internal/cart"
	"kama/internal/domain"
)

var ErrSubmitFailed = errors.New("order submission failed")

// OrderCreator отправляет заказ на сервер
type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

// Confirmation то, что видит покупатель после оформления
type Confirmation struct {
	OrderID int64
	Total   int64
	Items   int
}

// Submitter оформляет заказ из корзины. Повторных попыток нет
type Submitter struct {
	orders OrderCreator

	mu          sync.Mutex
	lastOrderID int64
}

func New(orders OrderCreator) *Submitter {
	return &Submitter{orders: orders}
}

// BuildRequest переносит позиции корзины в тело запроса как есть
func BuildRequest(store *cart.Store) domain.OrderRequest {
	items := store.Items()
	lines := make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	total := store.TotalPrice()
	return domain.OrderRequest{Items: lines, Total: &total}
}

// Submit отправляет корзину и очищает её только при получении id заказа.
// Пустая корзина не проверяется: такой запрос отклонит сервер.
func (s *Submitter) Submit(ctx context.Context, store *cart.Store) (*Confirmation, error) {
	req := BuildRequest(store)
	o, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if o == nil || o.ID == 0 {
		return nil, fmt.Errorf("%w: response has no order id", ErrSubmitFailed)
	}

	s.mu.Lock()
	s.lastOrderID = o.ID
	s.mu.Unlock()

	if err := store.Clear(); err != nil {
		// заказ уже создан, поэтому ошибку очистки не возвращаем
		log.Printf("checkout: order %d created but cart not cleared: %v", o.ID, err)
	}
	return &Confirmation{OrderID: o.ID, Total: *req.Total, Items: len(req.Items)}, nil
}

// LastOrderID id последнего успешно оформленного заказа, 0 если не было
func (s *Submitter) LastOrderID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOrderID
}
