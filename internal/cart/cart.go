package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
)

// StorageKey ключ, под которым хранится снимок корзины. Версии формата нет
const StorageKey = "kama-cart"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Item позиция корзины; ключ позиции (ProductID, Color, Size)
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image,omitempty"`
}

func (it Item) matches(productID, color, size string) bool {
	return it.ProductID == productID && it.Color == color && it.Size == size
}

// Storage долговременное хранилище снимка корзины.
// Load возвращает nil, nil, если ключа нет.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// Store корзина одного клиента. Каждая мутация сразу сохраняется в Storage.
// Несколько процессов с одним хранилищем не синхронизируются: побеждает последняя запись.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage Storage
}

// New восстанавливает корзину из storage. Ошибки чтения и разбора
// только логируются, корзина остаётся пустой.
func New(storage Storage) *Store {
	s := &Store{storage: storage, items: []Item{}}
	data, err := storage.Load(StorageKey)
	if err != nil {
		log.Printf("cart: load: %v", err)
		return s
	}
	if len(data) == 0 {
		return s
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("cart: discard stored cart: %v", err)
		return s
	}
	if items != nil {
		s.items = items
	}
	return s
}

// AddItem увеличивает количество существующей позиции или добавляет новую
func (s *Store) AddItem(item Item) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].matches(item.ProductID, item.Color, item.Size) {
			s.items[i].Quantity += item.Quantity
			return s.persist()
		}
	}
	s.items = append(s.items, item)
	return s.persist()
}

// UpdateQuantity ставит количество не меньше 1; для удаления есть RemoveItem
func (s *Store) UpdateQuantity(productID, color, size string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].matches(productID, color, size) {
			s.items[i].Quantity = max(1, quantity)
			return s.persist()
		}
	}
	return nil
}

func (s *Store) RemoveItem(productID, color, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].matches(productID, color, size) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Item{}
	return s.persist()
}

// Items копия текущих позиций в порядке добавления
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalItems сумма количеств
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice сумма price × quantity
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, it := range s.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.storage.Save(StorageKey, data); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}
