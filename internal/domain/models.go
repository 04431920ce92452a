package domain

import "time"

// Category раздел каталога (пижамы, халаты, ...)
type Category struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Slug      string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Icon      *string        `json:"icon"`
	SortOrder int            `gorm:"not null;default:0" json:"sortOrder"`
	Products  []Product      `gorm:"constraint:OnDelete:CASCADE" json:"products,omitempty"`
	Count     *CategoryCount `gorm:"-" json:"_count,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CategoryCount производные счётчики категории, в БД не хранятся
type CategoryCount struct {
	Products int `json:"products"`
}

// Product товар. Price в минимальных единицах валюты
type Product struct {
	ID          string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	Description *string          `json:"description"`
	Price       int64            `gorm:"not null" json:"price"`
	CategoryID  string           `gorm:"type:varchar(36);index;not null" json:"categoryId"`
	Category    *Category        `json:"category,omitempty"`
	Images      []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	Variants    []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProductImage изображение товара, Color привязывает его к варианту цвета
type ProductImage struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID string  `gorm:"type:varchar(36);index;not null" json:"productId"`
	URL       string  `gorm:"not null" json:"url"`
	Color     *string `json:"color"`
	IsMain    bool    `gorm:"not null;default:false" json:"isMain"`
}

// ProductVariant конфигурация (цвет, размер) со своим наличием
type ProductVariant struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProductID string `gorm:"type:varchar(36);index;not null" json:"productId"`
	Color     string `gorm:"not null" json:"color"`
	Size      string `gorm:"not null" json:"size"`
	InStock   bool   `gorm:"not null" json:"inStock"`
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid сообщает, входит ли статус в перечисление
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo: из PENDING можно перейти в COMPLETED или CANCELLED, остальные состояния конечные
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	return next == OrderStatusCompleted || next == OrderStatusCancelled
}

// OrderItem позиция заказа; все поля фиксируются в момент оформления
type OrderItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64  `gorm:"index;not null" json:"orderId"`
	ProductID string `gorm:"type:varchar(36);not null" json:"productId"`
	Name      string `gorm:"not null" json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	Price     int64  `gorm:"not null" json:"price"`
}

// Order сущность заказа. Total хранится как снимок и не пересчитывается по позициям
type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Total     int64       `gorm:"not null" json:"total"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderLine строка запроса на создание заказа
type OrderLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderRequest тело POST /api/orders. Total указатель, чтобы отличить 0 от отсутствия
type OrderRequest struct {
	Items []OrderLine `json:"items"`
	Total *int64      `json:"total"`
}

// Stats счётчики для главной страницы админки
type Stats struct {
	Categories      int   `json:"categories"`
	Products        int   `json:"products"`
	Orders          int   `json:"orders"`
	PendingOrders   int   `json:"pendingOrders"`
	CompletedOrders int   `json:"completedOrders"`
	CancelledOrders int   `json:"cancelledOrders"`
	Revenue         int64 `json:"revenue"`
}
