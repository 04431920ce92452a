package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kama/internal/domain"
)

// APIError ответ сервера с кодом не из 2xx
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client типизированный клиент коллекций /api
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// WebsocketURL адрес ленты событий заказов
func (c *Client) WebsocketURL() string {
	u := c.base
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/admin/orders/ws"
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/by-slug/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryInput тело создания и изменения категории
type CategoryInput struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	SortOrder int     `json:"sortOrder"`
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

// Products

func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	path := "/api/products"
	if categoryID != "" {
		path += "?categoryId=" + url.QueryEscape(categoryID)
	}
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageInput изображение в запросе создания товара
type ImageInput struct {
	URL    string  `json:"url"`
	Color  *string `json:"color,omitempty"`
	IsMain bool    `json:"isMain"`
}

// ProductInput тело создания товара; Colors и Sizes разворачиваются сервером в варианты
type ProductInput struct {
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Price       int64        `json:"price"`
	CategoryID  string       `json:"categoryId"`
	Images      []ImageInput `json:"images,omitempty"`
	Colors      []string     `json:"colors,omitempty"`
	Sizes       []string     `json:"sizes,omitempty"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductUpdate изменяемые поля товара; варианты не трогаются
type ProductUpdate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       int64   `json:"price"`
	CategoryID  string  `json:"categoryId"`
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductUpdate) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

// Orders

func (c *Client) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	path := "/api/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	var out domain.Order
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+strconv.FormatInt(id, 10), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var out domain.Stats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportOrders пишет xlsx-выгрузку заказов в w
func (c *Client) ExportOrders(ctx context.Context, status domain.OrderStatus, w io.Writer) error {
	path := "/api/admin/orders/export"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}
