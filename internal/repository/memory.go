package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kama/internal/domain"
)

// MemoryStore объединённое in-memory хранилище и простой генератор ID
type MemoryStore struct {
	mu             sync.RWMutex
	nextOrderID    int64
	nextItemID     int64
	seq            int64
	categoriesByID map[string]domain.Category
	categorySeq    map[string]int64
	productsByID   map[string]domain.Product
	productSeq     map[string]int64
	ordersByID     map[int64]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextOrderID:    1,
		nextItemID:     1,
		categoriesByID: make(map[string]domain.Category),
		categorySeq:    make(map[string]int64),
		productsByID:   make(map[string]domain.Product),
		productSeq:     make(map[string]int64),
		ordersByID:     make(map[int64]domain.Order),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

func (m *MemoryStore) nextSeq() int64 {
	m.seq++
	return m.seq
}

// Ensure interfaces
var (
	_ ProductRepository  = (*MemoryStore)(nil)
	_ CategoryRepository = (*MemoryCategories)(nil)
	_ OrderRepository    = (*MemoryOrders)(nil)
	_ TxManager          = (*MemoryTx)(nil)
)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	assignProductIDs(p)
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Category = nil
	m.productsByID[p.ID] = cloneProduct(*p)
	m.productSeq[p.ID] = m.nextSeq()
	m.attachCategory(p)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneProduct(p)
	m.attachCategory(&cp)
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	cur, ok := m.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.CategoryID = p.CategoryID
	cur.UpdatedAt = time.Now().UTC()
	m.productsByID[p.ID] = cur
	*p = cloneProduct(cur)
	m.attachCategory(p)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	delete(m.productSeq, id)
	return nil
}

func (m *MemoryStore) DeleteByCategory(ctx context.Context, categoryID string) (int, error) {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	n := 0
	for id, p := range m.productsByID {
		if p.CategoryID == categoryID {
			delete(m.productsByID, id)
			delete(m.productSeq, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		cp := cloneProduct(p)
		m.attachCategory(&cp)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.productSeq[out[i].ID] > m.productSeq[out[j].ID]
	})
	return out, nil
}

// attachCategory подставляет категорию товара, как это делает preload в БД
func (m *MemoryStore) attachCategory(p *domain.Product) {
	c, ok := m.categoriesByID[p.CategoryID]
	if !ok {
		p.Category = nil
		return
	}
	c.Products = nil
	c.Count = nil
	p.Category = &c
}

// MemoryCategories CategoryRepository поверх общего хранилища
type MemoryCategories struct{ store *MemoryStore }

func NewMemoryCategories(store *MemoryStore) *MemoryCategories {
	return &MemoryCategories{store: store}
}

func (mc *MemoryCategories) Create(ctx context.Context, c *domain.Category) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	for _, existing := range mc.store.categoriesByID {
		if existing.Slug == c.Slug {
			return ErrDuplicate
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Products = nil
	c.Count = nil
	mc.store.categoriesByID[c.ID] = *c
	mc.store.categorySeq[c.ID] = mc.store.nextSeq()
	return nil
}

func (mc *MemoryCategories) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	c, ok := mc.store.categoriesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (mc *MemoryCategories) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	for _, c := range mc.store.categoriesByID {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mc *MemoryCategories) Update(ctx context.Context, c *domain.Category) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	cur, ok := mc.store.categoriesByID[c.ID]
	if !ok {
		return ErrNotFound
	}
	for id, existing := range mc.store.categoriesByID {
		if id != c.ID && existing.Slug == c.Slug {
			return ErrDuplicate
		}
	}
	cur.Name = c.Name
	cur.Slug = c.Slug
	cur.Icon = c.Icon
	cur.SortOrder = c.SortOrder
	cur.UpdatedAt = time.Now().UTC()
	mc.store.categoriesByID[c.ID] = cur
	*c = cur
	return nil
}

func (mc *MemoryCategories) Delete(ctx context.Context, id string) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	if _, ok := mc.store.categoriesByID[id]; !ok {
		return ErrNotFound
	}
	delete(mc.store.categoriesByID, id)
	delete(mc.store.categorySeq, id)
	return nil
}

func (mc *MemoryCategories) List(ctx context.Context) ([]domain.Category, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	counts := make(map[string]int)
	for _, p := range mc.store.productsByID {
		counts[p.CategoryID]++
	}
	out := make([]domain.Category, 0, len(mc.store.categoriesByID))
	for _, c := range mc.store.categoriesByID {
		c.Count = &domain.CategoryCount{Products: counts[c.ID]}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return mc.store.categorySeq[out[i].ID] < mc.store.categorySeq[out[j].ID]
	})
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o.ID = mo.store.nextOrderID
	mo.store.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].ID = mo.store.nextItemID
		mo.store.nextItemID++
		o.Items[i].OrderID = o.ID
	}
	mo.store.ordersByID[o.ID] = cloneOrder(*o)
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	cp := cloneOrder(o)
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0, len(mo.store.ordersByID))
	for _, o := range mo.store.ordersByID {
		if !matchesOrder(o, f) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	// блокировка записи на всё время fn; репозитории видят метку в контексте и не берут лок повторно
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = append([]domain.ProductImage(nil), p.Images...)
	p.Variants = append([]domain.ProductVariant(nil), p.Variants...)
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}
	if p.Variants == nil {
		p.Variants = []domain.ProductVariant{}
	}
	return p
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return o
}
