package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kama/internal/domain"
)

type gormTxKey struct{}

// conn отдаёт транзакцию из контекста, если она открыта через GormTx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

var (
	_ ProductRepository  = (*GormProducts)(nil)
	_ CategoryRepository = (*GormCategories)(nil)
	_ OrderRepository    = (*GormOrders)(nil)
	_ TxManager          = (*GormTx)(nil)
)

// GormTx открывает транзакцию БД и кладёт её в контекст
type GormTx struct{ db *gorm.DB }

func NewGormTx(db *gorm.DB) *GormTx { return &GormTx{db: db} }

func (t *GormTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

// GormCategories CategoryRepository на GORM
type GormCategories struct{ db *gorm.DB }

func NewGormCategories(db *gorm.DB) *GormCategories { return &GormCategories{db: db} }

func (r *GormCategories) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Products = nil
	c.Count = nil
	return translate(conn(ctx, r.db).Create(c).Error)
}

func (r *GormCategories) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := conn(ctx, r.db).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormCategories) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var c domain.Category
	if err := conn(ctx, r.db).First(&c, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormCategories) Update(ctx context.Context, c *domain.Category) error {
	res := conn(ctx, r.db).Model(&domain.Category{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":       c.Name,
		"slug":       c.Slug,
		"icon":       c.Icon,
		"sort_order": c.SortOrder,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (r *GormCategories) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&domain.Category{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCategories) List(ctx context.Context) ([]domain.Category, error) {
	db := conn(ctx, r.db)
	var cats []domain.Category
	if err := db.Order("sort_order asc").Order("created_at asc").Find(&cats).Error; err != nil {
		return nil, translate(err)
	}
	var rows []struct {
		CategoryID string
		N          int
	}
	if err := db.Model(&domain.Product{}).Select("category_id, count(*) as n").Group("category_id").Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}
	for i := range cats {
		cats[i].Count = &domain.CategoryCount{Products: counts[cats[i].ID]}
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return cats, nil
}

// GormProducts ProductRepository на GORM
type GormProducts struct{ db *gorm.DB }

func NewGormProducts(db *gorm.DB) *GormProducts { return &GormProducts{db: db} }

func (r *GormProducts) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Images").Preload("Variants").Preload("Category")
}

func (r *GormProducts) Create(ctx context.Context, p *domain.Product) error {
	assignProductIDs(p)
	p.Category = nil
	// вложенные Images и Variants создаются в той же транзакции, что и товар
	if err := conn(ctx, r.db).Create(p).Error; err != nil {
		return translate(err)
	}
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *GormProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.withRelations(conn(ctx, r.db)).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	normalizeProduct(&p)
	return &p, nil
}

func (r *GormProducts) Update(ctx context.Context, p *domain.Product) error {
	res := conn(ctx, r.db).Model(&domain.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"updated_at":  time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	updated, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *GormProducts) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.ProductImage{}, "product_id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&domain.ProductVariant{}, "product_id = ?", id).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&domain.Product{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormProducts) DeleteByCategory(ctx context.Context, categoryID string) (int, error) {
	var deleted int
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&domain.Product{}).Select("id").Where("category_id = ?", categoryID)
		if err := tx.Where("product_id IN (?)", ids).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id IN (?)", ids).Delete(&domain.ProductVariant{}).Error; err != nil {
			return err
		}
		res := tx.Where("category_id = ?", categoryID).Delete(&domain.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete products of category %s: %w", categoryID, translate(err))
	}
	return deleted, nil
}

func (r *GormProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	q := r.withRelations(conn(ctx, r.db)).Order("created_at desc")
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	var out []domain.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	for i := range out {
		normalizeProduct(&out[i])
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func normalizeProduct(p *domain.Product) {
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}
	if p.Variants == nil {
		p.Variants = []domain.ProductVariant{}
	}
}

// GormOrders OrderRepository на GORM
type GormOrders struct{ db *gorm.DB }

func NewGormOrders(db *gorm.DB) *GormOrders { return &GormOrders{db: db} }

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

func (r *GormOrders) Create(ctx context.Context, o *domain.Order) error {
	if err := conn(ctx, r.db).Create(o).Error; err != nil {
		return translate(err)
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return nil
}

func (r *GormOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := withItems(conn(ctx, r.db)).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return &o, nil
}

func (r *GormOrders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	res := conn(ctx, r.db).Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GormOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := withItems(conn(ctx, r.db)).Order("created_at desc").Order("id desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []domain.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	for i := range out {
		if out[i].Items == nil {
			out[i].Items = []domain.OrderItem{}
		}
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}
