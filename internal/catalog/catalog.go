package catalog

import (
	"context"
	"errors"
	"log"

	"kama/internal/cart"
	"kama/internal/domain"
)

var ErrOutOfStock = errors.New("selected variant is out of stock")

// Source откуда каталог берёт данные; обычно это *client.Client
type Source interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Catalog экраны витрины. Ошибка загрузки даёт пустой результат,
// "нет данных" и "не удалось загрузить" для покупателя не различаются.
type Catalog struct {
	src Source
}

func New(src Source) *Catalog {
	return &Catalog{src: src}
}

// Home категории с количеством товаров
func (c *Catalog) Home(ctx context.Context) []domain.Category {
	cats, err := c.src.ListCategories(ctx)
	if err != nil {
		log.Printf("catalog: categories: %v", err)
		return []domain.Category{}
	}
	return cats
}

// Category категория с товарами; nil, если не найдена или не загрузилась
func (c *Catalog) Category(ctx context.Context, slug string) *domain.Category {
	cat, err := c.src.CategoryBySlug(ctx, slug)
	if err != nil {
		log.Printf("catalog: category %q: %v", slug, err)
		return nil
	}
	return cat
}

// Product карточка товара; nil, если не найден или не загрузился
func (c *Catalog) Product(ctx context.Context, id string) *ProductView {
	p, err := c.src.GetProduct(ctx, id)
	if err != nil {
		log.Printf("catalog: product %q: %v", id, err)
		return nil
	}
	return NewProductView(*p)
}

// ProductView товар с производными списками цветов и размеров
type ProductView struct {
	Product domain.Product
	Colors  []string
	Sizes   []string
}

func NewProductView(p domain.Product) *ProductView {
	v := &ProductView{Product: p}
	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, variant := range p.Variants {
		if !seenColor[variant.Color] {
			seenColor[variant.Color] = true
			v.Colors = append(v.Colors, variant.Color)
		}
		if !seenSize[variant.Size] {
			seenSize[variant.Size] = true
			v.Sizes = append(v.Sizes, variant.Size)
		}
	}
	return v
}

// DefaultSelection первый цвет и первый размер
func (v *ProductView) DefaultSelection() (color, size string) {
	if len(v.Colors) > 0 {
		color = v.Colors[0]
	}
	if len(v.Sizes) > 0 {
		size = v.Sizes[0]
	}
	return color, size
}

// DisplayImages изображения без цвета и изображения выбранного цвета
func (v *ProductView) DisplayImages(color string) []domain.ProductImage {
	out := make([]domain.ProductImage, 0, len(v.Product.Images))
	for _, img := range v.Product.Images {
		if img.Color == nil || *img.Color == "" || *img.Color == color {
			out = append(out, img)
		}
	}
	return out
}

// MainImage первое из DisplayImages, иначе первое изображение товара
func (v *ProductView) MainImage(color string) (string, bool) {
	if imgs := v.DisplayImages(color); len(imgs) > 0 {
		return imgs[0].URL, true
	}
	if len(v.Product.Images) > 0 {
		return v.Product.Images[0].URL, true
	}
	return "", false
}

// InStock: если такой комбинации нет среди вариантов, товар считается доступным
func (v *ProductView) InStock(color, size string) bool {
	for _, variant := range v.Product.Variants {
		if variant.Color == color && variant.Size == size {
			return variant.InStock
		}
	}
	return true
}

// CartItem снимок выбранного варианта для корзины
func (v *ProductView) CartItem(color, size string, quantity int) (cart.Item, error) {
	if !v.InStock(color, size) {
		return cart.Item{}, ErrOutOfStock
	}
	it := cart.Item{
		ProductID: v.Product.ID,
		Name:      v.Product.Name,
		Price:     v.Product.Price,
		Color:     color,
		Size:      size,
		Quantity:  quantity,
	}
	if url, ok := v.MainImage(color); ok {
		it.Image = &url
	}
	return it, nil
}
