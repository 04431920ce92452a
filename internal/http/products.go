package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kama/internal/domain"
	"kama/internal/repository"
	"kama/internal/service"
)

type imageReq struct {
	URL    string  `json:"url"`
	Color  *string `json:"color"`
	IsMain bool    `json:"isMain"`
}

type variantReq struct {
	Color   string `json:"color"`
	Size    string `json:"size"`
	InStock *bool  `json:"inStock"`
}

// createProductReq: если variants не переданы, они строятся из colors × sizes
type createProductReq struct {
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Price       int64        `json:"price"`
	CategoryID  string       `json:"categoryId"`
	Images      []imageReq   `json:"images"`
	Variants    []variantReq `json:"variants"`
	Colors      []string     `json:"colors"`
	Sizes       []string     `json:"sizes"`
}

func (r createProductReq) toDomain() domain.Product {
	p := domain.Product{
		Name:        r.Name,
		Description: trimmedPtr(r.Description),
		Price:       r.Price,
		CategoryID:  r.CategoryID,
	}
	for _, img := range r.Images {
		p.Images = append(p.Images, domain.ProductImage{URL: img.URL, Color: trimmedPtr(img.Color), IsMain: img.IsMain})
	}
	if len(r.Variants) > 0 {
		for _, v := range r.Variants {
			inStock := true
			if v.InStock != nil {
				inStock = *v.InStock
			}
			p.Variants = append(p.Variants, domain.ProductVariant{Color: v.Color, Size: v.Size, InStock: inStock})
		}
	} else {
		p.Variants = service.ExpandVariants(r.Colors, r.Sizes)
	}
	return p
}

type updateProductReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	CategoryID  string  `json:"categoryId"`
}

// @Summary List products
// @Tags products
// @Produce json
// @Param categoryId query string false "Category ID"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.svc.Products.List(c, repository.ProductFilter{CategoryID: c.Query("categoryId")})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create product with images and variants
// @Tags products
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Create(c, req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.svc.Products.GetByID(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body updateProductReq true "Update"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.svc.Products.Update(c, domain.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: trimmedPtr(req.Description),
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Products.Delete(c, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
