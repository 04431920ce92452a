package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kama/internal/domain"
)

type categoryReq struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Icon      *string `json:"icon"`
	SortOrder int     `json:"sortOrder"`
}

func (r categoryReq) toDomain(id string) domain.Category {
	return domain.Category{
		ID:        id,
		Name:      r.Name,
		Slug:      r.Slug,
		Icon:      trimmedPtr(r.Icon),
		SortOrder: r.SortOrder,
	}
}

// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (s *Server) listCategories(c *gin.Context) {
	list, err := s.svc.Categories.List(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param input body categoryReq true "Category"
// @Success 201 {object} domain.Category
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories [post]
func (s *Server) createCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cat, err := s.svc.Categories.Create(c, req.toDomain(""))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary Get category with products by slug
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} domain.Category
// @Failure 404 {object} map[string]string
// @Router /categories/by-slug/{slug} [get]
func (s *Server) getCategoryBySlug(c *gin.Context) {
	cat, err := s.svc.Categories.GetBySlug(c, c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param input body categoryReq true "Category"
// @Success 200 {object} domain.Category
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [put]
func (s *Server) updateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	cat, err := s.svc.Categories.Update(c, req.toDomain(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary Delete category and its products
// @Tags categories
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [delete]
func (s *Server) deleteCategory(c *gin.Context) {
	if err := s.svc.Categories.Delete(c, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
