package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kama/internal/repository"
	"kama/internal/service"
)

// Services бизнес-слой, с которым работают обработчики
type Services struct {
	Categories *service.CategoryService
	Products   *service.ProductService
	Orders     *service.OrderService
	Stats      *service.StatsService
}

// Options настройки HTTP-слоя
type Options struct {
	CORSOrigins    []string
	OrderRateLimit float64 // запросов в секунду с одного адреса, 0 отключает лимит
}

// Feed websocket-лента заказов для админки
type Feed interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Server struct {
	engine  *gin.Engine
	svc     Services
	feed    Feed
	limiter *ipRateLimiter
}

// NewServer: feed может быть nil, тогда /api/admin/orders/ws не регистрируется
func NewServer(svc Services, feed Feed, opts Options) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	s := &Server{engine: r, svc: svc, feed: feed}
	if opts.OrderRateLimit > 0 {
		s.limiter = newIPRateLimiter(opts.OrderRateLimit, int(opts.OrderRateLimit)+1)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		categories := api.Group("/categories")
		categories.GET("", s.listCategories)
		categories.POST("", s.createCategory)
		categories.GET("/by-slug/:slug", s.getCategoryBySlug)
		categories.PUT("/:id", s.updateCategory)
		categories.DELETE("/:id", s.deleteCategory)

		products := api.Group("/products")
		products.GET("", s.listProducts)
		products.POST("", s.createProduct)
		products.GET("/:id", s.getProduct)
		products.PUT("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)

		orders := api.Group("/orders")
		orders.GET("", s.listOrders)
		if s.limiter != nil {
			orders.POST("", s.limiter.middleware(), s.createOrder)
		} else {
			orders.POST("", s.createOrder)
		}
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id", s.updateOrder)

		admin := api.Group("/admin")
		admin.GET("/stats", s.stats)
		admin.GET("/orders/export", s.exportOrders)
		if s.feed != nil {
			admin.GET("/orders/ws", func(c *gin.Context) {
				s.feed.ServeWS(c.Writer, c.Request)
			})
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

const requestIDHeader = "X-Request-ID"

// requestID проставляет X-Request-ID, если клиент его не прислал
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError отдаёт клиенту короткое сообщение; детали 500 остаются в логе
func writeError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("request %s %s [%s]: %v", c.Request.Method, c.FullPath(), c.GetString("requestID"), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
