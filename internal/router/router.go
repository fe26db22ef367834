package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Dantetripodi/gestor-perfumes/internal/config"
	"github.com/Dantetripodi/gestor-perfumes/internal/handler"
	"github.com/Dantetripodi/gestor-perfumes/internal/middleware"
	"github.com/Dantetripodi/gestor-perfumes/internal/service"
)

// Deps are the composition-root dependencies the router wires into handlers.
type Deps struct {
	Cfg       *config.Config
	DB        *gorm.DB
	RDB       *redis.Client
	Store     *service.Store
	Inventory service.InventoryService
	Sales     service.SaleService
	Metrics   service.MetricsService
}

// New returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	if d.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	productsH := handler.NewProductsHandler(d.Inventory)
	salesH := handler.NewSalesHandler(d.Sales)
	ratesH := handler.NewRatesHandler(d.Store)
	metricsH := handler.NewMetricsHandler(d.Metrics)

	r.GET("/health", handler.Health(d.DB, d.RDB))

	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.POST("/:id/stock", productsH.AddStock)
			products.GET("/:id/purchases", productsH.ListProductPurchases)
		}

		v1.GET("/purchases", productsH.ListPurchases)

		v1.POST("/sales", salesH.Record)
		v1.GET("/sales", salesH.List)

		ratesGrp := v1.Group("/rates")
		{
			ratesGrp.GET("", ratesH.Get)
			ratesGrp.POST("/refresh", ratesH.Refresh)
			ratesGrp.PUT("/manual", ratesH.SetManual)
			ratesGrp.PUT("/source", ratesH.SetSource)
		}

		v1.GET("/metrics", metricsH.Summary)
	}

	return r
}
