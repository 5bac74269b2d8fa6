package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kasukras-star/Apotikme-sub004/internal/config"
	"github.com/kasukras-star/Apotikme-sub004/internal/handler"
	"github.com/kasukras-star/Apotikme-sub004/internal/infra"
	"github.com/kasukras-star/Apotikme-sub004/internal/middleware"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
	"github.com/kasukras-star/Apotikme-sub004/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	stockRepo := repository.NewStockRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogSvc := service.NewCatalogService(productRepo, recipeRepo)
	stockSvc := service.NewStockService(stockRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, recipeRepo, stockSvc)
	ledgerSvc := service.NewLedgerService(invoiceRepo, supplierRepo, productRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(catalogSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	stockH := handler.NewStockHandler(stockSvc)
	invoicesH := handler.NewInvoicesHandler(ledgerSvc, cfg.PDFStoragePath)
	priceH := handler.NewPriceLookupHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Price check kiosk — no auth required
	r.GET("/v1/price/:code", priceH.GetPriceByCode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(middleware.RoleCashier, middleware.RoleSupervisor, middleware.RoleAdmin)
	backOffice := middleware.RequireRole(middleware.RoleSupervisor, middleware.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog reads — every role needs them while building a cart
		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:id", anyStaff, productsH.GetByID)
		v1.GET("/products/:id/resolve-unit", anyStaff, productsH.ResolveUnit)
		v1.GET("/recipes/:id", anyStaff, productsH.GetRecipe)
		v1.GET("/recipes/:id/fee", anyStaff, productsH.QuoteFee)

		// Checkout
		v1.POST("/sales", anyStaff, salesH.Checkout)
		v1.GET("/sales", anyStaff, salesH.List)
		v1.GET("/sales/:id", anyStaff, salesH.GetByID)

		// Stock
		v1.GET("/stock/movements", backOffice, stockH.Movements)
		v1.GET("/stock/:branch_id", anyStaff, stockH.ListByBranch)
		v1.GET("/stock/:branch_id/alerts", backOffice, stockH.Alerts)
		v1.POST("/stock/adjust", backOffice, stockH.Adjust)

		// Accounts payable
		v1.POST("/invoices", backOffice, invoicesH.Create)
		v1.GET("/invoices", backOffice, invoicesH.List)
		v1.GET("/invoices/:id", backOffice, invoicesH.GetByID)
		v1.POST("/invoices/:id/payments", backOffice, invoicesH.RecordPayment)
		v1.GET("/payments/:payment_id/receipt", backOffice, invoicesH.DownloadReceipt)

		// Suppliers
		v1.GET("/suppliers", backOffice, invoicesH.ListSuppliers)
		v1.POST("/suppliers", middleware.RequireRole(middleware.RoleAdmin), invoicesH.CreateSupplier)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
