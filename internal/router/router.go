package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/events"
	"github.com/Eckho-Systems/Inventory-System/internal/handler"
	"github.com/Eckho-Systems/Inventory-System/internal/middleware"
	"github.com/Eckho-Systems/Inventory-System/internal/permissions"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
	"github.com/Eckho-Systems/Inventory-System/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← storage backend.
// The stores argument already hides which backend is in play; nothing above
// this line knows or cares.
func New(cfg *config.Config, stores repository.Stores, bus *events.Bus, ping func(ctx context.Context) error) *gin.Engine {
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

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(stores.Users, cfg)
	categorySvc := service.NewCategoryService(stores.Categories, stores.Items)
	itemSvc := service.NewItemService(stores.Items, stores.Categories)
	stockSvc := service.NewStockService(stores, bus)
	ledgerSvc := service.NewLedgerService(stores.Ledger, bus)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	itemsH := handler.NewItemsHandler(itemSvc, stockSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(stores.Backend, ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes — permissions declared per-endpoint
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		items := v1.Group("/items")
		{
			items.GET("", middleware.RequirePermission(permissions.ViewInventory), itemsH.List)
			items.GET("/low-stock", middleware.RequirePermission(permissions.ViewReports), itemsH.LowStock)
			items.GET("/categories", middleware.RequirePermission(permissions.ViewInventory), itemsH.Categories)
			items.GET("/:id", middleware.RequirePermission(permissions.ViewInventory), itemsH.Get)
			items.POST("", middleware.RequirePermission(permissions.CreateItem), itemsH.Create)
			items.PUT("/:id", middleware.RequirePermission(permissions.EditItem), itemsH.Update)
			// Adjust checks add_stock or remove_stock itself, by the sign of the change.
			items.POST("/:id/adjust", itemsH.Adjust)
			items.POST("/:id/deactivate", middleware.RequirePermission(permissions.EditItem), itemsH.Deactivate)
			items.DELETE("/:id", middleware.RequirePermission(permissions.DeleteItem), itemsH.Delete)

			items.GET("/:id/ledger", middleware.RequirePermission(permissions.ViewTransactions), ledgerH.ItemLedger)
			items.DELETE("/:id/ledger", middleware.RequirePermission(permissions.DeleteItem), ledgerH.PurgeItemHistory)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.RequirePermission(permissions.ViewInventory), categoriesH.List)
			categories.POST("", middleware.RequirePermission(permissions.CreateItem), categoriesH.Create)
			categories.PUT("/:id", middleware.RequirePermission(permissions.EditItem), categoriesH.Update)
			categories.DELETE("/:id", middleware.RequirePermission(permissions.DeleteItem), categoriesH.Deactivate)
		}

		users := v1.Group("/users")
		{
			users.GET("", middleware.RequirePermission(permissions.ViewUsers), usersH.List)
			users.GET("/:id", middleware.RequirePermission(permissions.ViewUsers), usersH.Get)
			users.POST("", middleware.RequirePermission(permissions.CreateUser), usersH.Create)
			users.PUT("/:id", middleware.RequirePermission(permissions.EditUser), usersH.Update)
			users.POST("/:id/deactivate", middleware.RequirePermission(permissions.DeactivateUser), usersH.Deactivate)
			users.DELETE("/:id", middleware.RequirePermission(permissions.DeleteUser), usersH.Delete)

			users.GET("/:id/ledger", middleware.RequirePermission(permissions.ViewTransactions), ledgerH.UserLedger)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.GET("", middleware.RequirePermission(permissions.ViewTransactions), ledgerH.List)
			ledger.GET("/stats", middleware.RequirePermission(permissions.ViewReports), ledgerH.Stats)
			ledger.GET("/export", middleware.RequirePermission(permissions.ExportTransactions), ledgerH.Export)
		}
	}

	return r
}
