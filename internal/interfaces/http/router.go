package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-pro/internal/application/auth"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/application/usecase"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC        *usecase.CompanyUseCase
	LocationUC       *usecase.LocationUseCase
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	AdjustStock      *inventory.AdjustStockUseCase
	TransferWorkflow *inventory.TransferWorkflowUseCase
	SaleUC           *sales.SaleUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), locationHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustStock)
	invGroup.Get("/levels", inventoryHandler.GetLevels)
	invGroup.Get("/low-stock", inventoryHandler.GetLowStockAlerts)
	invGroup.Post("/adjust", inventoryHandler.Adjust)
	invGroup.Post("/transfer", inventoryHandler.Transfer)
	invGroup.Get("/products/:product_id/movements", inventoryHandler.ListProductMovements)
	invGroup.Get("/:id/movements", inventoryHandler.ListMovements)

	// Transfers (protegido, flujo de aprobación)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferWorkflow)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/outgoing/:location_id", transferHandler.ListOutgoingPending)
	transfers.Get("/incoming/:location_id", transferHandler.ListIncoming)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleManager), transferHandler.Approve)
	transfers.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleManager), transferHandler.Reject)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.GetReceiptPDF)
	salesGroup.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleManager), saleHandler.Cancel)
}
