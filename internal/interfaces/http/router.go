package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/auth"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
	"github.com/dulceria-lilis/erp-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	SupplierUC *usecase.SupplierUseCase
	MovementUC *usecase.MovementUseCase
	UserUC     *usecase.UserUseCase
	AuthUC     *auth.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Cada módulo lleva su puerta de roles;
// la gestión de usuarios exige administrador.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/password-reset", authHandler.RequestReset)
	authGroup.Post("/password-reset/confirm", authHandler.ConfirmReset)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	authGroup.Post("/change-password", AuthMiddleware(deps.JWTSecret), authHandler.ChangePassword)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Productos
	productRoles := RequireRole(entity.RoleAdmin, entity.RoleInventario, entity.RoleProduccion, entity.RoleVentas)
	products := protected.Group("/products", productRoles)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Proveedores y relaciones proveedor-producto
	supplierRoles := RequireRole(entity.RoleAdmin, entity.RoleCompras, entity.RoleInventario)
	suppliers := protected.Group("/suppliers", supplierRoles)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/search", supplierHandler.Search)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/relations", supplierHandler.ListRelations)
	suppliers.Get("/relations/search", supplierHandler.SearchRelations)
	suppliers.Get("/relations/export", supplierHandler.ExportRelations)
	suppliers.Post("/relations", supplierHandler.UpsertRelation)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Movimientos: lectura amplia, mutación restringida
	movementReadRoles := RequireRole(entity.RoleAdmin, entity.RoleProduccion, entity.RoleInventario, entity.RoleVentas, entity.RoleCompras)
	movementWriteRoles := RequireRole(entity.RoleAdmin, entity.RoleProduccion, entity.RoleInventario)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementReadRoles, movementHandler.List)
	movements.Get("/search", movementReadRoles, movementHandler.Search)
	movements.Post("/", movementWriteRoles, movementHandler.Create)
	movements.Get("/:id", movementReadRoles, movementHandler.GetByID)
	movements.Put("/:id", movementWriteRoles, movementHandler.Update)
	movements.Delete("/:id", movementWriteRoles, movementHandler.Delete)

	// Usuarios (solo administración)
	users := protected.Group("/users", RequireAdmin())
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/deactivate", userHandler.Deactivate)
	users.Post("/:id/reactivate", userHandler.Reactivate)
	users.Post("/:id/block", userHandler.Block)
}
