package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/abs-rental-api/internal/application/auth"
	"github.com/jhoicas/abs-rental-api/internal/application/cart"
	"github.com/jhoicas/abs-rental-api/internal/application/evidence"
	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var (
	staffRoles = []string{entity.RoleAdmin, entity.RoleLogistics, entity.RoleCoordinator, entity.RoleOperationsManager}
	allRoles   = append([]string{entity.RoleUser}, staffRoles...)
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	UserUC    *usecase.UserUseCase
	AssistUC  *usecase.AssistUseCase
	Carts     *cart.Service
	Orders    *order.Service
	Evidence  *evidence.Service
	Ops       *OpsHandler
	Users     repository.UserRepository
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	ops := deps.Ops
	if ops == nil {
		ops = NewOpsHandler("abs-rental-api", nil, nil, nil)
	}
	app.Get("/health", ops.Health)
	app.Get("/metrics", ops.Metrics())

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo (lectura pública)
	productHandler := NewProductHandler(deps.ProductUC, deps.Orders)
	api.Get("/products", productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/products/:id/availability", productHandler.Availability)

	// Rutas protegidas (requieren Bearer Token y cuenta activa)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), LoadUser(deps.Users))
	admin := RequireRole(entity.RoleAdmin)
	staff := RequireRole(staffRoles...)
	anyone := RequireRole(allRoles...)

	// Products (escritura admin)
	protected.Post("/products", admin, productHandler.Create)
	protected.Put("/products/:id", admin, productHandler.Update)
	protected.Delete("/products/:id", admin, productHandler.Delete)

	// Cart
	cartHandler := NewCartHandler(deps.Carts)
	carts := protected.Group("/cart", anyone)
	carts.Get("", cartHandler.View)
	carts.Get("/quote", cartHandler.View)
	carts.Post("/items", cartHandler.AddItem)
	carts.Put("/items/:productId", cartHandler.SetQuantity)
	carts.Delete("/items/:productId", cartHandler.RemoveItem)
	carts.Put("/dates", cartHandler.SetDates)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders, deps.Carts)
	orders := protected.Group("/orders", anyone)
	orders.Post("", orderHandler.Checkout)
	orders.Get("", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/guide.pdf", orderHandler.Guide)
	orders.Post("/:id/approve", admin, orderHandler.Approve)
	orders.Post("/:id/confirm", orderHandler.Confirm)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Delete("/:id", admin, orderHandler.Delete)
	orders.Put("/:id/coordinator", RequireRole(entity.RoleAdmin, entity.RoleOperationsManager), orderHandler.AssignCoordinator)
	orders.Patch("/:id/workflow/:stageKey", staff, orderHandler.UpdateStage)

	// Uploads
	uploadHandler := NewUploadHandler(deps.Evidence)
	uploads := protected.Group("/uploads", anyone)
	uploads.Post("/artwork", uploadHandler.Artwork)
	uploads.Post("/evidence", staff, uploadHandler.Evidence)
	uploads.Get("/:ref", uploadHandler.Download)

	// Assist (personal de campo)
	assistHandler := NewAssistHandler(deps.AssistUC)
	assist := protected.Group("/assist", staff)
	assist.Post("/notes", assistHandler.EnhanceNote)
	assist.Get("/geocode", assistHandler.Geocode)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", anyone, userHandler.Me)
	users := protected.Group("/users", admin)
	users.Get("", userHandler.List)
	users.Post("", userHandler.Create)
	users.Put("/:email", userHandler.Update)

	// Sync
	protected.Get("/sync/status", staff, ops.SyncStatus)
}
