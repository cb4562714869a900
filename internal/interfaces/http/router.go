package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/user-management-api/internal/application/auth"
	"github.com/tu-usuario/user-management-api/internal/application/usecase"
	"github.com/tu-usuario/user-management-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC    *usecase.UserUseCase
	AuthUC    *auth.AuthUseCase
	PDF       directoryPDFGenerator
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: register y login públicos; /me requiere Bearer Token.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Users: CRUD público; las operaciones
	// masivas requieren sesión con rol Admin o Manager.
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.PDF)

	// Rutas literales antes que /:id para que no las capture el parámetro.
	users.Get("/directory.pdf", userHandler.DirectoryPDF)
	users.Post("/bulk-delete",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleManager),
		userHandler.BulkDelete,
	)
	users.Post("/bulk-role",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleManager),
		userHandler.BulkSetRole,
	)

	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
