package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/user-management-api/internal/application/auth"
	"github.com/tu-usuario/user-management-api/internal/application/dto"
	"github.com/tu-usuario/user-management-api/internal/application/usecase"
	infrapdf "github.com/tu-usuario/user-management-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/user-management-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/user-management-api/internal/interfaces/http"
	"github.com/tu-usuario/user-management-api/pkg/config"
	"github.com/tu-usuario/user-management-api/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Tabla + seed de demostración en el primer arranque.
	if err := postgres.InitSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("inicializar esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	userUC := usecase.NewUserUseCase(userRepo, cfg.Users.PageSize)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pdfGenerator := infrapdf.NewMarotoDirectoryGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "User Management API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: "ok", Service: cfg.App.Name})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{
			Status:  "ok",
			Message: "User Management API",
			Version: version,
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:    userUC,
		AuthUC:    authUC,
		PDF:       pdfGenerator,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
