package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dulceria-lilis/erp-api/internal/application/auth"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
	"github.com/dulceria-lilis/erp-api/internal/infrastructure/mailer"
	"github.com/dulceria-lilis/erp-api/internal/infrastructure/postgres"
	httpRouter "github.com/dulceria-lilis/erp-api/internal/interfaces/http"
	"github.com/dulceria-lilis/erp-api/pkg/config"
	"github.com/dulceria-lilis/erp-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	relationRepo := postgres.NewRelationRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mail := mailer.New(cfg.SMTP, log)

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, log)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, relationRepo, productRepo, txRunner, log)
	movementUC := usecase.NewMovementUseCase(movementRepo, productRepo, supplierRepo, warehouseRepo, txRunner, log)
	userUC := usecase.NewUserUseCase(userRepo, txRunner, mail, log)
	authUC := auth.NewUseCase(userRepo, txRunner, mail, cfg.JWT, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		SupplierUC: supplierUC,
		MovementUC: movementUC,
		UserUC:     userUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
