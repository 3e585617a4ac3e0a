// @title           Inventario API
// @version         1.0
// @description     Stock por producto enriquecido con el catálogo de productos.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 JWT con rol admin, bodeguero o vendedor: Bearer <token>
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
	"github.com/swaggo/swag"

	"github.com/jsuarez/inventario-api/docs"
	"github.com/jsuarez/inventario-api/internal/application/inventory"
	"github.com/jsuarez/inventario-api/internal/domain/repository"
	"github.com/jsuarez/inventario-api/internal/infrastructure/catalog"
	"github.com/jsuarez/inventario-api/internal/infrastructure/events"
	"github.com/jsuarez/inventario-api/internal/infrastructure/memory"
	infmongo "github.com/jsuarez/inventario-api/internal/infrastructure/mongo"
	"github.com/jsuarez/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/jsuarez/inventario-api/internal/interfaces/http"
	"github.com/jsuarez/inventario-api/pkg/config"
	"github.com/jsuarez/inventario-api/pkg/logger"
)

//go:generate swag init -g cmd/api/main.go -o docs --parseDependency

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
		Str("db_driver", cfg.DB.Driver).
		Str("events_driver", cfg.Events.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	stockRepo, closeStore, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("inicializar store de inventario")
	}
	defer closeStore()

	publisher, closePublisher := buildPublisher(cfg, log)
	defer closePublisher()

	catalogClient := catalog.NewHTTPClient(catalog.Config{
		BaseURL:        cfg.Catalog.BaseURL,
		APIKey:         cfg.Catalog.APIKey,
		ConnectTimeout: cfg.Catalog.ConnectTimeout,
		ReadTimeout:    cfg.Catalog.ReadTimeout,
	}, log)

	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo, catalogClient, log, cfg.Enrichment.Concurrency)
	stockMutationUC := inventory.NewStockMutationUseCase(stockRepo, catalogClient, stockQueryUC, publisher, log)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: rutas de escritura sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Catalog.ConnectTimeout + cfg.Catalog.ReadTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return c.SendStatus(fiber.StatusNotFound)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockQuery:    stockQueryUC,
		StockMutation: stockMutationUC,
		Logger:        log,
		JWTSecret:     cfg.JWT.Secret,
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

// buildStore construye el repositorio según DB_DRIVER. La función devuelta libera la conexión.
func buildStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.StockRepository, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, err := infmongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		repo, err := infmongo.NewStockRepository(ctx, client, cfg.Mongo.Database)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil
	case config.DriverMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return memory.NewStockRepository(), func() {}, nil
	default:
		if cfg.DB.MigrateOnStart {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
				return nil, nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStockRepository(pool), pool.Close, nil
	}
}

// buildPublisher elige el publicador de eventos según EVENTS_DRIVER.
func buildPublisher(cfg *config.Config, log *logger.Logger) (inventory.EventPublisher, func()) {
	if cfg.Events.Driver == config.EventsKafka {
		p := events.NewKafkaPublisher(log, cfg.Events.Brokers, cfg.Events.Topic)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador kafka")
			}
		}
	}
	return events.NewLogPublisher(log), func() {}
}
