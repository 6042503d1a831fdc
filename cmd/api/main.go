package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/abs-rental-api/internal/application/auth"
	"github.com/jhoicas/abs-rental-api/internal/application/cart"
	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/evidence"
	"github.com/jhoicas/abs-rental-api/internal/application/order"
	"github.com/jhoicas/abs-rental-api/internal/application/outbox"
	"github.com/jhoicas/abs-rental-api/internal/application/ports"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/access"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
	infraai "github.com/jhoicas/abs-rental-api/internal/infrastructure/ai"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/geocoding"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/kafka"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/mail"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/memory"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/abs-rental-api/internal/infrastructure/pdf"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/postgres"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/redisblob"
	httpRouter "github.com/jhoicas/abs-rental-api/internal/interfaces/http"
	"github.com/jhoicas/abs-rental-api/pkg/config"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

type repos struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	outbox   repository.OutboxRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "abs-rental-api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var closers []io.Closer

	// Persistencia: PostgreSQL (con migraciones) o memoria para desarrollo.
	var rp repos
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		rp = repos{
			users:    postgres.NewUserRepository(pool),
			products: postgres.NewProductRepository(pool),
			orders:   postgres.NewOrderRepository(pool),
			outbox:   postgres.NewOutboxRepository(pool),
		}
	default:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		rp = repos{
			users:    memory.NewUserRepository(),
			products: memory.NewProductRepository(),
			orders:   memory.NewOrderRepository(),
			outbox:   memory.NewOutboxRepository(),
		}
	}

	// Evidencias: Redis o memoria acotada.
	var blobs ports.BlobStore
	if cfg.Storage.BlobDriver == "redis" {
		rdb, err := redisblob.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		closers = append(closers, rdb)
		blobs = redisblob.NewStore(rdb, cfg.Redis.TTL)
	} else {
		blobs = memory.NewBlobStore(int64(cfg.Storage.BlobCapacityMB) << 20)
	}

	// Sincronización: Kafka si hay brokers; si no, solo log.
	var publisher ports.EventPublisher = outbox.NewLogPublisher(log.Component("sync"))
	if len(cfg.Kafka.Brokers) > 0 {
		sp, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal().Err(err).Msg("productor Kafka")
		}
		producer := kafka.NewProducer(sp, cfg.Kafka.Topic, log)
		closers = append(closers, producer)
		publisher = producer
	}

	var notifier ports.Notifier
	if cfg.SMTP.Host != "" {
		notifier = mail.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, log)
	}

	reg := metrics.New()
	events := outbox.New(rp.outbox, nil)
	relay := outbox.NewRelay(rp.outbox, publisher, outbox.Config{
		PollInterval:   cfg.Sync.PollInterval,
		BatchSize:      cfg.Sync.BatchSize,
		MaxAttempts:    cfg.Sync.MaxAttempts,
		InitialBackoff: cfg.Sync.InitialBackoff,
		MaxBackoff:     cfg.Sync.MaxBackoff,
	}, nil, reg, log.Component("relay"))

	evidenceSvc := evidence.NewService(blobs)
	orderSvc := order.NewService(order.Deps{
		Orders:   rp.orders,
		Products: rp.products,
		Policy:   access.ParsePolicy(cfg.Workflow.AccessPolicy),
		Events:   events,
		Evidence: evidenceSvc,
		Notifier: notifier,
		Guides:   infrapdf.NewGuideGenerator(cfg.App.Name),
		Metrics:  reg,
		Log:      log.Component("orders"),
	})
	cartSvc := cart.NewService(cart.NewSessionStore(), rp.products, rp.orders)

	assistUC := usecase.NewAssistUseCase(
		infraai.NewFromConfig(cfg.AI),
		geocoding.NewNominatimGeocoder(cfg.Geocoding.BaseURL, cfg.Geocoding.UserAgent),
		cfg.AI.Timeout,
		log.Component("assist"),
	)
	authUC := auth.NewAuthUseCase(rp.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	userUC := usecase.NewUserUseCase(rp.users)
	if cfg.App.AdminEmail != "" {
		bootstrapAdmin(ctx, userUC, cfg.App.AdminEmail, cfg.App.AdminPassword, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    evidence.MaxUploadBytes + 1<<20,
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ABS Rental API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: usecase.NewProductUseCase(rp.products),
		UserUC:    userUC,
		AssistUC:  assistUC,
		Carts:     cartSvc,
		Orders:    orderSvc,
		Evidence:  evidenceSvc,
		Ops:       httpRouter.NewOpsHandler(cfg.App.Name, relay, reg, reg.Handler()),
		Users:     rp.users,
		JWTSecret: cfg.JWT.Secret,
	})

	relayCtx, stopRelay := context.WithCancel(ctx)
	relay.Start(relayCtx)

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

	stopRelay()
	relay.Stop()
	if _, err := relay.Flush(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("último envío de la bandeja de salida")
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar recurso")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// bootstrapAdmin crea la cuenta admin configurada; si ya existe no la toca.
func bootstrapAdmin(ctx context.Context, users *usecase.UserUseCase, email, password string, log *logger.Logger) {
	_, err := users.Create(ctx, dto.CreateUserRequest{Email: email, Password: password, Name: "Administrador", Role: entity.RoleAdmin})
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("cuenta admin creada")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
	default:
		log.Fatal().Err(err).Msg("crear cuenta admin")
	}
}
