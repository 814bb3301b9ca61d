package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/reroom-ai/go-backend/internal/cfg"
	v1Http "github.com/reroom-ai/go-backend/internal/delivery/v1/http"
	clipInfra "github.com/reroom-ai/go-backend/internal/infrastructure/clip"
	geminiInfra "github.com/reroom-ai/go-backend/internal/infrastructure/gemini"
	kafkaInfra "github.com/reroom-ai/go-backend/internal/infrastructure/kafka"
	minioInfra "github.com/reroom-ai/go-backend/internal/infrastructure/minio"
	s3Repo "github.com/reroom-ai/go-backend/internal/repository/minio"
	"github.com/reroom-ai/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/reroom-ai/go-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/reroom-ai/go-backend/internal/repository/qdrant"
	redisRepo "github.com/reroom-ai/go-backend/internal/repository/redis"
	redisConv "github.com/reroom-ai/go-backend/internal/repository/redis/converter"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/clients"
	"github.com/reroom-ai/go-backend/pkg/closer"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
	"github.com/reroom-ai/go-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает все подсистемы приложения.
// Поиск мебели и каталог — опциональные: при отсутствии их конфигурации
// приложение стартует с деградацией, а не падает.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	httpSrv *v1Http.Server
	closer  *closer.Closer

	clipService  *clipInfra.ClipService          // nil, если поиск выключен
	imagesInfra  *minioInfra.MinioInfrastructure // nil, если каталог выключен
	outboxWorker *kafkaInfra.OutboxWorker        // nil, если каталог выключен

	shutdownCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	const op = "app.NewApp"

	appCloser := closer.NewCloser(2 * time.Second)

	// shutdownCtx живёт дольше запросов: фоновые компенсации MinIO
	// должны пережить отмену запроса, но не завершение приложения.
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		cfg:            cfg,
		logger:         log,
		closer:         appCloser,
		shutdownCancel: shutdownCancel,
	}

	gemini, err := geminiInfra.NewGeminiService(context.Background(), cfg.Gemini, log)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		clipService usecase.EmbeddingInfra
		vectorRepo  usecase.VectorRepository
	)

	if cfg.SearchConfigured() {
		clip, err := clipInfra.NewClipService(cfg.Clip, log)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		app.clipService = clip
		clipService = clip

		qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		qdrantCtx, qdrantCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := clients.EnsureCollection(qdrantCtx, qdrantClient); err != nil {
			qdrantCancel()
			return nil, e.Wrap(op, err)
		}
		qdrantCancel()
		appCloser.Add(func(ctx context.Context) error {
			return qdrantClient.Client.Close()
		})

		vectorRepo = qdrantRepo.NewVectorRepo(qdrantClient.Client, cfg.Qdrant)
	} else {
		log.Warnf("search subsystem is not configured; furniture search will return 503")
	}

	designUC := usecase.NewDesignUC(gemini, clipService, log)
	searchUC := usecase.NewSearchUC(clipService, vectorRepo, log)

	var catalogUC usecase.CatalogUC
	if cfg.CatalogEnabled {
		if !cfg.SearchConfigured() {
			return nil, e.Wrap(op, fmt.Errorf("catalog subsystem requires search configuration"))
		}

		catalogUC, err = app.initCatalog(shutdownCtx, clipService, vectorRepo)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	} else {
		log.Infof("catalog subsystem disabled")
	}

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(designUC, searchUC, catalogUC)

	app.httpSrv = v1Http.NewServer(r, cfg.Http)

	return app, nil
}

// initCatalog поднимает хранилища подсистемы каталога: PostgreSQL с миграциями,
// MinIO, Redis и Kafka с outbox-воркером.
func (a *App) initCatalog(shutdownCtx context.Context, clipService usecase.EmbeddingInfra, vectorRepo usecase.VectorRepository) (usecase.CatalogUC, error) {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	itemConv := pgdbConv.NewCatalogItemConverter()
	outboxConv := pgdbConv.NewOutboxEventConverter()
	infoConv := redisConv.NewCatalogItemConverter()

	catalogRepo := pgdb.NewCatalogItemRepo(db.Pool, itemConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	a.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, shutdownCtx)

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redisRepo.NewCacheRepo(redisClient, infoConv, a.cfg.Redis, a.logger)

	producer, err := kafkaInfra.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	a.outboxWorker = kafkaInfra.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn)

	return usecase.NewCatalogUC(
		catalogRepo,
		outboxRepo,
		db.Pool,
		clipService,
		a.imagesInfra,
		vectorRepo,
		cacheRepo,
		a.logger,
	), nil
}

// Run запускает приложение и блокируется до сигнала завершения или фатальной ошибки.
func (a *App) Run() error {
	// Прогреваем эндпоинт векторизации сразу: первый поиск после деплоя
	// не должен упираться в холодный старт
	if a.clipService != nil {
		a.clipService.WarmAsync(true)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if a.outboxWorker != nil {
		a.outboxWorker.Start(workerCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if a.outboxWorker != nil {
		workerCancel()
		a.outboxWorker.Stop()
		a.logger.Infof("Outbox worker stopped")
	}

	if a.imagesInfra != nil {
		if err := a.imagesInfra.WaitForCleanup(shutdownCtx); err != nil {
			a.logger.Warnf("MinIO cleanup error: %v", err)
		} else {
			a.logger.Infof("MinIO cleanup completed")
		}
	}

	// Фоновые компенсации завершены, можно закрывать клиенты
	a.shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Close error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
