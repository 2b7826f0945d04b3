// Command server runs the files manager API together with its job worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filesmanager/modules/api"
	"github.com/dmitrymomot/filesmanager/pkg/auth"
	"github.com/dmitrymomot/filesmanager/pkg/config"
	"github.com/dmitrymomot/filesmanager/pkg/email"
	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/httpserver"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/mongo"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/pkg/redis"
	"github.com/dmitrymomot/filesmanager/pkg/requestid"
	"github.com/dmitrymomot/filesmanager/pkg/session"
	"github.com/dmitrymomot/filesmanager/svc/jobs"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), session.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			log.Error("failed to disconnect mongo", logger.Error(err))
		}
	}()

	repo := repository.NewMongoRepository(db, repository.WithMongoLogger(log))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	blobs, err := file.New(ctx, cfg.File)
	if err != nil {
		return fmt.Errorf("init file storage: %w", err)
	}

	sender, err := email.NewSender(cfg.Email, log)
	if err != nil {
		return fmt.Errorf("init email sender: %w", err)
	}

	sessions := session.NewFromConfig(redis.NewCache(redisClient, cfg.Redis.KeyPrefix), cfg.Session,
		session.WithLogger(log),
	)
	authenticator := auth.NewAuthenticator(repository.Accounts(repo), sessions, auth.WithLogger(log))

	jobStore, err := newJobStore(cfg.Queue, redisClient, cfg.RunWorker)
	if err != nil {
		return err
	}
	enqueuer, err := queue.NewEnqueuer(jobStore, append(cfg.Queue.EnqueuerOptions(),
		queue.WithSchema(jobs.Schema()),
		queue.WithEnqueuerLogger(log),
	)...)
	if err != nil {
		return fmt.Errorf("init enqueuer: %w", err)
	}

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.HealthCheckHandler(log, nil))
	router.Get("/readyz", httpserver.HealthCheckHandler(log, map[string]httpserver.Check{
		"redis": redis.Healthcheck(redisClient),
		"db":    repo.Ping,
	}))
	router.Mount("/", api.Router(api.RouterOptions{
		Repository:  repo,
		Blobs:       blobs,
		Sessions:    sessions,
		Auth:        authenticator,
		Jobs:        enqueuer,
		RedisCheck:  redis.Healthcheck(redisClient),
		DBCheck:     repo.Ping,
		MaxBodySize: cfg.MaxBodySize,
		Logger:      log,
	}))

	server := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx, router) })

	if cfg.RunWorker {
		worker, err := queue.NewWorker(jobStore, append(cfg.Queue.WorkerOptions(),
			queue.WithWorkerLogger(log),
		)...)
		if err != nil {
			return fmt.Errorf("init worker: %w", err)
		}
		if err := worker.RegisterHandlers(
			jobs.NewThumbnailProcessor(repo, blobs,
				jobs.WithMaxPixels(cfg.ThumbnailMaxPixels),
				jobs.WithThumbnailLogger(log),
			),
			jobs.NewWelcomeProcessor(repo, sender, log).Handler(),
		); err != nil {
			return fmt.Errorf("register job handlers: %w", err)
		}
		g.Go(worker.Run(ctx))
	}

	log.InfoContext(ctx, "files manager started",
		slog.String("addr", cfg.HTTP.Addr()),
		slog.String("queue_backend", cfg.Queue.Backend),
		slog.Bool("worker", cfg.RunWorker),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("files manager stopped")
	return nil
}

// newJobStore selects the queue backend. The memory backend only works when
// the worker runs in this process.
func newJobStore(cfg queue.Config, client goredis.UniversalClient, runWorker bool) (jobStore, error) {
	switch cfg.Backend {
	case "", queue.BackendMemory:
		if !runWorker {
			return nil, errors.New("memory queue backend requires RUN_WORKER=true")
		}
		return queue.NewMemoryStorage(), nil
	case queue.BackendRedis:
		store, err := queue.NewRedisStorage(client,
			queue.WithRedisKeyPrefix(cfg.KeyPrefix),
			queue.WithCompletedRetention(cfg.CompletedRetention),
		)
		if err != nil {
			return nil, fmt.Errorf("init redis queue: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}
}

type jobStore interface {
	queue.EnqueuerRepository
	queue.WorkerRepository
}
