// Package server initializes and runs the application: configuration,
// logging, database with migrations, object storage, optional redis
// throttling, the service layer, and the HTTP endpoint. It owns graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/mpetrenko/clipstream/internal/logging"
	"github.com/mpetrenko/clipstream/internal/server/config"
	"github.com/mpetrenko/clipstream/internal/server/httpapi"
	"github.com/mpetrenko/clipstream/internal/server/media"
	"github.com/mpetrenko/clipstream/internal/server/rate"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
	"github.com/mpetrenko/clipstream/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limiter = rate.NewLimiter(client, cfg.MaxLoginAttempts, cfg.LoginCooldownDuration)
	}

	store := media.NewStore(cfg)

	authService := services.NewAuthService(db, rm, cfg, limiter)
	userService := services.NewUserService(db, rm, cfg, store)
	videoService := services.NewVideoService(db, rm, cfg, store)
	commentService := services.NewCommentService(db, rm)
	likeService := services.NewLikeService(db, rm, store)
	playlistService := services.NewPlaylistService(db, rm)
	tweetService := services.NewTweetService(db, rm)

	server := httpapi.NewServer(cfg, logger, db,
		authService, userService, videoService,
		commentService, likeService, playlistService, tweetService)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
