package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	apicontext "github.com/dtroode/videobite-server/internal/api/http/context"
	"github.com/dtroode/videobite-server/internal/api/http/router"
	httpServer "github.com/dtroode/videobite-server/internal/api/http/server"
	"github.com/dtroode/videobite-server/internal/config"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/password"
	"github.com/dtroode/videobite-server/internal/repository/memory"
	"github.com/dtroode/videobite-server/internal/repository/mongodb"
	"github.com/dtroode/videobite-server/internal/repository/postgres"
	"github.com/dtroode/videobite-server/internal/server"
	"github.com/dtroode/videobite-server/internal/service"
	storage "github.com/dtroode/videobite-server/internal/storage/minio"
	"github.com/dtroode/videobite-server/internal/summarizer"
	"github.com/dtroode/videobite-server/internal/token"
	"github.com/dtroode/videobite-server/internal/youtube"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

// stores bundles the repositories selected by STORAGE_DRIVER.
type stores struct {
	users     model.UserStore
	summaries model.SummaryStore
	pinger    model.Pinger
	close     func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logOpts := []logger.Option{
		logger.WithRotatingFile(cfg.LogFile.Path, cfg.LogFile.MaxSizeMB, cfg.LogFile.MaxBackups, cfg.LogFile.MaxAgeDays),
	}
	if cfg.LogFormat == "json" {
		logOpts = append(logOpts, logger.WithJSON())
	}
	logger := logger.New(cfg.LogLevel, logOpts...)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer st.close()

	m := metrics.New()

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = youtube.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatal("failed to connect to redis", "error", err)
		}
		defer rdb.Close()
	}
	fetcher := youtube.NewCachedFetcher(
		youtube.NewClient(cfg.YouTube.BaseURL, cfg.YouTube.APIKey, cfg.YouTube.RequestsPerSecond, m, logger),
		rdb, cfg.YouTube.CacheTTL, m, logger,
	)

	proc := summarizer.NewProcess(cfg.Summarizer.Interpreter, cfg.Summarizer.Script, cfg.Summarizer.Timeout, m, logger)

	var archive model.Storage
	if cfg.Archive.Enabled {
		client, err := storage.Dial(ctx, cfg.Archive)
		if err != nil {
			logger.Fatal("failed to initialize archive storage", "error", err)
		}
		archive = client
	}

	tokenService := service.NewTokenService(token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL), logger)
	authService := service.NewAuth(st.users, password.NewBcrypt(cfg.Auth.BcryptCost), tokenService, cfg.Auth.AdminEmails, logger)
	summaryService := service.NewSummary(st.summaries, fetcher, proc, archive, m, cfg.Summarizer.DefaultLanguage, logger)

	r := router.New(authService, summaryService, tokenService, st.pinger, m, apicontext.NewManager(), router.Options{
		Production:      cfg.IsProduction(),
		Version:         buildVersion,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		RateLimitMax:    cfg.HTTP.RateLimitMax,
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
		StaticDir:       cfg.HTTP.StaticDir,
	}, logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS, "storage", cfg.Storage.Driver)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		conn, err := mongodb.NewConnection(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:     mongodb.NewUserRepository(conn.DB),
			summaries: mongodb.NewSummaryRepository(conn.DB),
			pinger:    conn,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := conn.Close(closeCtx); err != nil {
					logger.Error("failed to disconnect from mongo", "error", err)
				}
			},
		}, nil
	case config.StoragePostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:     postgres.NewUserRepository(db),
			summaries: postgres.NewSummaryRepository(db),
			pinger:    db,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("failed to close database", "error", err)
				}
			},
		}, nil
	default:
		logger.Warn("using in-memory storage, data is lost on restart")
		summaries := memory.NewSummaryRepository()
		return stores{
			users:     memory.NewUserRepository(),
			summaries: summaries,
			pinger:    summaries,
			close:     func() {},
		}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
