package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/garage_market/internal/config"
	"github.com/Skotchmaster/garage_market/internal/es"
	"github.com/Skotchmaster/garage_market/internal/handlers/admin"
	authhdl "github.com/Skotchmaster/garage_market/internal/handlers/auth"
	"github.com/Skotchmaster/garage_market/internal/handlers/garage"
	"github.com/Skotchmaster/garage_market/internal/hash"
	"github.com/Skotchmaster/garage_market/internal/logging"
	authmw "github.com/Skotchmaster/garage_market/internal/middleware/auth"
	"github.com/Skotchmaster/garage_market/internal/mykafka"
	"github.com/Skotchmaster/garage_market/internal/repo"
	"github.com/Skotchmaster/garage_market/internal/revocation"
	"github.com/Skotchmaster/garage_market/internal/service"
	"github.com/Skotchmaster/garage_market/internal/service/search"
	"github.com/Skotchmaster/garage_market/internal/tokens"
	httpserver "github.com/Skotchmaster/garage_market/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, configuration)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	accessCodec, err := tokens.NewAccessCodec(configuration.JWTSecret, configuration.AccessTTL)
	if err != nil {
		logger.Error("access_codec_failed", "error", err)
		os.Exit(1)
	}
	refreshCodec, err := tokens.NewRefreshCodec(configuration.RefreshSecret, configuration.RefreshTTL)
	if err != nil {
		logger.Error("refresh_codec_failed", "error", err)
		os.Exit(1)
	}

	accessRevoked, refreshRevoked := revocationStores(configuration, db)

	var prod mykafka.Publisher = mykafka.NopPublisher{}
	if len(configuration.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(configuration.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		prod = p
	} else {
		logger.Info("kafka_disabled")
	}

	var index garage.Indexer
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration, nil)
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
		} else {
			index = search.NewGarageIndex(esClient, configuration.ESIndex)
		}
	}

	gate := authmw.NewGate(accessCodec, accessRevoked)
	users := repo.New(db)
	hasher := hash.NewBcrypt()

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, &httpserver.Deps{
		DB:   db,
		Gate: gate,
		AuthHandler: &authhdl.AuthHandler{
			Users:          users,
			Hasher:         hasher,
			Tokens:         service.NewTokenService(accessCodec, refreshCodec),
			Gate:           gate,
			RefreshRevoked: refreshRevoked,
			Producer:       prod,
			Cookie:         authhdl.CookieConfig{Path: configuration.RefreshPath, Secure: configuration.CookieSecure},
		},
		GarageHandler: &garage.GarageHandler{Repo: users, Index: index, Producer: prod},
		AdminHandler:  &admin.AdminHandler{Users: users, Hasher: hasher, Producer: prod},
	})

	sweeper := &revocation.Sweeper{
		Stores:   map[string]revocation.Store{"access": accessRevoked, "refresh": refreshRevoked},
		Interval: configuration.SweepInterval,
		Logger:   logger,
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	srv := &http.Server{
		Addr:         configuration.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", configuration.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	wg.Wait()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}

func revocationStores(cfg *config.Config, db *gorm.DB) (revocation.Store, revocation.Store) {
	if cfg.RevocationKind == config.RevocationDB {
		return revocation.NewGormStore(db, "access"), revocation.NewGormStore(db, "refresh")
	}
	return revocation.NewMemoryStore(), revocation.NewMemoryStore()
}
