package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/config"
	httpapi "github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/http"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/logging"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/service"

	_ "github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/docs"
)

// @title       Pharmacy Plus gateway
// @version     1.0
// @description Local gateway over the cart, coupon, order and session services.
// @host        localhost:9091
// @BasePath    /api/v1

func main() {
	cf, err := config.Load(".env")
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cf.LogLevel, cf.LogPretty)

	store, closeStore, err := openStore(cf)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cf.StorageDriver).Msg("open storage")
	}
	defer closeStore()
	repo := repository.NewKVRepository(store)

	session := service.NewSession(repo, log)
	client := backend.New(cf.APIBaseURL,
		backend.WithTokenSource(session),
		backend.WithLogger(log.With().Str("component", "backend").Logger()),
		backend.WithTimeout(cf.HTTPTimeout),
	)

	cart := service.NewCartService(repo, client, log)
	orders := service.NewOrderService(repo, client, cart, session, log)

	// storage is a cache: a broken entry is logged and the service starts empty
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	for name, load := range map[string]func(context.Context) error{
		"session": session.Load,
		"cart":    cart.Load,
		"orders":  orders.Load,
	} {
		if err := load(loadCtx); err != nil {
			log.Error().Err(err).Str("state", name).Msg("restore from storage failed")
		}
	}
	cancelLoad()

	srv := httpapi.NewServer(httpapi.Services{
		Session: service.NewSessionService(session, client, log),
		Cart:    cart,
		Orders:  orders,
		Catalog: service.NewCatalogService(client, session, log),
		Admin:   service.NewAdminService(client, session, log),
	}, log)

	httpServer := &http.Server{
		Addr:              cf.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("backend", cf.APIBaseURL).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("stopped")
}

func openStore(cf *config.Config) (repository.Store, func(), error) {
	noop := func() {}
	switch cf.StorageDriver {
	case config.StorageFile:
		fs, err := repository.NewFileStore(cf.StoragePath)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case config.StorageRedis:
		client := repository.NewRedisClient(cf.RedisAddr,
			repository.WithRedisPassword(cf.RedisPassword),
			repository.WithRedisDB(cf.RedisDB),
		)
		rs := repository.NewRedisStore(client, cf.RedisPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, noop, errors.Wrap(err, "ping redis")
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return repository.NewMemoryStore(), noop, nil
	}
}
