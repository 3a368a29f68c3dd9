package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmorales89/accounthub/internal/config"
	"github.com/nmorales89/accounthub/internal/db"
	httpx "github.com/nmorales89/accounthub/internal/http"
	"github.com/nmorales89/accounthub/internal/observability"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/nmorales89/accounthub/internal/repo/memory"
	"github.com/nmorales89/accounthub/internal/repo/postgres"
	"github.com/nmorales89/accounthub/internal/repo/redisstore"
	"github.com/nmorales89/accounthub/internal/security"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), "accounthub", cfg.OTLPEndpoint)

	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg)

	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	// optional bootstrap account
	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)
	err = db.EnsureSeedUser(seedCtx, store, security.NewHasher(cfg.BcryptCost), cfg)
	cancelSeed()

	if err != nil {
		log.Error("seed user failed", "err", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(log, store, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if closeStore != nil {
			closeStore()
		}

		_ = shutdownTracer(ctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func openStore(cfg config.Config) (repo.Store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := db.NewPool(cfg.DBURL)

		if err != nil {
			return nil, nil, err
		}

		return postgres.NewUsersRepo(pool), pool.Close, nil

	case "memory":
		return memory.NewUsersRepo(), nil, nil

	default:
		store := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		return store, func() { _ = store.Close() }, nil
	}
}
