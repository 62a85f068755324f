package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	fsstorelocationrepo "github.com/we-whacked/reviews-api/internal/adapters/fsstore/locationrepo"
	fsstorereviewrepo "github.com/we-whacked/reviews-api/internal/adapters/fsstore/reviewrepo"
	"github.com/we-whacked/reviews-api/internal/adapters/httpapi"
	memlocationrepo "github.com/we-whacked/reviews-api/internal/adapters/memory/locationrepo"
	memreviewrepo "github.com/we-whacked/reviews-api/internal/adapters/memory/reviewrepo"
	postgres "github.com/we-whacked/reviews-api/internal/adapters/postgres"
	pglocationrepo "github.com/we-whacked/reviews-api/internal/adapters/postgres/locationrepo"
	pgreviewrepo "github.com/we-whacked/reviews-api/internal/adapters/postgres/reviewrepo"
	"github.com/we-whacked/reviews-api/internal/app/caches"
	"github.com/we-whacked/reviews-api/internal/app/reviews"
	platformclock "github.com/we-whacked/reviews-api/internal/platform/clock"
	"github.com/we-whacked/reviews-api/internal/platform/config"
	locationrepoport "github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
	reviewrepoport "github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	var (
		reviewRepo   reviewrepoport.Repository
		locationRepo locationrepoport.Repository
		cleanup      func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatalf("invalid postgres config: %v", err)
		}
		cleanup = pool.Close

		reviewRepo = pgreviewrepo.NewRepo(pool)
		locationRepo = pglocationrepo.NewRepo(pool)
	case "memory":
		reviewRepo = memreviewrepo.NewRepo()
		locationRepo = memlocationrepo.NewRepo()
	default:
		rr, err := fsstorereviewrepo.NewRepo(filepath.Join(cfg.DataDir, "reviews.json"))
		if err != nil {
			log.Fatalf("open reviews store: %v", err)
		}
		lr, err := fsstorelocationrepo.NewRepo(filepath.Join(cfg.DataDir, "locations.json"))
		if err != nil {
			log.Fatalf("open locations store: %v", err)
		}
		reviewRepo = rr
		locationRepo = lr
	}

	if cleanup != nil {
		defer cleanup()
	}

	reviewSvc := reviews.NewService(reviewRepo, locationRepo, clk)
	registry := caches.NewRegistry(clk)

	api := httpapi.NewServer(reviewSvc, registry, clk)
	handler := httpapi.NewRouter(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
