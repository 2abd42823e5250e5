package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/parisxmas/partnerhub/internal/blob"
	"github.com/parisxmas/partnerhub/internal/blob/memory"
	"github.com/parisxmas/partnerhub/internal/blob/oxidb"
	"github.com/parisxmas/partnerhub/internal/blob/pebbledb"
	"github.com/parisxmas/partnerhub/internal/config"
	"github.com/parisxmas/partnerhub/internal/gelf"
	"github.com/parisxmas/partnerhub/internal/handler"
	"github.com/parisxmas/partnerhub/internal/qconfig"
	"github.com/parisxmas/partnerhub/internal/repository"
	"github.com/parisxmas/partnerhub/internal/retry"
	"github.com/parisxmas/partnerhub/internal/router"
	"github.com/parisxmas/partnerhub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s blob backend: %v", cfg.BlobBackend, err)
	}
	defer cleanup()
	log.Printf("Blob backend: %s", cfg.BlobBackend)

	// Only transient backend failures are worth retrying.
	policy := retry.Default()
	policy.Retryable = blob.IsTransient

	// Migration audit events go to the shared logger.
	audit := func(ev qconfig.AuditEvent) {
		log.Printf("migration: stripped legacy field %q (value %v)", ev.Field, ev.Value)
	}

	// Repositories
	partnerRepo := repository.NewPartnerRepo(store, policy, qconfig.StripLegacyGateStatus(audit))
	subRepo := repository.NewSubmissionRepo(store, policy)
	userRepo := repository.NewUserRepo(store, policy)

	// Config loader with TTL cache
	configCache := qconfig.NewCache(cfg.ConfigTTL, nil)
	configLoader := qconfig.NewLoader(store, configCache)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	partnerSvc := service.NewPartnerService(partnerRepo)
	subSvc := service.NewSubmissionService(subRepo, partnerRepo, configLoader)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	partnerH := handler.NewPartnerHandler(partnerSvc)
	subH := handler.NewSubmissionHandler(subSvc)
	configH := handler.NewConfigHandler(configLoader)

	r := router.New(cfg.JWTSecret, authH, partnerH, subH, configH)

	// Seed the admin account in the background so a slow backend does
	// not delay serving.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := authSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPass); err != nil {
			log.Printf("Warning: failed to seed admin: %v", err)
		}
	}()

	log.Printf("PartnerHub server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func openStore(cfg *config.Config) (blob.Store, func(), error) {
	switch cfg.BlobBackend {
	case "memory":
		return memory.New(), func() {}, nil
	case "pebble":
		store, err := pebbledb.Open(cfg.PebbleDir, nil)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "oxidb":
		pool, err := oxidb.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		store, err := oxidb.NewStore(pool, cfg.OxiDBBucket)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
