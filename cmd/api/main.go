package main

import (
	"context"
	"log"
	"net/http"

	"foc-inventory-api/internal"
	"foc-inventory-api/internal/actions"
	"foc-inventory-api/internal/auth"
	"foc-inventory-api/internal/config"
	"foc-inventory-api/internal/inventory"
	"foc-inventory-api/internal/metrics"
	"foc-inventory-api/internal/ratelimit"
	"foc-inventory-api/internal/sheets"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	layout, err := sheets.LoadLayout(cfg.LayoutPath)
	if err != nil {
		log.Fatalf("Layout error: %v", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.SheetsBackend, err)
	}

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
	}

	limiterStore, closeLimiter, err := openLimiterStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open rate limit store: %v", err)
	}
	defer closeLimiter()

	reader := inventory.NewReader(store, layout)
	cacheOpts := []inventory.CacheOption{}
	if m != nil {
		cacheOpts = append(cacheOpts, inventory.WithObserver(m))
	}
	cache := inventory.NewCache(reader.Snapshot, cfg.CacheTTL, cacheOpts...)

	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, auth.WithSecureCookie(cfg.IsProduction()))
	if err := sessions.ValidateConfig(); err != nil {
		// Still serve: PIN verification answers with a misconfiguration error.
		log.Printf("WARNING: %v", err)
	}

	var pinObserver auth.PinObserver
	var appendObserver actions.AppendObserver
	if m != nil {
		pinObserver = m
		appendObserver = m
	}

	limiter := ratelimit.New(limiterStore, ratelimit.DefaultWindow, ratelimit.DefaultMaxAttempts)
	gate := auth.NewGate(limiter, sessions, cfg.AuthorizedPins, cfg.AuthorizedHashes, pinObserver)

	svc := actions.NewService(actions.Config{
		Store:       store,
		Cache:       cache,
		Layout:      layout,
		Location:    loc,
		EmailDomain: cfg.EmailDomain,
		Observer:    appendObserver,
	})

	srv := internal.NewServer(internal.Deps{
		Cache:    cache,
		Actions:  svc,
		Gate:     gate,
		Sessions: sessions,
		Layout:   layout,
		Location: loc,
		Metrics:  m,
	})

	log.Println("Starting FOC Inventory API server...")
	log.Printf("Sheets backend: %s", cfg.SheetsBackend)
	log.Printf("Rate limit store: %s", cfg.RateLimitStore)
	log.Printf("Session expiry: %v", cfg.SessionTTL)
	log.Printf("Cache TTL: %v", cfg.CacheTTL)
	log.Printf("Timezone: %s", cfg.Timezone)
	log.Printf("Listening on %s", cfg.ListenAddr)

	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.Router))
}

func openStore(ctx context.Context, cfg *config.Config) (sheets.Store, error) {
	if cfg.SheetsBackend == config.BackendXLSX {
		return sheets.NewXLSXStore(cfg.XLSXPath)
	}
	return sheets.NewGoogleStore(ctx, cfg.GoogleSheetID, sheets.GoogleCredentials{
		ClientEmail: cfg.GoogleClientEmail,
		PrivateKey:  cfg.GooglePrivateKey,
	})
}

func openLimiterStore(ctx context.Context, cfg *config.Config) (ratelimit.Store, func(), error) {
	if cfg.RateLimitStore != config.LimiterPostgres {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return ratelimit.NewPostgresStore(pool), pool.Close, nil
}
