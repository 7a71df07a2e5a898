package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/georgemunganga/printa-shipping/internal/config"
	"github.com/georgemunganga/printa-shipping/internal/database"
	"github.com/georgemunganga/printa-shipping/internal/modules/auth"
	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/georgemunganga/printa-shipping/internal/modules/setting"
	"github.com/georgemunganga/printa-shipping/internal/modules/shipping"
	"github.com/georgemunganga/printa-shipping/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	// ── Storage ─────────────────────────────────────────────
	var (
		userRepo    user.Repository
		methodRepo  method.Repository
		settingRepo setting.Repository
		ruleRepo    shipping.RuleRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Successfully connected to the database!")
		userRepo, methodRepo, settingRepo, ruleRepo = postgresRepos(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory storage")
		userRepo = user.NewMemoryRepository()
		methodRepo = method.NewMemoryRepository()
		settingRepo = setting.NewMemoryRepository()
		ruleRepo = shipping.NewMemoryRepository()
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userService := user.NewService(userRepo)
	if cfg.AdminEmail != "" {
		admin, created, err := userService.EnsureAdmin(ctx, user.RegisterRequest{
			Email: cfg.AdminEmail, Password: cfg.AdminPassword,
		})
		if err != nil {
			log.Fatalf("failed to bootstrap admin: %v", err)
		}
		if created {
			log.Printf("created admin %s", admin.Email)
		}
	}

	authService := auth.NewService(userRepo, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)
	requireAdmin := auth.Middleware(authService)
	user.NewHandler(userService).RegisterRoutes(router, requireAdmin)

	// ── Settings ────────────────────────────────────────────
	settingStore := setting.NewStore(settingRepo)
	refresher, err := setting.StartCacheRefresher(settingStore, cfg.SettingsCacheRefresh)
	if err != nil {
		log.Fatal(err)
	}
	defer refresher.Stop()

	// ── Shipping methods & rates ────────────────────────────
	methodService := method.NewService(methodRepo)
	method.NewHandler(methodService).RegisterRoutes(router, requireAdmin)

	shippingService := shipping.NewService(ruleRepo, shipping.NewSettingsStore(settingStore), methodService, shipping.Options{
		DefaultStoreID: cfg.DefaultStoreID,
		Policy:         shipping.ParseSelectionPolicy(cfg.RuleSelection),
	})
	methodService.OnDelete(shippingService.DeleteFixedRate)
	methodService.OnDelete(shippingService.DeleteMethodRules)
	shipping.NewHandler(shippingService).RegisterRoutes(router, requireAdmin)

	// ── Start Server ─────────────────────────────────────────
	fmt.Printf("Printa shipping API starting on :%s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}

func postgresRepos(db *sql.DB) (user.Repository, method.Repository, setting.Repository, shipping.RuleRepository) {
	return user.NewPostgresRepository(db),
		method.NewPostgresRepository(db),
		setting.NewPostgresRepository(db),
		shipping.NewPostgresRepository(db)
}
