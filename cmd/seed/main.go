// seed applies a YAML shipping configuration to the database.
//
// Usage: go run ./cmd/seed -file configs/seed.example.yaml
package main

import (
	"context"
	"flag"
	"log"

	"github.com/georgemunganga/printa-shipping/internal/config"
	"github.com/georgemunganga/printa-shipping/internal/database"
	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/georgemunganga/printa-shipping/internal/modules/setting"
	"github.com/georgemunganga/printa-shipping/internal/modules/shipping"
	"github.com/georgemunganga/printa-shipping/internal/modules/user"
	"github.com/georgemunganga/printa-shipping/internal/seed"
)

func main() {
	path := flag.String("file", "configs/seed.example.yaml", "seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal(err)
	}

	f, err := seed.Load(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	methods := method.NewService(method.NewPostgresRepository(db))
	settings := shipping.NewSettingsStore(setting.NewStore(setting.NewPostgresRepository(db)))
	shippingService := shipping.NewService(shipping.NewPostgresRepository(db), settings, methods, shipping.Options{
		DefaultStoreID: cfg.DefaultStoreID,
	})

	sum, err := seed.Apply(ctx, f, seed.Targets{
		Methods:  methods,
		Shipping: shippingService,
		Users:    user.NewService(user.NewPostgresRepository(db)),
	})
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("Seed applied: %d methods created, %d fixed rates, %d rules, %d admins",
		sum.MethodsCreated, sum.FixedRates, sum.Rules, sum.Admins)
}
