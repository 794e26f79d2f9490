package main

import (
	"context"
	"errors"
	"log"
	"os"

	"sharespot/internal/config"
	"sharespot/internal/database"
	jwtsvc "sharespot/internal/pkg/jwt"
	"sharespot/internal/repository"
	"sharespot/internal/seeddata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "sharespot.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	bookings := repository.NewBookingRepository(db)
	items := repository.NewItemRepository(db)
	log.Println("Running AutoMigrate...")
	if err := bookings.Migrate(); err != nil {
		log.Fatal("migrate bookings failed: ", err)
	}
	if err := items.Migrate(); err != nil {
		log.Fatal("migrate items failed: ", err)
	}

	ctx := context.Background()

	if len(os.Args) > 1 && os.Args[1] == "--reset" {
		log.Println("Cleaning old data...")
		db.Exec("DELETE FROM bookings")
		db.Exec("DELETE FROM items")
	}

	log.Println("Creating items...")
	for _, it := range seeddata.Items() {
		if err := items.Upsert(ctx, &it); err != nil {
			log.Fatalf("upsert item %s failed: %v", it.ID, err)
		}
	}

	log.Println("Creating bookings...")
	created := 0
	for _, b := range seeddata.Bookings() {
		if _, err := bookings.GetByID(ctx, b.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("lookup booking %s failed: %v", b.ID, err)
		}
		if err := bookings.Create(ctx, &b); err != nil {
			log.Fatalf("create booking %s failed: %v", b.ID, err)
		}
		created++
	}
	log.Printf("seed completed: items=%d bookings_created=%d", len(seeddata.Items()), created)

	// dev tokens for the demo users
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	for _, id := range []string{"101", "102", "103", "104", "105", "106"} {
		token, err := j.GenerateToken(id, "user")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("user %s token: %s", id, token)
	}
}
