package main

import (
	"context"
	"flag"
	"log"
	"time"

	"sharespot/internal/config"
	"sharespot/internal/database"
	"sharespot/internal/modules/notification"
)

func main() {
	keep := flag.Duration("keep", 30*24*time.Hour, "delete read notifications older than this")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := notification.NewRepository(db)
	start := time.Now()
	deleted, err := repo.DeleteReadBefore(context.Background(), start.Add(-*keep))
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("notification cleanup completed: deleted=%d keep=%s took=%s", deleted, *keep, time.Since(start))
}
