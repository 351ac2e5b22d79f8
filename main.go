package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"lifelog/internal/config"
	"lifelog/internal/database"
	"lifelog/internal/geocode"
	"lifelog/internal/router"
	"lifelog/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		log.Fatalf("create log dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// photo storage
	photos, err := store.NewPhotoStore(cfg.Storage.PhotoDir)
	if err != nil {
		log.Fatalf("init photo store: %v", err)
	}

	// records store with photo blob cascade
	records := store.New(db, photos)

	geo := &geocode.Client{BaseURL: cfg.Geocode.BaseURL}

	// setup router
	r := router.SetupRouter(cfg, db, records, photos, geo)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
