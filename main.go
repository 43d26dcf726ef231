package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"blogr/internal/config"
	"blogr/internal/database"
	"blogr/internal/router"
	"blogr/internal/session"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	initDB := flag.Bool("init-db", false, "drop and recreate all tables, destroying existing data")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
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

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// operator bootstrap: wipe and recreate the schema, then exit
	if *initDB {
		if err := database.Reset(db); err != nil {
			log.Fatalf("init db: %v", err)
		}
		fmt.Println("Initialized the database.")
		return
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// session store with background expiry sweep
	sessions := session.NewStore(time.Duration(cfg.Session.TTLHours) * time.Hour)
	go sessions.CleanupLoop(10 * time.Minute)

	// setup router
	r := router.SetupRouter(cfg, db, sessions)

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
