package main

import (
	"context"
	"log"
	"os"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/reconcile"
	"github.com/farxc/productivity-dashboard/internal/dashboard/snapshot"
	"github.com/farxc/productivity-dashboard/internal/db"
	"github.com/farxc/productivity-dashboard/internal/env"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"github.com/farxc/productivity-dashboard/internal/store"
)

func main() {
	const component = "Main"
	log.SetFlags(0)

	if err := env.Load(); err != nil {
		log.Printf("Failed to read .env file: %v", err)
	}

	cfg := config{
		addr:        env.GetString("ADDR", ":8080"),
		snapshotDir: env.GetString("SNAPSHOT_DIR", snapshot.DefaultDir),
		logLevel:    env.GetString("LOG_LEVEL", "info"),
		logRequests: env.GetBool("LOG_REQUESTS", true),
		maxUpload:   int64(env.GetInt("MAX_UPLOAD_MB", 64)) << 20,
		db: dbConfig{
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 25),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 25),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
	}

	appLogger := logger.New(os.Stderr, logger.ParseLevel(cfg.logLevel))
	ctx := context.Background()

	storage := store.NewMemoryStorage()
	if cfg.db.addr != "" {
		database, err := db.New(ctx,
			cfg.db.addr,
			cfg.db.maxOpenConns,
			cfg.db.maxIdleConns,
			cfg.db.maxIdleTime)
		if err != nil {
			appLogger.Fatal(component, "Database connection failed: error=%v", err)
		}
		defer database.Close()
		appLogger.Info(component, "Database connection pool established")
		storage = store.NewStorage(database)
	} else {
		appLogger.Info(component, "DB_ADDR not set, keeping upload history in memory")
	}
	if err := storage.Uploads.EnsureSchema(ctx); err != nil {
		appLogger.Fatal(component, "Upload history schema failed: error=%v", err)
	}

	snapshots, err := snapshot.New(cfg.snapshotDir)
	if err != nil {
		appLogger.Fatal(component, "Snapshot directory unavailable: dir=%s error=%v", cfg.snapshotDir, err)
	}

	engine := dashboard.NewEngine(reconcile.New(snapshots, storage.Uploads, appLogger), appLogger)
	session, msgs := engine.Open(ctx)
	for _, m := range msgs {
		appLogger.Warn(component, "Restore: dataset=%s %s", m.Dataset, m.Text)
	}

	app := &application{
		config:    cfg,
		store:     *storage,
		engine:    engine,
		snapshots: snapshots,
		appLogger: appLogger,
		session:   session,
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "Server stopped: error=%v", err)
	}
}
