package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/reconcile"
	"github.com/farxc/productivity-dashboard/internal/dashboard/snapshot"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"github.com/farxc/productivity-dashboard/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type application struct {
	config    config
	store     store.Storage
	engine    *dashboard.Engine
	snapshots *snapshot.Store
	appLogger *logger.Logger

	// One dashboard session is served; interactions run one at a time.
	mu      sync.Mutex
	session *reconcile.Session
}

type config struct {
	addr        string
	snapshotDir string
	logLevel    string
	logRequests bool
	maxUpload   int64
	db          dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	if app.config.logRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", app.handleListDatasets)
			r.Put("/{dataset}", app.handleUploadDataset)
		})
		r.Post("/report", app.handleReport)
		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", app.handleSaveSnapshots)
			r.Delete("/", app.handleResetSnapshots)
		})
		r.Route("/uploads", func(r chi.Router) {
			r.Get("/history", app.handleGetUploadHistory)
		})
	})

	return r
}

// compute runs one pipeline interaction against the served session and
// keeps the resulting session.
func (app *application) compute(ctx context.Context, in dashboard.Inputs) dashboard.Outputs {
	app.mu.Lock()
	defer app.mu.Unlock()

	next, out := app.engine.Compute(ctx, app.session, in)
	app.session = next
	return out
}

func (app *application) run(mux http.Handler) error {
	const component = "Server"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.appLogger.Info(component, "Server started: addr=%s snapshotDir=%s", app.config.addr, app.snapshots.Dir())
	return srv.ListenAndServe()
}
