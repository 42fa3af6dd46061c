package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/reconcile"
	"github.com/farxc/productivity-dashboard/internal/dashboard/snapshot"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/db"
	"github.com/farxc/productivity-dashboard/internal/env"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"github.com/farxc/productivity-dashboard/internal/store"
)

type config struct {
	snapshotDir string
	db          dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

// splitList turns a comma-separated flag into its trimmed, non-empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func main() {
	const component = "Main"
	log.SetFlags(0)

	if err := env.Load(); err != nil {
		log.Printf("Failed to read .env file: %v", err)
	}

	pplPtr := flag.String("ppl", "", "PPL legalization file (csv, txt or xlsx)")
	conveniosPtr := flag.String("convenios", "", "Convenios legalization file")
	ripsPtr := flag.String("rips", "", "RIPS status file")
	billingPtr := flag.String("facturacion", "", "Billing file")
	startPtr := flag.String("start", "", "Start date (YYYY-MM-DD), defaults to the earliest loaded date")
	endPtr := flag.String("end", "", "End date (YYYY-MM-DD), defaults to the latest loaded date")
	operatorsPtr := flag.String("operators", types.AllOption, "Comma-separated operators, or Todos")
	legalizationPtr := flag.String("legalization-types", types.AllOption, "Comma-separated legalization types, or Todos")
	ripsStatusesPtr := flag.String("rips-statuses", types.AllOption, "Comma-separated RIPS statuses, or Todos")
	billingTypesPtr := flag.String("billing-types", types.AllOption, "Comma-separated billing types, or Todos")
	periodPtr := flag.String("period", "D", "Series period: D, 5D, W, M, Q or Y")
	savePtr := flag.Bool("save", false, "Save loaded datasets as snapshots")
	resetPtr := flag.Bool("reset", false, "Clear every dataset and delete saved snapshots before loading")
	formatPtr := flag.String("format", "text", "Output format: text, json")
	snapshotsPtr := flag.String("snapshots", env.GetString("SNAPSHOT_DIR", snapshot.DefaultDir), "Snapshot directory")
	logLevelPtr := flag.String("loglevel", env.GetString("LOG_LEVEL", "warn"), "Log level: debug, info, warn, error")
	flag.Parse()

	appLogger := logger.New(os.Stderr, logger.ParseLevel(*logLevelPtr))

	monitor := NewMonitor()
	monitor.Start(400*time.Millisecond, appLogger)
	startingTime := time.Now()

	cfg := config{
		snapshotDir: *snapshotsPtr,
		db: dbConfig{
			addr:         env.GetString("DB_ADDR", ""),
			maxOpenConns: env.GetInt("DB_MAX_OPEN_CONNS", 5),
			maxIdleConns: env.GetInt("DB_MAX_IDLE_CONNS", 5),
			maxIdleTime:  env.GetString("DB_MAX_IDLE_TIME", "15m"),
		},
	}
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
		storage = store.NewStorage(database)
		if err := storage.Uploads.EnsureSchema(ctx); err != nil {
			appLogger.Fatal(component, "Upload history schema failed: error=%v", err)
		}
	}

	start, err := parseDateFlag(*startPtr)
	if err != nil {
		appLogger.Fatal(component, "Invalid start date format: date=%s error=%v", *startPtr, err)
	}
	end, err := parseDateFlag(*endPtr)
	if err != nil {
		appLogger.Fatal(component, "Invalid end date format: date=%s error=%v", *endPtr, err)
	}
	period, err := types.ParseGranularity(*periodPtr)
	if err != nil {
		appLogger.Fatal(component, "Invalid period: period=%s error=%v", *periodPtr, err)
	}

	uploads, err := readUploads(map[types.Dataset]string{
		types.LegalizationPPL:       *pplPtr,
		types.LegalizationConvenios: *conveniosPtr,
		types.Rips:                  *ripsPtr,
		types.Billing:               *billingPtr,
	}, appLogger)
	if err != nil {
		appLogger.Fatal(component, "Failed to read input files: error=%v", err)
	}

	snapshots, err := snapshot.New(cfg.snapshotDir)
	if err != nil {
		appLogger.Fatal(component, "Snapshot directory unavailable: dir=%s error=%v", cfg.snapshotDir, err)
	}
	engine := dashboard.NewEngine(reconcile.New(snapshots, storage.Uploads, appLogger), appLogger)

	in := dashboard.Inputs{
		Uploads:           uploads,
		StartDate:         start,
		EndDate:           end,
		Operators:         splitList(*operatorsPtr),
		LegalizationTypes: splitList(*legalizationPtr),
		RipsStatuses:      splitList(*ripsStatusesPtr),
		BillingTypes:      splitList(*billingTypesPtr),
		Period:            period,
	}

	session, restored := engine.Open(ctx)
	if *resetPtr {
		// Reset runs on its own so that files given in the same call load
		// into the emptied slots.
		session, _ = engine.Compute(ctx, session, dashboard.Inputs{Action: dashboard.ActionReset})
		restored = nil
	}
	if *savePtr {
		in.Action = dashboard.ActionSave
	}

	appLogger.Info(component, "Report started: files=%d snapshotDir=%s period=%s", len(uploads), cfg.snapshotDir, period.Code())
	_, out := engine.Compute(ctx, session, in)
	out.Messages = append(restored, out.Messages...)

	if err := render(os.Stdout, *formatPtr, out); err != nil {
		appLogger.Fatal(component, "Render failed: error=%v", err)
	}

	stats := monitor.Stop()
	appLogger.Info(component, "Report completed: duration=%.2f seconds peakMemoryMB=%d peakGoroutines=%d",
		time.Since(startingTime).Seconds(), stats.PeakMemoryMB, stats.PeakGoroutines)

	if out.Halted {
		os.Exit(2)
	}
}
