package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/herdboard/herdboard/internal/config"
	"github.com/herdboard/herdboard/internal/prefs"
	"github.com/herdboard/herdboard/internal/repository/farmapi"
	"github.com/herdboard/herdboard/internal/repository/mongodb"
	"github.com/herdboard/herdboard/internal/repository/prefsfile"
	"github.com/herdboard/herdboard/internal/repository/sheets"
	"github.com/herdboard/herdboard/internal/scheduler"
	"github.com/herdboard/herdboard/internal/server/handlers"
	"github.com/herdboard/herdboard/internal/server/router"
	dashboardsvc "github.com/herdboard/herdboard/internal/service/dashboard"
	reportingsvc "github.com/herdboard/herdboard/internal/service/reporting"
	"github.com/herdboard/herdboard/internal/theme"
	"github.com/herdboard/herdboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	var prefsStorage prefs.Storage
	var snapshotStore reportingsvc.SnapshotStore

	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		prefsStorage = mongoRepo
		snapshotStore = mongoRepo
	} else {
		prefsStorage = prefsfile.New(cfg.Defaults.PrefsFile)
		baseLogger.Info("mongodb not configured, using file-backed preferences", zap.String("path", cfg.Defaults.PrefsFile))
	}

	prefsStore := prefs.NewStore(prefs.Preferences{
		Language:   cfg.Defaults.Language,
		Currency:   cfg.Defaults.Currency,
		DateFormat: cfg.Defaults.DateFormat,
		Theme:      theme.Theme(cfg.Defaults.Theme),
	}, prefsStorage, baseLogger.Named("prefs"))
	prefsStore.Load(context.Background())

	systemSignal := theme.NewBoolSignal(false)
	themeResolver := theme.NewResolver(prefsStore.Theme, systemSignal)
	defer themeResolver.Close()

	var source dashboardsvc.RecordSource
	switch cfg.Source.Kind {
	case config.SourceSheets:
		reader, err := sheets.NewGoogleSheetReader(context.Background(), cfg.Sheets)
		if err != nil {
			baseLogger.Fatal("failed to init sheets reader", zap.Error(err))
		}
		source = sheets.NewSource(reader, loc, baseLogger.Named("repo.sheets"))
	default:
		source = farmapi.NewClient(cfg.FarmAPI, loc, baseLogger.Named("repo.farmapi"))
	}

	dashboardSvc := dashboardsvc.NewService(source, prefsStore, loc, baseLogger.Named("svc.dashboard"))
	reportingSvc := reportingsvc.NewService(source, snapshotStore, loc, baseLogger.Named("svc.reporting"))

	handler := handlers.NewHandler(dashboardSvc, reportingSvc, prefsStore, themeResolver, loc, baseLogger.Named("handlers.dashboard"))
	engine := router.New(handler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, loc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
