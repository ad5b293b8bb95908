package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"SecurityWatchdog/internal/analyzer"
	"SecurityWatchdog/internal/collector"
	"SecurityWatchdog/internal/config"
	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/infrastructure/feed"
	"SecurityWatchdog/internal/infrastructure/llm"
	"SecurityWatchdog/internal/infrastructure/scraper"
	"SecurityWatchdog/internal/infrastructure/search"
	"SecurityWatchdog/internal/infrastructure/storage"
	"SecurityWatchdog/internal/infrastructure/telegram"
	"SecurityWatchdog/internal/logging"
	"SecurityWatchdog/internal/ports"
	"SecurityWatchdog/internal/usecase"
)

// Application wires configuration to adapters and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := collector.NewRegistry()
	registry.Register(feed.NewRSSCollector(nil))

	searcher := search.NewGoogleCollector(cfg.Search, nil)
	if searcher.Configured() {
		registry.Register(searcher)
	} else {
		baseLogger.Warn("search API credentials missing, search sweeps disabled")
	}

	repository, db, err := buildRepository(ctx, cfg.Storage, baseLogger)
	if err != nil {
		return nil, err
	}

	var digestClient ports.DigestClient
	if cfg.Gemini.APIKey != "" {
		digestClient = llm.NewGeminiClient(cfg.Gemini)
	}

	var publisher ports.ReportPublisher
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		publisher = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	events := usecase.NewEvents(256, baseLogger.With("component", "events"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Analyzer:   analyzer.New(cfg.Sources, analyzer.NewLexiconClassifier(), baseLogger.With("component", "analyzer")),
		Content:    scraper.New(nil, baseLogger.With("component", "scraper")),
		Repository: repository,
		Events:     events,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	scheduler := usecase.NewScheduler(usecase.SchedulerDeps{
		Registry:        registry,
		Pipeline:        pipeline,
		Reporter:        usecase.NewReporter(digestClient, baseLogger.With("component", "reporter")),
		Publisher:       publisher,
		Events:          events,
		Sources:         cfg.Sources,
		Searches:        cfg.Searches,
		RefreshInterval: cfg.Scheduler.RefreshInterval(),
		SearchInterval:  cfg.Scheduler.SearchInterval(),
		Logger:          baseLogger.With("component", "scheduler"),
	})

	return &Application{cfg: cfg, logger: baseLogger, scheduler: scheduler, db: db}, nil
}

// Run starts the scheduler worker and consumes its events until the
// context is canceled. The worker finishes its current cycle before
// shutting down.
func (a *Application) Run(ctx context.Context) error {
	go a.scheduler.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			a.scheduler.Stop()
			a.close()
			return nil
		case event := <-a.scheduler.Events():
			a.render(event)
		}
	}
}

func (a *Application) render(event domain.Event) {
	switch event.Kind {
	case domain.EventItem:
		a.logger.Info("item processed",
			"status", event.Item.Status,
			"category", event.Item.Category,
			"source", event.Item.Source,
			"title", event.Item.Title)
	case domain.EventReport:
		fmt.Println("\n===== IoT Security Watch Report =====")
		fmt.Println(event.Report)
		fmt.Println("=====================================")
	}
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// buildRepository selects Postgres when a DSN is configured and the
// JSON export log otherwise.
func buildRepository(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ports.ItemRepository, *sql.DB, error) {
	if cfg.DSN != "" {
		db, err := storage.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect storage: %w", err)
		}
		return storage.NewPostgresRepository(db), db, nil
	}

	repo, err := storage.NewJSONFileRepository(cfg.ExportFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open export log: %w", err)
	}
	logger.Info("exporting items to JSON log", "path", repo.Path())
	return repo, nil, nil
}
