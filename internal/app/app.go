package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"AdverseScreener/internal/config"
	"AdverseScreener/internal/credibility"
	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/extraction"
	"AdverseScreener/internal/infrastructure/fetcher"
	"AdverseScreener/internal/infrastructure/llm"
	"AdverseScreener/internal/infrastructure/scheduler"
	"AdverseScreener/internal/infrastructure/storage"
	"AdverseScreener/internal/logging"
	"AdverseScreener/internal/matching"
	"AdverseScreener/internal/metrics"
	"AdverseScreener/internal/names"
	"AdverseScreener/internal/oracle"
	"AdverseScreener/internal/ports"
	"AdverseScreener/internal/sentiment"
	"AdverseScreener/internal/transport/httpapi"
	"AdverseScreener/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	screener  *usecase.Screener
	scheduler *usecase.Scheduler
	server    *http.Server
	closers   []func() error
	logger    *slog.Logger
}

// New builds every adapter from cfg. Call Close when done.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.NewWithFormat(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger.With("component", "app")}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	model, err := resolveModel(cfg.LLM)
	if err != nil {
		return nil, err
	}
	_, providerCfg := cfg.LLM.Active()
	settings := oracle.Settings{Temperature: providerCfg.Temperature, MaxTokens: providerCfg.MaxTokens}
	info := domain.ModelInfo{Provider: model.Provider(), Model: model.Model()}
	oracleLogger := baseLogger.With("component", "oracle")

	articles, err := a.buildFetcher(ctx, baseLogger)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps := usecase.PipelineDeps{
		Fetcher: articles,
		Extractor: extraction.NewExtractor(
			oracle.NewStructured[extraction.Request, extraction.Output](model, extraction.Prompt(), settings, oracleLogger),
			info, baseLogger.With("component", "extraction")),
		Matcher: matching.NewMatcher(
			oracle.NewStructured[matching.Request, matching.Analysis](model, matching.Prompt(), settings, oracleLogger),
			names.DefaultNicknames(), info, baseLogger.With("component", "matching")),
		Metrics: m,
		Logger:  baseLogger.With("component", "pipeline"),
	}
	if cfg.Pipeline.Credibility {
		deps.Credibility = credibility.NewAssessor(
			oracle.NewStructured[credibility.Request, credibility.Output](model, credibility.Prompt(), settings, oracleLogger),
			info, baseLogger.With("component", "credibility"))
	}
	if cfg.Pipeline.Sentiment {
		deps.Sentiment = sentiment.NewAnalyser(
			oracle.NewStructured[sentiment.Request, sentiment.Output](model, sentiment.Prompt(), settings, oracleLogger),
			info, cfg.Pipeline.SentimentWorkers, baseLogger.With("component", "sentiment"))
	}

	pipeline, err := usecase.NewPipeline(deps)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.buildStore(ctx, baseLogger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.screener = usecase.NewScreener(pipeline, store, m, baseLogger.With("component", "screener"))

	if reconciler, ok := store.(ports.IndexReconciler); ok && cfg.Storage.ReconcileInterval > 0 {
		a.scheduler = usecase.NewScheduler(
			scheduler.NewIntervalScheduler(cfg.Storage.ReconcileInterval),
			reconciler,
			baseLogger.With("component", "scheduler"))
	}

	handler := httpapi.New(a.screener, registry, baseLogger.With("component", "http"))
	a.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// resolveModel registers every provider with credentials and returns the configured default.
func resolveModel(cfg config.LLMConfig) (ports.ChatModel, error) {
	registry := oracle.NewRegistry()
	if cfg.OpenAI.APIKey != "" {
		registry.Register(llm.NewOpenAIClient(cfg.OpenAI, cfg.RequestsPerMinute))
	}
	if cfg.Anthropic.APIKey != "" {
		registry.Register(llm.NewAnthropicClient(cfg.Anthropic, cfg.RequestsPerMinute))
	}

	name, _ := cfg.Active()
	model, err := registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("resolve llm: %w", err)
	}
	return model, nil
}

func (a *Application) buildFetcher(ctx context.Context, logger *slog.Logger) (ports.ArticleFetcher, error) {
	httpFetcher := fetcher.NewHTTPFetcher(
		&http.Client{Timeout: a.cfg.Fetcher.Timeout},
		a.cfg.Fetcher.UserAgent,
		logger.With("component", "fetcher"))

	if a.cfg.Cache.RedisURL == "" {
		return httpFetcher, nil
	}

	client, err := fetcher.NewRedisClient(ctx, a.cfg.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	return fetcher.NewCachedFetcher(httpFetcher, client, a.cfg.Cache.TTL, logger.With("component", "fetcher.cache")), nil
}

func (a *Application) buildStore(ctx context.Context, logger *slog.Logger) (ports.ResultStore, error) {
	storeLogger := logger.With("component", "storage")

	switch a.cfg.Storage.Backend {
	case config.BackendPostgres, config.BackendSQLite:
		dialect := storage.DialectPostgres
		if a.cfg.Storage.Backend == config.BackendSQLite {
			dialect = storage.DialectSQLite
		}
		db, err := storage.OpenSQL(ctx, dialect, a.cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		store := storage.NewSQLStore(db, dialect, domain.SchemaVersion, storeLogger)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewFileStore(a.cfg.Storage.ResultsDir, domain.SchemaVersion, storeLogger)
	}
}

// Screen runs a single screening and stores it, without the HTTP listener.
func (a *Application) Screen(ctx context.Context, url string, query domain.QueryPerson) (string, domain.ScreeningResult, error) {
	return a.screener.ScreenAndStore(ctx, url, query)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http: %w", err))
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	return runErr
}

// Close releases database and cache connections.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
