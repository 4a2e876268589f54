package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/trapmap/config"
	"github.com/alejandrodnm/trapmap/internal/adapters/cache"
	"github.com/alejandrodnm/trapmap/internal/adapters/notify"
	"github.com/alejandrodnm/trapmap/internal/adapters/storage"
	"github.com/alejandrodnm/trapmap/internal/adapters/transfermarkt"
	"github.com/alejandrodnm/trapmap/internal/domain"
	"github.com/alejandrodnm/trapmap/internal/engine"
	"github.com/alejandrodnm/trapmap/internal/history"
	"github.com/alejandrodnm/trapmap/internal/synth"
	"github.com/alejandrodnm/trapmap/internal/teamdata"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	input := flag.String("input", "", "YAML file with match odds to analyze")
	demo := flag.Bool("demo", false, "analyze a synthetic match instead of real data")
	trap := flag.Bool("trap", false, "plant a trap in the synthetic match (requires -demo)")
	seed := flag.Int64("seed", 1, "seed for synthetic data")
	reportDays := flag.Int("report", 0, "print trap pattern report for the last N days and exit")
	strategyTeam := flag.String("strategy", "", "print avoidance strategy for a team and exit")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	analyzer := history.NewAnalyzer(store)

	if *reportDays > 0 {
		printReport(ctx, analyzer, *reportDays)
		return
	}
	if *strategyTeam != "" {
		printStrategy(ctx, analyzer, *strategyTeam)
		return
	}

	req, err := buildRequest(*input, *demo, *trap, *seed)
	if err != nil {
		slog.Error("failed to build request", "err", err)
		os.Exit(1)
	}

	// Contexto de equipos: solo con datos reales y proveedor habilitado.
	if cfg.Provider.Enabled && !*demo && req.Match.HomeTeam != "" {
		req.Match.Signals = resolveContext(ctx, cfg, req.Match)
	}

	eng := engine.New(cfg.EngineConfig())
	analysis, err := eng.Analyze(ctx, req)
	if err != nil {
		slog.Error("analysis failed", "err", err)
		os.Exit(1)
	}

	notifier := notify.NewConsole(cfg.Output.Table || *table)
	if err := notifier.NotifyAnalysis(ctx, analysis); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if err := store.SaveAnalysis(ctx, analysis, req.Match); err != nil {
		slog.Warn("failed to persist traps", "err", err)
	}
}

// fileRequest es el formato YAML de entrada de un partido.
type fileRequest struct {
	Home    string                        `yaml:"home"`
	Away    string                        `yaml:"away"`
	Date    time.Time                     `yaml:"date"`
	Odds    map[string]map[string]float64 `yaml:"odds"`
	Volumes map[string]map[string]float64 `yaml:"volumes"`
	History map[string][]struct {
		Timestamp time.Time          `yaml:"timestamp"`
		Odds      map[string]float64 `yaml:"odds"`
	} `yaml:"history"`
	AverageOdds map[string]map[string]float64 `yaml:"average_odds"`
}

func buildRequest(input string, demo, trap bool, seed int64) (engine.Request, error) {
	switch {
	case demo && trap:
		return synth.New(seed).TrapMatch("Local", "Visitante"), nil
	case demo:
		return synth.New(seed).Match("Local", "Visitante"), nil
	case input != "":
		return loadRequest(input)
	default:
		return engine.Request{}, fmt.Errorf("nothing to analyze: pass -input or -demo")
	}
}

func loadRequest(path string) (engine.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Request{}, fmt.Errorf("read %q: %w", path, err)
	}

	var fr fileRequest
	if err := yaml.Unmarshal(data, &fr); err != nil {
		return engine.Request{}, fmt.Errorf("parse %q: %w", path, err)
	}

	req := engine.Request{
		Match: domain.MatchContext{
			HomeTeam: fr.Home,
			AwayTeam: fr.Away,
			Date:     fr.Date,
		},
		Odds:    fr.Odds,
		Volumes: fr.Volumes,
		History: make(map[string]domain.OddsHistory, len(fr.History)),
	}
	for market, points := range fr.History {
		h := domain.OddsHistory{AverageOdds: fr.AverageOdds[market]}
		for _, p := range points {
			h.Points = append(h.Points, domain.OddsHistoryPoint{Timestamp: p.Timestamp, Odds: p.Odds})
		}
		req.History[market] = h
	}
	return req, nil
}

// resolveContext construye las señales contextuales; degrada a vacío si
// el proveedor no está disponible.
func resolveContext(ctx context.Context, cfg *config.Config, match domain.MatchContext) domain.ContextSignals {
	providerCache, err := cache.NewSQLiteCache(cfg.Storage.CacheDSN)
	if err != nil {
		slog.Warn("failed to open provider cache, continuing without context", "err", err)
		return domain.ContextSignals{}
	}
	defer providerCache.Close()

	client := transfermarkt.NewClient(cfg.Provider.TransfermarktBase)
	builder := teamdata.NewBuilder(client, providerCache, cfg.CacheTTL())
	return builder.Build(ctx, match.HomeTeam, match.AwayTeam)
}

func printReport(ctx context.Context, analyzer *history.Analyzer, days int) {
	report, err := analyzer.Report(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		slog.Error("report failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Trampas en los últimos %d días: %d (severidad media %.2f)\n",
		days, report.Total, report.AvgSeverity)
	for trapType, count := range report.ByType {
		fmt.Printf("  %-26s %d\n", trapType, count)
	}
	if markets := report.TopMarkets(5); len(markets) > 0 {
		fmt.Printf("Mercados más afectados: %v\n", markets)
	}
	if teams := report.TopTeams(5); len(teams) > 0 {
		fmt.Printf("Equipos más implicados: %v\n", teams)
	}
}

func printStrategy(ctx context.Context, analyzer *history.Analyzer, team string) {
	strategy, err := analyzer.StrategyFor(ctx, team)
	if err != nil {
		slog.Error("strategy failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("%s: riesgo %.2f (%s)\n", strategy.Team, strategy.RiskScore, strategy.Tier)
	fmt.Printf("  %s\n", strategy.Advice)
	if len(strategy.MarketsToAvoid) > 0 {
		fmt.Printf("  Mercados a evitar: %v\n", strategy.MarketsToAvoid)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
