package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/codewithboateng/reactlift/internal/api"
	"github.com/codewithboateng/reactlift/internal/impact"
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/reporting"
	"github.com/codewithboateng/reactlift/internal/rules"
	"github.com/codewithboateng/reactlift/internal/security"
	"github.com/codewithboateng/reactlift/internal/shared"
	"github.com/codewithboateng/reactlift/internal/source"
	"github.com/codewithboateng/reactlift/internal/storage"
	"github.com/codewithboateng/reactlift/internal/watch"
)

var version = "0.4.0"

// Exit codes. Violations at or above the threshold are not errors;
// they get their own code so CI can tell "found problems" apart from
// "could not lint".
const (
	exitClean      = 0
	exitViolations = 1
	exitFatal      = 2
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(exitFatal)
	}
	switch os.Args[1] {
	case "lint":
		os.Exit(lintCmd(os.Args[2:]))
	case "rules":
		os.Exit(rulesCmd(os.Args[2:]))
	case "report":
		os.Exit(reportCmd(os.Args[2:]))
	case "diff":
		os.Exit(diffCmd(os.Args[2:]))
	case "watch":
		os.Exit(watchCmd(os.Args[2:]))
	case "serve":
		os.Exit(serveCmd(os.Args[2:]))
	case "user":
		os.Exit(userCmd(os.Args[2:]))
	case "version":
		fmt.Printf("reactlift %s (ir %s)\n", version, ir.Version)
	default:
		usage()
		os.Exit(exitFatal)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `reactlift – React/Next.js performance linter

Usage:
  reactlift lint   [<path>] [--path <dir>] [--format human|json|sarif|github|html]
                   [--severity-min <level>] [--category <c1,c2>] [--disable <r1,r2>]
                   [--out <dir>] [--db <file>] [--workers N] [--no-save] [--config <file>]
  reactlift rules  [--category <name>] [--format human|json]
  reactlift report --run <id> [--out <dir>] [--db <file>] [--config <file>]
  reactlift diff   --base <id> --head <id> [--out <dir>] [--db <file>] [--config <file>]
  reactlift watch  [<path>] [--path <dir>] [--debounce <dur>] [--severity-min <level>] [--config <file>]
  reactlift serve  [--addr :8417] [--db <file>] [--config <file>]
  reactlift user   --name <username> [--role admin|viewer] [--db <file>]  (password from REACTLIFT_PASSWORD)
  reactlift version
`)
}

func lintCmd(args []string) int {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Root file or directory to lint")
	format := fs.String("format", "human", "Report format: human|json|sarif|github|html")
	sevMin := fs.String("severity-min", "", "Drop violations below this level")
	categories := fs.String("category", "", "Comma-separated category filter")
	disabled := fs.String("disable", "", "Comma-separated rule IDs to skip")
	outDir := fs.String("out", "", "Also write JSON and HTML artifacts here")
	dbPath := fs.String("db", "", "SQLite database path")
	noSave := fs.Bool("no-save", false, "Skip persisting the run (also skips waivers)")
	workers := fs.Int("workers", 0, "Parallel workers (0 = auto)")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lint:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *inPath == "" && fs.NArg() > 0 {
		*inPath = fs.Arg(0)
	}
	if *inPath == "" && len(cfg.Lint.Roots) > 0 {
		*inPath = cfg.Lint.Roots[0]
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "lint: a path argument (or lint.roots in config) is required")
		return exitFatal
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	f, err := reporting.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lint:", err)
		return exitFatal
	}
	engOpts, err := engineOptions(cfg, *sevMin, *categories, *disabled, *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lint:", err)
		return exitFatal
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	scan, err := source.Scan(ctx, *inPath, source.ScanOptions{
		Extensions:  cfg.Lint.Extensions,
		ExcludeDirs: cfg.Lint.ExcludeDirs,
		Workers:     engOpts.Workers,
	})
	if err != nil {
		logger.Error("scan failed", "path", *inPath, "error", err)
		return exitFatal
	}

	reg := rules.BuiltinRegistry(rules.CatalogOptions{
		BarrelPackages: cfg.Lint.BarrelPackages,
		HeavyPackages:  cfg.Lint.HeavyPackages,
	})
	res, err := rules.Evaluate(ctx, reg, scan.Units, engOpts)
	if err != nil {
		logger.Error("matching aborted", "error", err)
		return exitFatal
	}

	run := &ir.Run{
		ID:        uuid.New().String(),
		StartedAt: started.UTC(),
		Root:      scan.Root,
		IRVersion: ir.Version,
		Context: ir.Context{
			SeverityThreshold: engOpts.SeverityMin,
			Categories:        engOpts.Categories,
			DisabledRules:     engOpts.Disabled,
			Workers:           engOpts.Workers,
		},
		Violations: res.Violations,
		Warnings:   append(scan.Warnings, res.Warnings...),
	}

	var db *storage.DB
	if !*noSave {
		db, err = storage.OpenSQLite(*dbPath)
		if err != nil {
			logger.Error("db open failed", "dsn", *dbPath, "error", err)
			return exitFatal
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			logger.Error("db schema failed", "error", err)
			return exitFatal
		}
		waivers, err := db.ListWaivers(true)
		if err != nil {
			logger.Error("list waivers failed", "error", err)
			return exitFatal
		}
		run.Violations, run.Summary.Waived = rules.ApplyWaivers(run.Violations, waivers)
	}

	run.Summarize()
	run.Summary.FilesScanned = len(scan.Units)
	run.Summary.FilesDegraded = scan.Degraded()
	run.Summary.RulesActive = res.RulesActive
	run.Summary.ImpactScore = impact.Score(run.Violations)
	run.Summary.DurationMS = time.Since(started).Milliseconds()

	if db != nil {
		if err := db.SaveRun(run); err != nil {
			logger.Error("save run failed", "error", err)
			return exitFatal
		}
	}

	// Artifacts are opt-in for lint; stdout always gets the report.
	if *outDir != "" {
		jsonPath, err := reporting.WriteJSON(run.ID, *outDir, run)
		if err != nil {
			logger.Error("write json failed", "error", err)
			return exitFatal
		}
		htmlPath, err := reporting.WriteHTML(run.ID, *outDir, run)
		if err != nil {
			logger.Error("write html failed", "error", err)
			return exitFatal
		}
		logger.Info("artifacts written", "json", jsonPath, "html", htmlPath)
	}

	if err := reporting.Render(os.Stdout, run, f); err != nil {
		logger.Error("render failed", "error", err)
		return exitFatal
	}
	logger.Info("lint complete",
		"run", run.ID,
		"files", run.Summary.FilesScanned,
		"violations", run.Summary.Total,
		"waived", run.Summary.Waived,
		"impact", run.Summary.ImpactScore,
		"duration_ms", run.Summary.DurationMS,
	)

	if run.Summary.Total > 0 {
		return exitViolations
	}
	return exitClean
}

func rulesCmd(args []string) int {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	category := fs.String("category", "", "Only rules in this category")
	format := fs.String("format", "human", "Catalog format: human|json")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rules:", err)
		return exitFatal
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	reg := rules.BuiltinRegistry(rules.CatalogOptions{
		BarrelPackages: cfg.Lint.BarrelPackages,
		HeavyPackages:  cfg.Lint.HeavyPackages,
	})
	list := reg.All()
	if *category != "" {
		cat := ir.Category(*category)
		if !cat.Valid() {
			fmt.Fprintf(os.Stderr, "rules: unknown category %q (want one of %v)\n", *category, ir.Categories)
			return exitFatal
		}
		list = reg.ByCategory(cat)
	}

	switch *format {
	case "json":
		type ruleMeta struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			Category   string `json:"category"`
			Severity   string `json:"severity"`
			Suggestion string `json:"suggestion,omitempty"`
		}
		out := make([]ruleMeta, 0, len(list))
		for _, r := range list {
			out = append(out, ruleMeta{
				ID:         r.ID(),
				Title:      r.Title(),
				Category:   string(r.Category()),
				Severity:   string(r.Severity()),
				Suggestion: r.Suggestion(),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, "rules:", err)
			return exitFatal
		}
	case "human":
		for _, r := range list {
			fmt.Printf("%-34s %-18s %-12s %s\n", r.ID(), r.Category(), r.Severity(), r.Title())
		}
		fmt.Printf("\n%d rules\n", len(list))
	default:
		fmt.Fprintf(os.Stderr, "rules: unknown format %q (want human|json)\n", *format)
		return exitFatal
	}
	return exitClean
}

func reportCmd(args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		return exitFatal
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("db open failed", "dsn", *dbPath, "error", err)
		return exitFatal
	}
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		logger.Error("load run failed", "run", *runID, "error", err)
		return exitFatal
	}
	jsonPath, err := reporting.WriteJSON(run.ID, *outDir, &run)
	if err != nil {
		logger.Error("write json failed", "error", err)
		return exitFatal
	}
	htmlPath, err := reporting.WriteHTML(run.ID, *outDir, &run)
	if err != nil {
		logger.Error("write html failed", "error", err)
		return exitFatal
	}
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n", run.ID, jsonPath, htmlPath)
	return exitClean
}

func diffCmd(args []string) int {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	base := fs.String("base", "", "Base run ID")
	head := fs.String("head", "", "Head run ID")
	outDir := fs.String("out", "", "Output directory for the diff artifact")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diff:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *base == "" || *head == "" {
		fmt.Fprintln(os.Stderr, "diff: --base and --head are required")
		return exitFatal
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("db open failed", "dsn", *dbPath, "error", err)
		return exitFatal
	}
	defer db.Close()

	br, err := db.LoadRun(*base)
	if err != nil {
		logger.Error("load base run failed", "run", *base, "error", err)
		return exitFatal
	}
	hr, err := db.LoadRun(*head)
	if err != nil {
		logger.Error("load head run failed", "run", *head, "error", err)
		return exitFatal
	}

	d := reporting.BuildDiff(&br, &hr)
	if err := reporting.RenderDiffText(os.Stdout, d); err != nil {
		logger.Error("render diff failed", "error", err)
		return exitFatal
	}
	path, err := reporting.WriteDiffJSON(*base, *head, *outDir, &br, &hr)
	if err != nil {
		logger.Error("write diff failed", "error", err)
		return exitFatal
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return exitClean
}

func watchCmd(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	inPath := fs.String("path", "", "Root directory to watch")
	debounce := fs.String("debounce", "", "Quiet period before a relint (e.g. 400ms)")
	sevMin := fs.String("severity-min", "", "Drop violations below this level")
	categories := fs.String("category", "", "Comma-separated category filter")
	disabled := fs.String("disable", "", "Comma-separated rule IDs to skip")
	workers := fs.Int("workers", 0, "Parallel workers (0 = auto)")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *inPath == "" && fs.NArg() > 0 {
		*inPath = fs.Arg(0)
	}
	if *inPath == "" && len(cfg.Lint.Roots) > 0 {
		*inPath = cfg.Lint.Roots[0]
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "watch: a path argument (or lint.roots in config) is required")
		return exitFatal
	}

	engOpts, err := engineOptions(cfg, *sevMin, *categories, *disabled, *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, "watch:", err)
		return exitFatal
	}

	dur := cfg.Watch.Debounce
	if *debounce != "" {
		dur = *debounce
	}
	reg := rules.BuiltinRegistry(rules.CatalogOptions{
		BarrelPackages: cfg.Lint.BarrelPackages,
		HeavyPackages:  cfg.Lint.HeavyPackages,
	})
	w := watch.New(*inPath, reg, watch.Options{
		Debounce:  shared.ParseDuration(dur, 400*time.Millisecond),
		CacheSize: cfg.Watch.CacheSize,
		CacheTTL:  shared.ParseDuration(cfg.Watch.CacheTTL, 10*time.Minute),
		Scan: source.ScanOptions{
			Extensions:  cfg.Lint.Extensions,
			ExcludeDirs: cfg.Lint.ExcludeDirs,
			Workers:     engOpts.Workers,
		},
		Engine: engOpts,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch failed", "error", err)
		return exitFatal
	}
	return exitClean
}

func serveCmd(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *addr == "" {
		*addr = cfg.Server.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("db open failed", "dsn", *dbPath, "error", err)
		return exitFatal
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("db schema failed", "error", err)
		return exitFatal
	}

	srv := &api.Server{
		DB:       db,
		Users:    db,
		Registry: rules.BuiltinRegistry(rules.CatalogOptions{BarrelPackages: cfg.Lint.BarrelPackages, HeavyPackages: cfg.Lint.HeavyPackages}),
		Logger:   logger,
		Metrics:  api.NewMetrics(),

		AllowedOrigins: cfg.Server.AllowedOrigins,
		SessionTTL:     shared.ParseDuration(cfg.Server.SessionTTL, 12*time.Hour),
	}
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("serving", "addr", *addr, "db", filepath.Clean(*dbPath))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return exitFatal
		}
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return exitFatal
		}
		logger.Info("server stopped")
	}
	return exitClean
}

// userCmd bootstraps an account for the serve-mode API. The password
// comes from the environment so it never lands in shell history.
func userCmd(args []string) int {
	fs := flag.NewFlagSet("user", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	name := fs.String("name", "", "Username to create")
	role := fs.String("role", "viewer", "Role: admin or viewer")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "user:", err)
		return exitFatal
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "user: --name is required")
		return exitFatal
	}
	if *role != "admin" && *role != "viewer" {
		fmt.Fprintln(os.Stderr, "user: --role must be admin or viewer")
		return exitFatal
	}
	pass := os.Getenv("REACTLIFT_PASSWORD")
	if pass == "" {
		fmt.Fprintln(os.Stderr, "user: set REACTLIFT_PASSWORD to the new account's password")
		return exitFatal
	}

	hash, err := security.HashPassword(pass)
	if err != nil {
		logger.Error("hash password failed", "error", err)
		return exitFatal
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("db open failed", "dsn", *dbPath, "error", err)
		return exitFatal
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		logger.Error("db schema failed", "error", err)
		return exitFatal
	}

	id, err := db.CreateUser(*name, hash, *role)
	if err != nil {
		logger.Error("create user failed", "user", *name, "error", err)
		return exitFatal
	}
	fmt.Printf("User OK\n  ID: %d\n  Name: %s\n  Role: %s\n", id, *name, *role)
	return exitClean
}

// engineOptions folds config and flag values into engine options;
// flag values win when set.
func engineOptions(cfg shared.Config, sevMin, categories, disabled string, workers int) (rules.Options, error) {
	opts := rules.Options{Workers: workers}
	if opts.Workers == 0 {
		opts.Workers = cfg.Lint.Workers
	}

	level := sevMin
	if level == "" {
		level = cfg.Lint.SeverityMin
	}
	if level != "" {
		sev, ok := ir.ParseSeverity(level)
		if !ok {
			return opts, fmt.Errorf("unknown severity %q (want one of %v)", level, ir.Severities)
		}
		opts.SeverityMin = sev
	}

	if categories != "" {
		for _, c := range splitList(categories) {
			cat := ir.Category(c)
			if !cat.Valid() {
				return opts, fmt.Errorf("unknown category %q (want one of %v)", c, ir.Categories)
			}
			opts.Categories = append(opts.Categories, cat)
		}
	}

	opts.Disabled = cfg.Lint.DisabledRules
	if disabled != "" {
		opts.Disabled = splitList(disabled)
	}

	for id, level := range cfg.Lint.SeverityOverrides {
		sev, ok := ir.ParseSeverity(level)
		if !ok {
			return opts, fmt.Errorf("severity_overrides[%s]: unknown severity %q", id, level)
		}
		if opts.SeverityOverrides == nil {
			opts.SeverityOverrides = make(map[string]ir.Severity)
		}
		opts.SeverityOverrides[strings.ToLower(id)] = sev
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
