// Package watch relints a source tree as it changes. A recursive
// fsnotify watcher feeds a debounce timer; each quiet period triggers
// a pass that re-reads only files whose size or mtime moved and prints
// what changed since the previous pass.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/codewithboateng/reactlift/internal/impact"
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/reporting"
	"github.com/codewithboateng/reactlift/internal/rules"
	"github.com/codewithboateng/reactlift/internal/source"
)

const (
	defaultDebounce  = 400 * time.Millisecond
	defaultCacheSize = 2048
	defaultCacheTTL  = 10 * time.Minute
)

// Options configure a watch session. Zero values fall back to the
// defaults above.
type Options struct {
	Debounce  time.Duration // quiet period before a pass fires
	CacheSize int           // max cached units
	CacheTTL  time.Duration // cached unit lifetime
	Scan      source.ScanOptions
	Engine    rules.Options
	Logger    *slog.Logger
	Out       io.Writer // report and delta output; defaults to os.Stdout
}

// Watcher owns the fsnotify loop and the unit cache for one root.
type Watcher struct {
	root   string
	reg    *rules.Registry
	opts   Options
	cache  *lru.LRU[string, *source.Unit]
	logger *slog.Logger
	out    io.Writer
	prev   *ir.Run
	passes int
}

// New prepares a watcher over root. Run starts it.
func New(root string, reg *rules.Registry, opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Watcher{
		root:   filepath.Clean(root),
		reg:    reg,
		opts:   opts,
		cache:  lru.NewLRU[string, *source.Unit](opts.CacheSize, nil, opts.CacheTTL),
		logger: logger,
		out:    out,
	}
}

// Run lints the tree once, then relints after every quiet period until
// ctx is cancelled. The first pass prints a full report; later passes
// print only the delta against the previous pass.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addDirs(fw); err != nil {
		return err
	}

	if err := w.pass(ctx); err != nil {
		return err
	}

	debounce := time.NewTimer(w.opts.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// New directories join the watch so files created inside
			// them keep triggering passes.
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if !w.opts.Scan.SkipDir(filepath.Base(ev.Name)) {
						if err := fw.Add(ev.Name); err != nil {
							w.logger.Warn("watch new directory", "path", ev.Name, "error", err)
						}
						debounce.Reset(w.opts.Debounce)
					}
					continue
				}
			}
			if !w.opts.Scan.Matches(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			debounce.Reset(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-debounce.C:
			if err := w.pass(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				w.logger.Error("relint failed", "error", err)
			}
		}
	}
}

// addDirs registers root and every non-excluded directory below it.
func (w *Watcher) addDirs(fw *fsnotify.Watcher) error {
	info, err := os.Stat(w.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", source.ErrPathNotFound, w.root)
		}
		return fmt.Errorf("stat %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fw.Add(filepath.Dir(w.root))
	}
	return filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("watch skip", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.opts.Scan.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
}

// pass relints the tree, reusing lexed units for files whose size and
// mtime are unchanged.
func (w *Watcher) pass(ctx context.Context) error {
	started := time.Now()

	cands, warnings, err := source.Candidates(ctx, w.root, w.opts.Scan)
	if err != nil {
		return err
	}

	units := make([]*source.Unit, 0, len(cands))
	reused := 0
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return err
		}
		fi, err := os.Stat(c.Abs)
		if err != nil {
			warnings = append(warnings, ir.Warning{Kind: ir.WarnUnreadableFile, Path: c.Rel, Message: err.Error()})
			continue
		}
		key := fmt.Sprintf("%s|%d|%d", c.Rel, fi.ModTime().UnixNano(), fi.Size())
		if u, ok := w.cache.Get(key); ok {
			units = append(units, u)
			reused++
			continue
		}
		data, err := os.ReadFile(c.Abs)
		if err != nil {
			warnings = append(warnings, ir.Warning{Kind: ir.WarnUnreadableFile, Path: c.Rel, Message: err.Error()})
			continue
		}
		u := source.NewUnit(c.Rel, string(data))
		w.cache.Add(key, u)
		units = append(units, u)
	}

	res, err := rules.Evaluate(ctx, w.reg, units, w.opts.Engine)
	if err != nil {
		return err
	}

	run := &ir.Run{
		ID:        uuid.New().String(),
		StartedAt: started.UTC(),
		Root:      w.root,
		IRVersion: ir.Version,
		Context: ir.Context{
			SeverityThreshold: w.opts.Engine.SeverityMin,
			Categories:        w.opts.Engine.Categories,
			DisabledRules:     w.opts.Engine.Disabled,
			Workers:           w.opts.Engine.Workers,
		},
		Violations: res.Violations,
		Warnings:   append(warnings, res.Warnings...),
	}
	run.Summarize()
	run.Summary.FilesScanned = len(units)
	for _, u := range units {
		if !u.Parsed {
			run.Summary.FilesDegraded++
		}
	}
	run.Summary.RulesActive = res.RulesActive
	run.Summary.ImpactScore = impact.Score(run.Violations)
	run.Summary.DurationMS = time.Since(started).Milliseconds()

	w.passes++
	w.report(run, reused)
	w.prev = run
	return nil
}

// report prints the full human report on the first pass and a delta
// line on every later one.
func (w *Watcher) report(run *ir.Run, reused int) {
	stamp := time.Now().Format("15:04:05")
	if w.prev == nil {
		fmt.Fprintf(w.out, "[%s] watching %s (%d files, %d rules)\n\n", stamp, w.root, run.Summary.FilesScanned, run.Summary.RulesActive)
		if err := reporting.Render(w.out, run, reporting.FormatHuman); err != nil {
			w.logger.Error("render report", "error", err)
		}
		return
	}

	d := reporting.BuildDiff(w.prev, run)
	fmt.Fprintf(w.out, "[%s] %d files (%d cached): %d violations, impact %.1f (%+.1f)\n",
		stamp, run.Summary.FilesScanned, reused, run.Summary.Total, run.Summary.ImpactScore, d.Summary.ImpactDelta)
	for _, e := range d.New {
		fmt.Fprintf(w.out, "  + %s:%d [%s] %s\n", e.Path, e.Line, e.RuleID, e.Message)
	}
	for _, e := range d.Resolved {
		fmt.Fprintf(w.out, "  - %s:%d [%s] %s\n", e.Path, e.Line, e.RuleID, e.Message)
	}
}

// Passes reports how many lint passes have completed.
func (w *Watcher) Passes() int { return w.passes }

// Last returns the most recent pass, or nil before the first one.
func (w *Watcher) Last() *ir.Run { return w.prev }
