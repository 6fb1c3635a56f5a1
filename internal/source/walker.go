package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// ErrPathNotFound aborts a scan when the root itself is missing.
// Everything below the root degrades to per-file warnings instead.
var ErrPathNotFound = errors.New("path not found")

// DefaultExtensions are the file types considered source units.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{
	"node_modules", ".git", ".next", ".turbo", ".vercel",
	"dist", "build", "out", "coverage", "storybook-static",
}

type ScanOptions struct {
	Extensions  []string
	ExcludeDirs []string
	Workers     int
}

func (o ScanOptions) withDefaults() ScanOptions {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if len(o.ExcludeDirs) == 0 {
		o.ExcludeDirs = DefaultExcludeDirs
	}
	if o.Workers <= 0 {
		o.Workers = min(runtime.GOMAXPROCS(0), 8)
	}
	return o
}

// ScanResult carries the prepared units in walk order plus the
// recoverable trouble met along the way.
type ScanResult struct {
	Root     string
	Units    []*Unit
	Warnings []ir.Warning
}

// Degraded counts units that fell back to plain-text matching.
func (r *ScanResult) Degraded() int {
	n := 0
	for _, u := range r.Units {
		if !u.Parsed {
			n++
		}
	}
	return n
}

// Candidate is one file the walker selected, before reading.
type Candidate struct {
	Abs string
	Rel string
}

// Candidates enumerates the files a scan would read, in lexicographic
// rel-path order, without touching their contents. Unreadable tree
// entries become warnings; a missing root or a cancelled context is
// fatal.
func Candidates(ctx context.Context, root string, opts ScanOptions) ([]Candidate, []ir.Warning, error) {
	opts = opts.withDefaults()
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", root, err)
	}

	var files []Candidate
	var warnings []ir.Warning

	if !info.IsDir() {
		if matchesExt(root, opts.Extensions) {
			files = append(files, Candidate{Abs: root, Rel: filepath.Base(root)})
		}
		return files, nil, nil
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			warnings = append(warnings, ir.Warning{
				Kind:    ir.WarnUnreadableFile,
				Path:    relPath(root, p),
				Message: err.Error(),
			})
			return nil
		}
		if d.IsDir() {
			if p != root && excluded(d.Name(), opts.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesExt(p, opts.Extensions) {
			return nil
		}
		files = append(files, Candidate{Abs: p, Rel: relPath(root, p)})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, warnings, nil
}

// Scan enumerates, reads and lexes every candidate unit under root.
// Unit order is lexicographic by relative path so repeated runs over
// the same tree produce identical output. Files are read and lexed in
// parallel; results are placed by index, which keeps the emitted order
// independent of goroutine scheduling. Unreadable files become
// warnings; a missing root or a cancelled context is fatal.
func Scan(ctx context.Context, root string, opts ScanOptions) (*ScanResult, error) {
	opts = opts.withDefaults()
	root = filepath.Clean(root)

	files, warnings, err := Candidates(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	res := &ScanResult{Root: root, Warnings: warnings}

	units := make([]*Unit, len(files))
	warns := make([]*ir.Warning, len(files))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.Abs)
			if err != nil {
				warns[i] = &ir.Warning{
					Kind:    ir.WarnUnreadableFile,
					Path:    f.Rel,
					Message: err.Error(),
				}
				return nil
			}
			units[i] = NewUnit(f.Rel, string(data))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i := range files {
		if warns[i] != nil {
			res.Warnings = append(res.Warnings, *warns[i])
		}
		if units[i] != nil {
			res.Units = append(res.Units, units[i])
		}
	}
	return res, nil
}

// Matches reports whether a path clears the extension allow-list.
func (o ScanOptions) Matches(path string) bool {
	o = o.withDefaults()
	return matchesExt(path, o.Extensions)
}

// SkipDir reports whether a directory name is never descended into.
func (o ScanOptions) SkipDir(name string) bool {
	o = o.withDefaults()
	return excluded(name, o.ExcludeDirs)
}

func matchesExt(p string, exts []string) bool {
	name := strings.ToLower(filepath.Base(p))
	if strings.HasSuffix(name, ".d.ts") || strings.HasSuffix(name, ".d.mts") {
		return false
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func excluded(name string, dirs []string) bool {
	for _, d := range dirs {
		if name == d {
			return true
		}
	}
	return false
}

func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}
