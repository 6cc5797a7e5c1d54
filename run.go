package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/heshanpadmasiri/csvb/convert"
	"github.com/heshanpadmasiri/csvb/csharp"
	"github.com/heshanpadmasiri/csvb/diagnostics"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

// sourceFile is a file to convert. rel is its path below the argument it
// was found through, used to place the output.
type sourceFile struct {
	path string
	rel  string
}

// converted is the outcome of one file.
type converted struct {
	file        sourceFile
	text        string
	diagnostics []diagnostics.Diagnostic
}

type runner struct {
	cfg    config
	log    *zap.Logger
	out    string
	diff   bool
	stdout io.Writer
	stderr io.Writer
}

var errDiagnostics = errors.New("conversion reported errors")

func (r *runner) run(ctx context.Context, args []string) error {
	files, err := discover(args, r.cfg.Include, r.cfg.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.log.Warn("no source files found", zap.Strings("paths", args))
		return nil
	}
	results, err := r.convertAll(ctx, files)
	if err != nil {
		return err
	}

	failed := false
	for _, res := range results {
		for _, d := range res.diagnostics {
			fmt.Fprintln(r.stderr, d.String())
		}
		failed = failed || diagnostics.HasErrors(res.diagnostics)
		if err := r.emit(res, len(results) > 1); err != nil {
			return err
		}
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// convertAll converts files in parallel. Each file gets its own unit and
// model, so nothing is shared between the goroutines.
func (r *runner) convertAll(ctx context.Context, files []sourceFile) ([]*converted, error) {
	results := make([]*converted, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.cfg.Jobs, 1))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := convertFile(file, r.cfg, r.log)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func convertFile(file sourceFile, cfg config, log *zap.Logger) (*converted, error) {
	source, err := os.ReadFile(file.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.path, err)
	}
	log = log.With(zap.String("file", file.path))
	unit, err := csharp.Load(source, log)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.path, err)
	}
	opts := cfg.options(file.path)
	opts.Logger = log
	result, err := convert.ConvertUnit(unit.Syntax, unit.Model, opts)
	if err != nil {
		return nil, err
	}
	diags := result.Diagnostics
	if unit.SyntaxErrors > 0 {
		syntax := diagnostics.Diagnostic{
			File:     file.path,
			Severity: diagnostics.Warning,
			Message:  fmt.Sprintf("parser recovered from %d syntax errors", unit.SyntaxErrors),
		}
		syntax.Location.StartLine, syntax.Location.StartCol = 1, 1
		diags = append([]diagnostics.Diagnostic{syntax}, diags...)
	}
	return &converted{file: file, text: vbsrc.Render(result.Unit), diagnostics: diags}, nil
}

// target is where the converted file goes: below --out when set, otherwise
// next to the source.
func (r *runner) target(file sourceFile) string {
	if r.out == "" {
		return strings.TrimSuffix(file.path, filepath.Ext(file.path)) + ".vb"
	}
	return filepath.Join(r.out, strings.TrimSuffix(file.rel, filepath.Ext(file.rel))+".vb")
}

func (r *runner) emit(res *converted, many bool) error {
	target := r.target(res.file)
	switch {
	case r.diff:
		existing, err := os.ReadFile(target)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", target, err)
		}
		text, err := unifiedDiff(string(existing), res.text, target)
		if err != nil {
			return err
		}
		_, err = io.WriteString(r.stdout, text)
		return err
	case r.out != "":
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		r.log.Info("writing", zap.String("target", target))
		return os.WriteFile(target, []byte(res.text), 0o644)
	default:
		if many {
			fmt.Fprintf(r.stdout, "' %s\n", res.file.path)
		}
		_, err := io.WriteString(r.stdout, res.text)
		return err
	}
}

// unifiedDiff compares the existing target with the converted text. Equal
// inputs give an empty diff.
func unifiedDiff(existing, converted, name string) (string, error) {
	if existing == converted {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(converted),
		FromFile: name,
		ToFile:   name + " (converted)",
		Context:  3,
	})
}

// discover expands the arguments into source files. Files named directly
// are always taken; directories are walked and filtered by the globs,
// which match paths relative to the directory.
func discover(args, include, exclude []string) ([]sourceFile, error) {
	var files []sourceFile
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, sourceFile{path: arg, rel: filepath.Base(arg)})
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if rel != "." && matchAny(exclude, rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}
			if matchAny(include, rel) && !matchAny(exclude, rel) {
				files = append(files, sourceFile{path: path, rel: rel})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// matchAny reports whether path matches one of the patterns, trying the
// base name for patterns without a separator.
func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, filepath.Base(strings.TrimSuffix(path, "/"))); err == nil && matched {
				return true
			}
		}
	}
	return false
}
