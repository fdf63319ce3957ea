package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultTSConfig is the project configuration file looked up at the root.
const DefaultTSConfig = "tsconfig.json"

// Options tunes how a Provider selects and parses files.
type Options struct {
	// TSConfig is the configuration file name relative to the root.
	// Defaults to DefaultTSConfig.
	TSConfig string
	// ExcludeDirs are directory names skipped during the walk in addition
	// to .git and node_modules.
	ExcludeDirs []string
	// Concurrency bounds parallel parsing. Zero means GOMAXPROCS.
	Concurrency int
}

// Provider is the source model provider: it loads a project's tsconfig,
// selects the files it covers and parses them into a Project.
type Provider struct {
	parser Parser
	logger *slog.Logger
	opts   Options
}

// NewProvider returns a Provider using parser. A nil logger discards output.
func NewProvider(parser Parser, logger *slog.Logger, opts Options) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.TSConfig == "" {
		opts.TSConfig = DefaultTSConfig
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	return &Provider{parser: parser, logger: logger, opts: opts}
}

// Load parses every file selected by root's tsconfig. A missing or malformed
// tsconfig is returned as a *ConfigError. Files that cannot be read are
// logged and skipped; files with syntax errors are kept with their broken
// declarations left out.
func (p *Provider) Load(ctx context.Context, root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	configPath := filepath.Join(abs, p.opts.TSConfig)
	cfg, err := LoadTSConfig(abs, configPath)
	if err != nil {
		return nil, err
	}

	files, err := p.selectFiles(abs, cfg)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("selected source files", "root", abs, "files", len(files))

	units := make([]*Unit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unit, err := p.parseFile(gctx, abs, rel)
			if err != nil {
				p.logger.Warn("skipping source file", "path", rel, "error", err)
				return nil
			}
			if unit.HasErrors {
				p.logger.Debug("source file has syntax errors", "path", rel, "skipped_decls", len(unit.Skipped))
			}
			units[i] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	project := &Project{Root: abs, TSConfig: configPath}
	for _, u := range units {
		if u != nil {
			project.Units = append(project.Units, *u)
		}
	}
	ResolveTypes(project)
	return project, nil
}

func (p *Provider) parseFile(ctx context.Context, root, rel string) (*Unit, error) {
	lang, ok := LanguageForPath(rel)
	if !ok {
		return nil, fmt.Errorf("no grammar for %s", rel)
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	return p.parser.Parse(ctx, rel, data, lang)
}

// selectFiles walks root and returns the repo-relative, slash-separated paths
// of TypeScript files selected by cfg, sorted.
func (p *Provider) selectFiles(root string, cfg *TSConfig) ([]string, error) {
	include, err := compileInclude(cfg.Include)
	if err != nil {
		return nil, &ConfigError{Path: cfg.Path, Err: err}
	}
	exclude, err := compileExclude(cfg.Exclude)
	if err != nil {
		return nil, &ConfigError{Path: cfg.Path, Err: err}
	}

	explicit := make(map[string]bool, len(cfg.Files))
	for _, f := range cfg.Files {
		explicit[f] = true
	}

	skipDirs := map[string]bool{".git": true, "node_modules": true}
	for _, d := range p.opts.ExcludeDirs {
		skipDirs[d] = true
	}

	seen := make(map[string]bool)
	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := LanguageForPath(path); !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		selected := explicit[rel] || (include.Match(rel) && !exclude.Match(rel))
		if selected && !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, fs.ErrNotExist) {
			return nil, &ConfigError{Path: cfg.Path, Err: ErrConfigNotFound}
		}
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}
