package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	// ErrConfigNotFound reports a tsconfig that does not exist.
	ErrConfigNotFound = errors.New("project configuration not found")
	// ErrConfigInvalid reports a tsconfig that cannot be parsed.
	ErrConfigInvalid = errors.New("project configuration invalid")
)

// ConfigError is a hard failure locating or parsing project configuration.
// No partial analysis is performed when one is returned.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tsconfig %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// maxExtendsDepth bounds "extends" chains so a cycle cannot recurse forever.
const maxExtendsDepth = 8

// defaultExcludes mirror the TypeScript compiler's defaults when a config sets
// no "exclude".
var defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

// TSConfig is the file selection of a tsconfig.json with "extends" applied.
// Patterns are slash separated and relative to the project root.
type TSConfig struct {
	Path    string
	Files   []string
	Include []string
	Exclude []string
}

// tsconfigFile is the subset of tsconfig.json the provider reads.
type tsconfigFile struct {
	Extends         string    `json:"extends"`
	Files           *[]string `json:"files"`
	Include         *[]string `json:"include"`
	Exclude         *[]string `json:"exclude"`
	CompilerOptions struct {
		OutDir string `json:"outDir"`
	} `json:"compilerOptions"`
}

// LoadTSConfig reads the tsconfig at configPath. root is the project root the
// resulting patterns are made relative to.
func LoadTSConfig(root, configPath string) (*TSConfig, error) {
	raw, err := loadTSConfigChain(root, configPath, 0)
	if err != nil {
		return nil, err
	}

	cfg := &TSConfig{Path: configPath}
	if raw.files != nil {
		cfg.Files = *raw.files
	}
	switch {
	case raw.include != nil:
		cfg.Include = *raw.include
	case raw.files == nil:
		cfg.Include = []string{"**/*"}
	}
	if raw.exclude != nil {
		cfg.Exclude = *raw.exclude
	} else {
		cfg.Exclude = append([]string(nil), defaultExcludes...)
		if raw.outDir != "" {
			cfg.Exclude = append(cfg.Exclude, raw.outDir)
		}
	}
	return cfg, nil
}

// mergedConfig carries fields already rebased onto the project root.
type mergedConfig struct {
	files   *[]string
	include *[]string
	exclude *[]string
	outDir  string
}

func loadTSConfigChain(root, configPath string, depth int) (*mergedConfig, error) {
	if depth > maxExtendsDepth {
		return nil, &ConfigError{Path: configPath, Err: fmt.Errorf("%w: extends chain deeper than %d", ErrConfigInvalid, maxExtendsDepth)}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Path: configPath, Err: ErrConfigNotFound}
		}
		return nil, &ConfigError{Path: configPath, Err: fmt.Errorf("%w: %v", ErrConfigNotFound, err)}
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ConfigError{Path: configPath, Err: fmt.Errorf("%w: %v", ErrConfigInvalid, err)}
	}
	var file tsconfigFile
	if err := json.Unmarshal(std, &file); err != nil {
		return nil, &ConfigError{Path: configPath, Err: fmt.Errorf("%w: %v", ErrConfigInvalid, err)}
	}

	merged := &mergedConfig{}
	if file.Extends != "" {
		parentPath := resolveExtends(root, filepath.Dir(configPath), file.Extends)
		parent, err := loadTSConfigChain(root, parentPath, depth+1)
		if err != nil {
			return nil, err
		}
		merged = parent
	}

	dir := filepath.Dir(configPath)
	if file.Files != nil {
		merged.files = rebase(root, dir, *file.Files)
	}
	if file.Include != nil {
		merged.include = rebase(root, dir, *file.Include)
	}
	if file.Exclude != nil {
		merged.exclude = rebase(root, dir, *file.Exclude)
	}
	if file.CompilerOptions.OutDir != "" {
		out := rebase(root, dir, []string{file.CompilerOptions.OutDir})
		merged.outDir = (*out)[0]
	}
	return merged, nil
}

// resolveExtends locates the file an "extends" value points at. Relative and
// absolute values are file paths; anything else is looked up in the project's
// node_modules.
func resolveExtends(root, dir, ext string) string {
	var p string
	switch {
	case filepath.IsAbs(ext):
		p = ext
	case strings.HasPrefix(ext, "./") || strings.HasPrefix(ext, "../"):
		p = filepath.Join(dir, ext)
	default:
		p = filepath.Join(root, "node_modules", filepath.FromSlash(ext))
	}
	if filepath.Ext(p) != ".json" {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return filepath.Join(p, "tsconfig.json")
		}
		p += ".json"
	}
	return p
}

// rebase rewrites patterns declared in dir so they are relative to root.
func rebase(root, dir string, patterns []string) *[]string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		abs := p
		if !filepath.IsAbs(p) {
			abs = filepath.Join(dir, filepath.FromSlash(p))
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = abs
		}
		out = append(out, path.Clean(filepath.ToSlash(rel)))
	}
	return &out
}
