package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid reports a config file whose values fail validation.
var ErrInvalid = errors.New("invalid injectgraph config")

// validate is a singleton validator instance.
var validate = validator.New()

// ProjectConfig holds project-level settings loaded from injectgraph.yml.
// Command-line flags override every field.
type ProjectConfig struct {
	TSConfig    string      `yaml:"tsconfig,omitempty"`
	Format      string      `yaml:"format,omitempty" validate:"omitempty,oneof=json cytoscape mermaid"`
	ExcludeDirs []string    `yaml:"excludeDirs,omitempty" validate:"dive,required"`
	Concurrency int         `yaml:"concurrency,omitempty" validate:"min=0,max=64"`
	Store       string      `yaml:"store,omitempty"`
	Neo4j       Neo4jConfig `yaml:"neo4j,omitempty"`
	MCPAddr     string      `yaml:"mcpAddr,omitempty" validate:"omitempty,hostname_port"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Neo4jConfig locates the Neo4j instance graphs are exported to.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty" validate:"omitempty,uri"`
	User     string `yaml:"user,omitempty" validate:"required_with=Password"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// Load attempts to read injectgraph.yml or injectgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"injectgraph.yml", "injectgraph.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Validate checks field constraints and reports the first violation.
func (c *ProjectConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s], got %v", ErrInvalid, e.Namespace(), e.Param(), e.Value())
	case "min", "max":
		return fmt.Errorf("%w: %s must be between 0 and 64, got %v", ErrInvalid, e.Namespace(), e.Value())
	default:
		return fmt.Errorf("%w: %s failed %q", ErrInvalid, e.Namespace(), e.Tag())
	}
}
