// Package project loads and validates tern.toml, the unit manifest that
// tells the driver which front-end units to check and with what limits.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"tern/internal/diag"
	"tern/internal/source"
)

// Config is the parsed shape of tern.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Units   []UnitConfig  `toml:"unit"`
	Check   CheckConfig   `toml:"check"`
	Target  TargetConfig  `toml:"target"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// UnitConfig names one front-end unit file.
type UnitConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"` // relative to the manifest root
}

type CheckConfig struct {
	// KindDepth is the recursion budget for kind evaluation.
	KindDepth int `toml:"kind_depth"`
	// MaxDiagnostics caps the per-unit diagnostic bag.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type TargetConfig struct {
	Triple       string `toml:"triple"`
	PointerSize  int    `toml:"pointer_size"`
	PointerAlign int    `toml:"pointer_align"`
}

// Manifest is a loaded tern.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// FindTernToml walks up from startDir to locate tern.toml.
func FindTernToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "tern.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path and applies defaults.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := validateShape(path, &cfg, meta); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func validateShape(path string, cfg *Config, meta toml.MetaData) error {
	if !meta.IsDefined("package") {
		return fmt.Errorf("%s: missing [package]", path)
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return fmt.Errorf("%s: missing [package].name", path)
	}
	if len(cfg.Units) == 0 {
		return fmt.Errorf("%s: no [[unit]] entries", path)
	}
	for i, u := range cfg.Units {
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("%s: unit %d has no name", path, i)
		}
		if strings.TrimSpace(u.Path) == "" {
			return fmt.Errorf("%s: unit %s has no path", path, u.Name)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Check.KindDepth <= 0 {
		cfg.Check.KindDepth = 64
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = 100
	}
	if cfg.Target.Triple == "" {
		cfg.Target.Triple = "x86_64-linux-gnu"
	}
	if cfg.Target.PointerSize <= 0 {
		cfg.Target.PointerSize = 8
	}
	if cfg.Target.PointerAlign <= 0 {
		cfg.Target.PointerAlign = cfg.Target.PointerSize
	}
}

// UnitPath resolves a unit's file path against the manifest root.
func (m *Manifest) UnitPath(u UnitConfig) string {
	return filepath.Join(m.Root, filepath.FromSlash(u.Path))
}

// Validate checks the unit list against the filesystem and reports problems
// as project diagnostics: duplicate unit names and unit files that do not
// exist.
func (m *Manifest) Validate(bag *diag.Bag) {
	seen := make(map[string]bool, len(m.Config.Units))
	for _, u := range m.Config.Units {
		if seen[u.Name] {
			bag.Add(diag.NewError(diag.PrjDuplicateUnit, source.Span{},
				fmt.Sprintf("unit %s is listed twice in %s", u.Name, m.Path)))
			continue
		}
		seen[u.Name] = true
		if _, err := os.Stat(m.UnitPath(u)); err != nil {
			bag.Add(diag.NewError(diag.PrjMissingUnit, source.Span{},
				fmt.Sprintf("unit %s: %s does not exist", u.Name, m.UnitPath(u))))
		}
	}
}
