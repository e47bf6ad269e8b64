package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"chatvault/internal/logging"
	"chatvault/internal/migrate"
	"chatvault/internal/paths"
)

// Config is the resolved application configuration: factory defaults layered
// with whatever the user file supplied, plus the canonical path set. It is
// constructed once at startup and handed to whoever needs it; there is no
// package-level instance.
type Config struct {
	Paths    paths.PathSet
	Settings Settings

	// FileExisted records whether the config file was present at load time,
	// distinguishing first run from an override load.
	FileExisted bool

	raw map[string]any
}

// Load resolves the configuration for the given application root.
//
// Defaults are cloned, the user file (when present and parseable) is merged
// section by section, a missing file is created from defaults, the required
// runtime directories are created, and legacy data locations are relocated.
// Only directory creation is fatal; every file problem degrades to defaults
// with a logged warning.
func Load(appRoot string, logger *slog.Logger) (*Config, error) {
	log := logging.NewComponentLogger(logger, "config")
	ps := paths.NewPathSet(appRoot)

	raw := Clone(Defaults())
	raw[SectionPaths] = ps.AsMap()

	cfg := &Config{Paths: ps, raw: raw}

	// Only a confirmed-absent file triggers the first-run write. Any other
	// read failure (permissions, I/O, symlink loops) leaves whatever sits at
	// the config path alone.
	fileAbsent := false
	data, err := os.ReadFile(ps.ConfigFile)
	switch {
	case err == nil:
		cfg.FileExisted = true
		mergeUserFile(raw, data, ps.ConfigFile, log)
	case errors.Is(err, fs.ErrNotExist):
		fileAbsent = true
		log.Info("config file absent, writing defaults", logging.String("path", ps.ConfigFile))
	default:
		log.Warn("config file unreadable, using defaults",
			logging.String("path", ps.ConfigFile),
			logging.Error(err),
		)
	}

	cfg.Settings = decodeSettings(raw, log)

	if fileAbsent {
		if err := cfg.Save(); err != nil {
			log.Warn("unable to write initial config file",
				logging.String("path", ps.ConfigFile),
				logging.Error(err),
			)
		}
	}

	for _, dir := range []string{ps.CacheDir, ps.WebViewDataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create required directory %q: %w", dir, err)
		}
	}

	// Relocation is filesystem-only; the in-memory configuration is already
	// resolved at this point.
	migrate.Run(appRoot, ps, logger)

	return cfg, nil
}

// mergeUserFile layers the parseable editable sections of the user file onto
// the working configuration. A file that fails to parse leaves the working
// configuration untouched and the file itself on disk unmodified.
func mergeUserFile(raw map[string]any, data []byte, path string, log *slog.Logger) {
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Warn("config file unparseable, using defaults",
			logging.String("path", path),
			logging.Error(err),
		)
		return
	}
	for _, section := range EditableSections {
		userSection, ok := parsed[section].(map[string]any)
		if !ok {
			continue
		}
		base, _ := raw[section].(map[string]any)
		raw[section] = Merge(base, userSection)
	}
}

// Save serializes the four editable sections to the config file, overwriting
// it. The Paths section and unknown sections are never written. The write
// goes through a temp file in the same directory followed by a rename.
func (c *Config) Save() error {
	out := make(map[string]any, len(EditableSections))
	for _, section := range EditableSections {
		if value, ok := c.raw[section]; ok {
			out[section] = value
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(c.Paths.ConfigFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpPath, c.Paths.ConfigFile); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// SaveConfig persists cfg and downgrades any failure to a logged warning; the
// in-memory configuration stays valid regardless of persistence success.
func SaveConfig(cfg *Config, logger *slog.Logger) {
	if err := cfg.Save(); err != nil {
		logging.NewComponentLogger(logger, "config").Warn("config save failed",
			logging.String("path", cfg.Paths.ConfigFile),
			logging.Error(err),
		)
	}
}

// Value resolves a dot-separated key path (for example "UI.SidebarWidth")
// against the loaded configuration, descending one segment at a time. The
// second return is false when any segment is absent or an intermediate value
// is not itself a mapping. It never panics; callers fall back themselves.
func (c *Config) Value(dotted string) (any, bool) {
	dotted = strings.TrimSpace(dotted)
	if dotted == "" {
		return nil, false
	}
	var current any = c.raw
	for _, segment := range strings.Split(dotted, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Sections returns a deep copy of the editable sections, primarily for
// diagnostic rendering. Mutating the copy does not affect the configuration.
func (c *Config) Sections() map[string]any {
	out := make(map[string]any, len(EditableSections))
	for _, section := range EditableSections {
		if value, ok := c.raw[section].(map[string]any); ok {
			out[section] = Clone(value)
		}
	}
	return out
}
