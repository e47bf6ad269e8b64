package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"chatvault/internal/config"
	"chatvault/internal/logging"
	"chatvault/internal/paths"
)

func load(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg, err := config.Load(root, logging.NewNop())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return cfg
}

func TestDefaultsAndTypedDefaultsAgree(t *testing.T) {
	raw, err := json.Marshal(config.Defaults())
	if err != nil {
		t.Fatalf("marshal raw defaults: %v", err)
	}
	typed, err := json.Marshal(config.DefaultSettings())
	if err != nil {
		t.Fatalf("marshal typed defaults: %v", err)
	}

	var rawMap, typedMap map[string]any
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if err := json.Unmarshal(typed, &typedMap); err != nil {
		t.Fatalf("unmarshal typed: %v", err)
	}
	for section, keys := range rawMap {
		typedSection, ok := typedMap[section].(map[string]any)
		if !ok {
			t.Fatalf("typed defaults missing section %q", section)
		}
		for key, value := range keys.(map[string]any) {
			if typedSection[key] != value {
				t.Fatalf("default mismatch for %s.%s: raw %v typed %v", section, key, value, typedSection[key])
			}
		}
	}
}

func TestLoadFirstRunCreatesConfigFile(t *testing.T) {
	root := t.TempDir()
	cfg := load(t, root)

	if cfg.FileExisted {
		t.Fatal("first run should report no existing config file")
	}
	data, err := os.ReadFile(cfg.Paths.ConfigFile)
	if err != nil {
		t.Fatalf("config file should have been created: %v", err)
	}

	var written map[string]any
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("created config file is not valid JSON: %v", err)
	}
	for _, section := range config.EditableSections {
		if _, ok := written[section]; !ok {
			t.Fatalf("created config file missing section %q", section)
		}
	}
	if _, ok := written[config.SectionPaths]; ok {
		t.Fatal("Paths section must never be persisted")
	}

	// Required runtime directories exist after load.
	for _, dir := range []string{cfg.Paths.CacheDir, cfg.Paths.WebViewDataDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q after load: %v", dir, err)
		}
	}
}

func TestLoadRoundTripsEditableSections(t *testing.T) {
	root := t.TempDir()
	first := load(t, root)

	second := load(t, root)
	if !second.FileExisted {
		t.Fatal("second load should see the created config file")
	}
	if first.Settings != second.Settings {
		t.Fatalf("settings changed across round trip:\nfirst:  %+v\nsecond: %+v", first.Settings, second.Settings)
	}
}

func TestLoadMergesPartialUserFile(t *testing.T) {
	root := t.TempDir()
	ps := paths.NewPathSet(root)
	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(ps.ConfigFile, []byte(`{"UI": {"Theme": "light"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := load(t, root)
	if cfg.Settings.UI.Theme != "light" {
		t.Fatalf("expected overridden theme, got %q", cfg.Settings.UI.Theme)
	}

	defaults := config.DefaultSettings()
	if cfg.Settings.UI.SidebarWidth != defaults.UI.SidebarWidth {
		t.Fatalf("untouched UI key should keep default, got %d", cfg.Settings.UI.SidebarWidth)
	}
	if cfg.Settings.Api != defaults.Api {
		t.Fatalf("Api section should be all defaults, got %+v", cfg.Settings.Api)
	}
	if cfg.Settings.Cache != defaults.Cache {
		t.Fatalf("Cache section should be all defaults, got %+v", cfg.Settings.Cache)
	}
	if cfg.Settings.Export != defaults.Export {
		t.Fatalf("Export section should be all defaults, got %+v", cfg.Settings.Export)
	}
}

func TestLoadMalformedFileFallsBackAndLeavesFileUntouched(t *testing.T) {
	root := t.TempDir()
	ps := paths.NewPathSet(root)
	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	malformed := []byte(`{"UI": {"Theme": `)
	if err := os.WriteFile(ps.ConfigFile, malformed, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := load(t, root)
	if cfg.Settings != config.DefaultSettings() {
		t.Fatalf("malformed file should yield full defaults, got %+v", cfg.Settings)
	}

	onDisk, err := os.ReadFile(ps.ConfigFile)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(onDisk) != string(malformed) {
		t.Fatal("malformed config file must not be modified by load")
	}
}

func TestLoadUnreadableFileFallsBackWithoutWriting(t *testing.T) {
	root := t.TempDir()
	ps := paths.NewPathSet(root)
	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A self-referential symlink exists but cannot be read.
	if err := os.Symlink(ps.ConfigFile, ps.ConfigFile); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	cfg := load(t, root)
	if cfg.FileExisted {
		t.Fatal("unreadable file must not count as a loaded config file")
	}
	if cfg.Settings != config.DefaultSettings() {
		t.Fatalf("unreadable file should yield full defaults, got %+v", cfg.Settings)
	}

	// The original object at the config path survives; no defaults written
	// over it.
	target, err := os.Readlink(ps.ConfigFile)
	if err != nil {
		t.Fatalf("config path no longer holds the original symlink: %v", err)
	}
	if target != ps.ConfigFile {
		t.Fatalf("symlink target changed: got %q want %q", target, ps.ConfigFile)
	}
}

func TestLoadToleratesWrongTypedSection(t *testing.T) {
	root := t.TempDir()
	ps := paths.NewPathSet(root)
	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"UI": {"SidebarWidth": "wide"}, "Export": {"DefaultFormat": "markdown"}}`
	if err := os.WriteFile(ps.ConfigFile, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := load(t, root)

	// The typed view keeps defaults for the broken section...
	if cfg.Settings.UI != config.DefaultSettings().UI {
		t.Fatalf("wrong-typed UI section should keep typed defaults, got %+v", cfg.Settings.UI)
	}
	// ...while the raw mapping retains what the user wrote.
	if value, ok := cfg.Value("UI.SidebarWidth"); !ok || value != "wide" {
		t.Fatalf("raw lookup should return user value, got %v (%v)", value, ok)
	}
	// Healthy sections still decode.
	if cfg.Settings.Export.DefaultFormat != "markdown" {
		t.Fatalf("expected markdown export format, got %q", cfg.Settings.Export.DefaultFormat)
	}
}

func TestValueLookups(t *testing.T) {
	root := t.TempDir()
	cfg := load(t, root)

	value, ok := cfg.Value("Cache.MaxIndexedChats")
	if !ok {
		t.Fatal("expected Cache.MaxIndexedChats to resolve")
	}
	if value != 500 {
		t.Fatalf("expected 500, got %v", value)
	}

	if _, ok := cfg.Value("Nonexistent.Key"); ok {
		t.Fatal("missing path must report not-found")
	}
	if _, ok := cfg.Value("UI.Theme.Deeper"); ok {
		t.Fatal("descending through a scalar must report not-found")
	}
	if _, ok := cfg.Value(""); ok {
		t.Fatal("empty path must report not-found")
	}

	pathValue, ok := cfg.Value("Paths.ConfigFile")
	if !ok || pathValue != cfg.Paths.ConfigFile {
		t.Fatalf("Paths lookup mismatch: %v (%v)", pathValue, ok)
	}
}

func TestPathsAreRecomputedAndNeverRead(t *testing.T) {
	root := t.TempDir()
	ps := paths.NewPathSet(root)
	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A Paths section in the file must be ignored outright.
	body := `{"Paths": {"ConfigFile": "/tmp/evil.json"}, "UI": {"Theme": "light"}}`
	if err := os.WriteFile(ps.ConfigFile, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := load(t, root)
	if value, _ := cfg.Value("Paths.ConfigFile"); value != ps.ConfigFile {
		t.Fatalf("Paths must be recomputed from the root, got %v", value)
	}
}

func TestSaveOmitsPathsAndUnknownSections(t *testing.T) {
	root := t.TempDir()
	cfg := load(t, root)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(cfg.Paths.ConfigFile)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var written map[string]any
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(written) != len(config.EditableSections) {
		t.Fatalf("expected exactly %d sections, got %d", len(config.EditableSections), len(written))
	}

	// No temp file debris next to the config.
	entries, err := os.ReadDir(cfg.Paths.AppDataDir)
	if err != nil {
		t.Fatalf("read app data dir: %v", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name != "config.json" && filepath.Ext(name) == ".json" {
			t.Fatalf("unexpected temp file left behind: %s", name)
		}
	}
}

func TestLoadRunsLegacyMigration(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, ".credentials")
	if err := os.WriteFile(legacy, []byte("blob"), 0o600); err != nil {
		t.Fatalf("write legacy credentials: %v", err)
	}

	cfg := load(t, root)

	got, err := os.ReadFile(cfg.Paths.CredentialsFile)
	if err != nil || string(got) != "blob" {
		t.Fatalf("legacy credentials should be migrated during load: %q, %v", got, err)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Fatal("legacy credentials file should be gone after load")
	}
}
