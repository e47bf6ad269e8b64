// Package paths computes the canonical and legacy on-disk locations for
// ChatVault data. Pure path composition shared by the configuration,
// migration, and uninstall layers.
package paths

import (
	"os"
	"path/filepath"
)

const (
	appDataDirName      = "_AppData"
	configFileName      = "config.json"
	cacheDirName        = "cache"
	webViewDirName      = "webview2"
	credentialsFileName = "credentials"
	windowStateFileName = "windowstate"

	legacyHoldingDirName  = ".appdata"
	legacySettingsDirName = ".settings"
	deprecatedDataDirName = ".olddata"

	externalVendorDirName = "ChatVault"
)

// PathSet holds the canonical on-disk locations for all ChatVault state,
// every one subordinate to a single application root. Computed once per load
// and immutable afterward.
type PathSet struct {
	AppDataDir      string
	ConfigFile      string
	CacheDir        string
	WebViewDataDir  string
	CredentialsFile string
	WindowStateFile string
}

// NewPathSet derives the canonical path set from the application root.
// Pure path composition, no filesystem access.
func NewPathSet(appRoot string) PathSet {
	appData := filepath.Join(appRoot, appDataDirName)
	return PathSet{
		AppDataDir:      appData,
		ConfigFile:      filepath.Join(appData, configFileName),
		CacheDir:        filepath.Join(appData, cacheDirName),
		WebViewDataDir:  filepath.Join(appData, webViewDirName),
		CredentialsFile: filepath.Join(appData, credentialsFileName),
		WindowStateFile: filepath.Join(appData, windowStateFileName),
	}
}

// AsMap returns the path set as a string map keyed by field name, the shape
// the configuration layer exposes under its Paths section.
func (p PathSet) AsMap() map[string]any {
	return map[string]any{
		"AppDataDir":      p.AppDataDir,
		"ConfigFile":      p.ConfigFile,
		"CacheDir":        p.CacheDir,
		"WebViewDataDir":  p.WebViewDataDir,
		"CredentialsFile": p.CredentialsFile,
		"WindowStateFile": p.WindowStateFile,
	}
}

// LegacyEntry pairs a location used by an earlier ChatVault release with the
// canonical location that superseded it.
type LegacyEntry struct {
	Old   string
	New   string
	Dir   bool
	Label string
}

// DotPrefixedEntries lists the dot-prefixed top-level locations used by the
// release immediately preceding the current layout. Always checked.
func DotPrefixedEntries(appRoot string, ps PathSet) []LegacyEntry {
	return []LegacyEntry{
		{Old: filepath.Join(appRoot, ".cache"), New: ps.CacheDir, Dir: true, Label: "legacy cache directory"},
		{Old: filepath.Join(appRoot, ".webview2"), New: ps.WebViewDataDir, Dir: true, Label: "legacy browser data directory"},
		{Old: filepath.Join(appRoot, ".credentials"), New: ps.CredentialsFile, Dir: false, Label: "legacy credentials file"},
		{Old: filepath.Join(appRoot, ".windowstate"), New: ps.WindowStateFile, Dir: false, Label: "legacy window state file"},
	}
}

// HoldingDirEntries lists the same four items as used by an older release that
// nested them under one holding directory. Only meaningful when
// LegacyHoldingDir exists.
func HoldingDirEntries(appRoot string, ps PathSet) []LegacyEntry {
	holding := LegacyHoldingDir(appRoot)
	return []LegacyEntry{
		{Old: filepath.Join(holding, cacheDirName), New: ps.CacheDir, Dir: true, Label: "held cache directory"},
		{Old: filepath.Join(holding, webViewDirName), New: ps.WebViewDataDir, Dir: true, Label: "held browser data directory"},
		{Old: filepath.Join(holding, credentialsFileName), New: ps.CredentialsFile, Dir: false, Label: "held credentials file"},
		{Old: filepath.Join(holding, windowStateFileName), New: ps.WindowStateFile, Dir: false, Label: "held window state file"},
	}
}

// LegacyHoldingDir is the intermediate directory an older release kept its
// data under, one level deeper than the current layout.
func LegacyHoldingDir(appRoot string) string {
	return filepath.Join(appRoot, legacyHoldingDirName)
}

// LegacySettingsDir is the deprecated settings directory that may still hold a
// standalone config file.
func LegacySettingsDir(appRoot string) string {
	return filepath.Join(appRoot, legacySettingsDirName)
}

// LegacySettingsConfigFile is the standalone config file inside the deprecated
// settings directory.
func LegacySettingsConfigFile(appRoot string) string {
	return filepath.Join(LegacySettingsDir(appRoot), configFileName)
}

// DeprecatedDataDir is a fully retired top-level data directory; migration
// removes it unconditionally.
func DeprecatedDataDir(appRoot string) string {
	return filepath.Join(appRoot, deprecatedDataDirName)
}

// ExternalLegacyDataDir is the OS-managed per-user directory the earliest
// releases wrote to, outside the application tree. Consulted only by the
// uninstall inventory.
func ExternalLegacyDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, externalVendorDirName), nil
}
