package migrate

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"chatvault/internal/fileutil"
	"chatvault/internal/logging"
	"chatvault/internal/paths"
)

const lockFileName = "migrate.lock"

// Status classifies the outcome of one relocation step.
type Status string

const (
	// StatusMigrated means the legacy data now lives at the canonical location.
	StatusMigrated Status = "migrated"
	// StatusDiscarded means the canonical location already held data and the
	// legacy copy was removed. Existing user data always wins over legacy data.
	StatusDiscarded Status = "discarded"
	// StatusSkipped means there was nothing to do for this entry.
	StatusSkipped Status = "skipped"
	// StatusFailed means the step errored; the error is preserved and the
	// remaining steps still ran.
	StatusFailed Status = "failed"
)

// Step records the outcome of one relocation entry.
type Step struct {
	Legacy    string
	Canonical string
	Label     string
	Status    Status
	Err       error
}

// Report collects every step of a migration run so outcomes stay inspectable
// instead of only side-effecting a log stream.
type Report struct {
	Steps []Step

	// LockBusy is true when another process held the migration lock and the
	// whole run was skipped.
	LockBusy bool
}

// Failed returns the steps that errored.
func (r Report) Failed() []Step {
	var out []Step
	for _, step := range r.Steps {
		if step.Status == StatusFailed {
			out = append(out, step)
		}
	}
	return out
}

// Migrated returns the steps that relocated data.
func (r Report) Migrated() []Step {
	var out []Step
	for _, step := range r.Steps {
		if step.Status == StatusMigrated {
			out = append(out, step)
		}
	}
	return out
}

// Run relocates data left behind by earlier ChatVault releases into the
// canonical layout. Each entry is processed independently: one failure is
// logged, recorded, and never blocks the rest. Running twice in succession
// with no external changes is a no-op the second time.
//
// An advisory file lock under the app data directory guards against two
// concurrently launched instances migrating the same tree; the loser skips
// the run entirely.
func Run(appRoot string, ps paths.PathSet, logger *slog.Logger) Report {
	log := logging.NewComponentLogger(logger, "migrate")
	report := Report{}

	if err := os.MkdirAll(ps.AppDataDir, 0o755); err != nil {
		log.Warn("cannot prepare app data directory, skipping migration",
			logging.String("path", ps.AppDataDir),
			logging.Error(err),
		)
		return report
	}

	lock := flock.New(filepath.Join(ps.AppDataDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		report.LockBusy = true
		log.Warn("migration lock unavailable, another instance is migrating",
			logging.String("lock", lock.Path()),
		)
		return report
	}
	defer func() {
		_ = lock.Unlock()
	}()

	entries := paths.DotPrefixedEntries(appRoot, ps)
	holding := paths.LegacyHoldingDir(appRoot)
	if info, err := os.Stat(holding); err == nil && info.IsDir() {
		entries = append(entries, paths.HoldingDirEntries(appRoot, ps)...)
	}

	for _, entry := range entries {
		report.Steps = append(report.Steps, runEntry(entry, log))
	}

	removeIfEmpty(holding)
	report.Steps = append(report.Steps, relocateLegacyConfig(appRoot, ps, log))
	cleanSettingsDir(appRoot, log)
	if err := os.RemoveAll(paths.DeprecatedDataDir(appRoot)); err != nil {
		log.Warn("unable to remove deprecated data directory",
			logging.String("path", paths.DeprecatedDataDir(appRoot)),
			logging.Error(err),
		)
	}

	return report
}

func runEntry(entry paths.LegacyEntry, log *slog.Logger) Step {
	step := Step{Legacy: entry.Old, Canonical: entry.New, Label: entry.Label}

	if _, err := os.Lstat(entry.Old); errors.Is(err, fs.ErrNotExist) {
		step.Status = StatusSkipped
		return step
	}

	hasData, err := canonicalHasData(entry.New)
	if err != nil {
		step.Status = StatusFailed
		step.Err = err
		log.Warn("cannot inspect canonical location, entry skipped",
			logging.String("path", entry.New),
			logging.Error(err),
		)
		return step
	}

	if hasData {
		// Best effort: the legacy copy is superseded, a removal failure only
		// leaves stale data behind.
		_ = os.RemoveAll(entry.Old)
		step.Status = StatusDiscarded
		log.Info("discarded legacy data, canonical location already populated",
			logging.String("legacy", entry.Old),
			logging.String("canonical", entry.New),
		)
		return step
	}

	if entry.Dir {
		err = migrateDir(entry.Old, entry.New)
	} else {
		err = migrateFile(entry.Old, entry.New)
	}
	if err != nil {
		step.Status = StatusFailed
		step.Err = err
		log.Warn("legacy migration step failed, continuing",
			logging.String("legacy", entry.Old),
			logging.String("canonical", entry.New),
			logging.Error(err),
		)
		return step
	}

	step.Status = StatusMigrated
	log.Info("migrated legacy data",
		logging.String("legacy", entry.Old),
		logging.String("canonical", entry.New),
	)
	return step
}

func migrateDir(old, canonical string) error {
	if err := os.MkdirAll(canonical, 0o755); err != nil {
		return err
	}
	if err := fileutil.CopyTree(old, canonical); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func migrateFile(old, canonical string) error {
	if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
		return err
	}
	return fileutil.MoveFile(old, canonical)
}

// canonicalHasData reports whether the canonical location already holds data:
// an existing file, or a directory with at least one top-level entry. Only the
// top level counts; a directory of empty subdirectories still blocks the
// legacy copy.
func canonicalHasData(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return true, nil
	}
	return fileutil.DirHasEntries(path)
}

// relocateLegacyConfig moves the standalone config file out of the deprecated
// settings directory, but only when no canonical config file exists yet.
func relocateLegacyConfig(appRoot string, ps paths.PathSet, log *slog.Logger) Step {
	legacyConfig := paths.LegacySettingsConfigFile(appRoot)
	step := Step{Legacy: legacyConfig, Canonical: ps.ConfigFile, Label: "legacy config file"}

	if _, err := os.Stat(legacyConfig); errors.Is(err, fs.ErrNotExist) {
		step.Status = StatusSkipped
		return step
	}
	if _, err := os.Stat(ps.ConfigFile); err == nil {
		step.Status = StatusSkipped
		return step
	}

	if err := migrateFile(legacyConfig, ps.ConfigFile); err != nil {
		step.Status = StatusFailed
		step.Err = err
		log.Warn("unable to relocate legacy config file",
			logging.String("legacy", legacyConfig),
			logging.Error(err),
		)
		return step
	}

	step.Status = StatusMigrated
	log.Info("relocated legacy config file",
		logging.String("legacy", legacyConfig),
		logging.String("canonical", ps.ConfigFile),
	)
	return step
}

// cleanSettingsDir removes the deprecated settings directory once it holds
// nothing but non-data files (editor backups, OS droppings).
func cleanSettingsDir(appRoot string, log *slog.Logger) {
	dir := paths.LegacySettingsDir(appRoot)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isNonDataFile(entry.Name()) {
			return
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Warn("unable to remove legacy settings directory",
			logging.String("path", dir),
			logging.Error(err),
		)
	}
}

func isNonDataFile(name string) bool {
	switch strings.ToLower(name) {
	case ".ds_store", "desktop.ini", "thumbs.db":
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bak", ".tmp", ".old":
		return true
	}
	return false
}

func removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = os.Remove(dir)
}
