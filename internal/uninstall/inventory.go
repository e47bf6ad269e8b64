package uninstall

import (
	"log/slog"
	"os"

	"chatvault/internal/fileutil"
	"chatvault/internal/logging"
	"chatvault/internal/paths"
)

// Item is one on-disk location the removal plan will delete.
type Item struct {
	Path  string
	Label string
	Dir   bool

	// Size is a best-effort recursive byte count for directories, purely for
	// display. Zero for files and unreadable trees.
	Size int64
}

// Plan is the ordered set of locations found on disk.
type Plan struct {
	Items []Item
}

// Empty reports whether the scan found nothing to remove.
func (p Plan) Empty() bool { return len(p.Items) == 0 }

// TotalSize sums the best-effort sizes of all planned items.
func (p Plan) TotalSize() int64 {
	var total int64
	for _, item := range p.Items {
		total += item.Size
	}
	return total
}

// Scan inventories everything ChatVault has written to disk: the canonical
// runtime locations, optionally the config file, and every known legacy
// location across all historical layouts. Only paths that actually exist are
// included, each at most once.
func Scan(appRoot string, includeConfig bool) Plan {
	ps := paths.NewPathSet(appRoot)

	candidates := []Item{
		{Path: ps.CacheDir, Label: "cache directory", Dir: true},
		{Path: ps.WebViewDataDir, Label: "browser engine data", Dir: true},
		{Path: ps.CredentialsFile, Label: "credentials file"},
		{Path: ps.WindowStateFile, Label: "window state file"},
	}
	if includeConfig {
		candidates = append(candidates, Item{Path: ps.ConfigFile, Label: "config file"})
	}

	for _, entry := range paths.DotPrefixedEntries(appRoot, ps) {
		candidates = append(candidates, Item{Path: entry.Old, Label: entry.Label, Dir: entry.Dir})
	}
	candidates = append(candidates,
		Item{Path: paths.LegacyHoldingDir(appRoot), Label: "legacy holding directory", Dir: true},
		Item{Path: paths.LegacySettingsDir(appRoot), Label: "legacy settings directory", Dir: true},
		Item{Path: paths.DeprecatedDataDir(appRoot), Label: "deprecated data directory", Dir: true},
	)
	if external, err := paths.ExternalLegacyDataDir(); err == nil {
		candidates = append(candidates, Item{Path: external, Label: "legacy per-user data directory", Dir: true})
	}

	plan := Plan{}
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if _, dup := seen[candidate.Path]; dup {
			continue
		}
		seen[candidate.Path] = struct{}{}

		info, err := os.Stat(candidate.Path)
		if err != nil {
			continue
		}
		candidate.Dir = info.IsDir()
		if candidate.Dir {
			candidate.Size = fileutil.DirSize(candidate.Path)
		} else {
			candidate.Size = info.Size()
		}
		plan.Items = append(plan.Items, candidate)
	}
	return plan
}

// ItemError pairs a plan item with the error its removal produced.
type ItemError struct {
	Item Item
	Err  error
}

// Result reports per-item removal outcomes.
type Result struct {
	Removed []Item
	Failed  []ItemError
}

// Execute removes every planned item. A failure on one item is recorded and
// never prevents attempting the rest; completed removals are not rolled back.
// Callers must obtain explicit confirmation before invoking this.
func Execute(plan Plan, logger *slog.Logger) Result {
	log := logging.NewComponentLogger(logger, "uninstall")
	result := Result{}

	for _, item := range plan.Items {
		if err := os.RemoveAll(item.Path); err != nil {
			result.Failed = append(result.Failed, ItemError{Item: item, Err: err})
			log.Warn("removal failed, continuing",
				logging.String("path", item.Path),
				logging.Error(err),
			)
			continue
		}
		result.Removed = append(result.Removed, item)
		log.Info("removed", logging.String("path", item.Path), logging.String("label", item.Label))
	}

	return result
}
