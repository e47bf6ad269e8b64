package config

const (
	defaultFetchTimeoutSeconds = 180
	defaultMaxPaginationPages  = 100
	defaultRequestDelayMs      = 100
	defaultSearchDebounceMs    = 300
	defaultSelectionPollMs     = 250
	defaultSidebarWidth        = 180
	defaultTheme               = "dark"
	defaultMaxCacheAgeDays     = 7
	defaultMaxIndexedChats     = 500
	defaultExportFormat        = "json"
)

// EditableSections are the top-level configuration groups users may override
// through the config file; Save emits exactly these and nothing else.
var EditableSections = []string{SectionAPI, SectionUI, SectionCache, SectionExport}

const (
	SectionAPI    = "Api"
	SectionUI     = "UI"
	SectionCache  = "Cache"
	SectionExport = "Export"
	SectionPaths  = "Paths"
)

// Defaults returns the factory-default configuration as a fresh hierarchical
// mapping. Callers may mutate the result freely.
func Defaults() map[string]any {
	return map[string]any{
		SectionAPI: map[string]any{
			"FetchTimeoutSeconds": defaultFetchTimeoutSeconds,
			"MaxPaginationPages":  defaultMaxPaginationPages,
			"RequestDelayMs":      defaultRequestDelayMs,
		},
		SectionUI: map[string]any{
			"SearchDebounceMs":     defaultSearchDebounceMs,
			"SelectionPollMs":      defaultSelectionPollMs,
			"SidebarWidth":         defaultSidebarWidth,
			"RememberWindowState":  true,
			"RememberSidebarState": true,
			"Theme":                defaultTheme,
		},
		SectionCache: map[string]any{
			"Enabled":              true,
			"MetadataCacheEnabled": true,
			"IndexCacheEnabled":    true,
			"MaxCacheAgeDays":      defaultMaxCacheAgeDays,
			"MaxIndexedChats":      defaultMaxIndexedChats,
		},
		SectionExport: map[string]any{
			"DefaultFormat":     defaultExportFormat,
			"IncludeTimestamps": true,
			"PrettyPrint":       true,
		},
	}
}

// DefaultSettings returns the factory defaults as the typed view. Must agree
// with Defaults key for key; the config tests enforce the equivalence.
func DefaultSettings() Settings {
	return Settings{
		Api: APISettings{
			FetchTimeoutSeconds: defaultFetchTimeoutSeconds,
			MaxPaginationPages:  defaultMaxPaginationPages,
			RequestDelayMs:      defaultRequestDelayMs,
		},
		UI: UISettings{
			SearchDebounceMs:     defaultSearchDebounceMs,
			SelectionPollMs:      defaultSelectionPollMs,
			SidebarWidth:         defaultSidebarWidth,
			RememberWindowState:  true,
			RememberSidebarState: true,
			Theme:                defaultTheme,
		},
		Cache: CacheSettings{
			Enabled:              true,
			MetadataCacheEnabled: true,
			IndexCacheEnabled:    true,
			MaxCacheAgeDays:      defaultMaxCacheAgeDays,
			MaxIndexedChats:      defaultMaxIndexedChats,
		},
		Export: ExportSettings{
			DefaultFormat:     defaultExportFormat,
			IncludeTimestamps: true,
			PrettyPrint:       true,
		},
	}
}
