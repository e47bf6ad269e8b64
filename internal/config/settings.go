package config

import (
	"encoding/json"
	"log/slog"

	"chatvault/internal/logging"
)

// APISettings controls chat service fetching behavior.
type APISettings struct {
	FetchTimeoutSeconds int `json:"FetchTimeoutSeconds"`
	MaxPaginationPages  int `json:"MaxPaginationPages"`
	RequestDelayMs      int `json:"RequestDelayMs"`
}

// UISettings holds the knobs the desktop shell reads at startup.
type UISettings struct {
	SearchDebounceMs     int    `json:"SearchDebounceMs"`
	SelectionPollMs      int    `json:"SelectionPollMs"`
	SidebarWidth         int    `json:"SidebarWidth"`
	RememberWindowState  bool   `json:"RememberWindowState"`
	RememberSidebarState bool   `json:"RememberSidebarState"`
	Theme                string `json:"Theme"`
}

// CacheSettings controls local cache retention.
type CacheSettings struct {
	Enabled              bool `json:"Enabled"`
	MetadataCacheEnabled bool `json:"MetadataCacheEnabled"`
	IndexCacheEnabled    bool `json:"IndexCacheEnabled"`
	MaxCacheAgeDays      int  `json:"MaxCacheAgeDays"`
	MaxIndexedChats      int  `json:"MaxIndexedChats"`
}

// ExportSettings controls chat export output.
type ExportSettings struct {
	DefaultFormat     string `json:"DefaultFormat"`
	IncludeTimestamps bool   `json:"IncludeTimestamps"`
	PrettyPrint       bool   `json:"PrettyPrint"`
}

// Settings is the typed view over the four editable sections. It is decoded
// from the merged raw mapping after load; the raw mapping stays authoritative
// for generic lookup and for Save.
type Settings struct {
	Api    APISettings    `json:"Api"`
	UI     UISettings     `json:"UI"`
	Cache  CacheSettings  `json:"Cache"`
	Export ExportSettings `json:"Export"`
}

// decodeSettings produces the typed view from the merged raw mapping. Each
// section decodes independently; a section whose values cannot be coerced
// keeps its factory defaults while the raw mapping retains whatever the user
// wrote. Missing keys keep defaults because decoding starts from them.
func decodeSettings(raw map[string]any, logger *slog.Logger) Settings {
	settings := DefaultSettings()

	decodeSection(raw, SectionAPI, &settings.Api, logger)
	decodeSection(raw, SectionUI, &settings.UI, logger)
	decodeSection(raw, SectionCache, &settings.Cache, logger)
	decodeSection(raw, SectionExport, &settings.Export, logger)

	return settings
}

func decodeSection[T any](raw map[string]any, name string, dst *T, logger *slog.Logger) {
	section, ok := raw[name].(map[string]any)
	if !ok {
		return
	}
	data, err := json.Marshal(section)
	if err != nil {
		logSectionFallback(logger, name, err)
		return
	}
	candidate := *dst
	if err := json.Unmarshal(data, &candidate); err != nil {
		logSectionFallback(logger, name, err)
		return
	}
	*dst = candidate
}

func logSectionFallback(logger *slog.Logger, section string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("config section has incompatible values, typed view keeps defaults",
		logging.String("section", section),
		logging.Error(err),
	)
}
