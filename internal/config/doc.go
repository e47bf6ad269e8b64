// Package config loads, merges, and persists ChatVault configuration data.
//
// It supplies factory defaults, layers the user-editable sections of the JSON
// config file over them with a tolerant deep merge, computes the canonical
// path set, creates the required runtime directories, and triggers legacy
// data relocation. Configuration problems never abort startup; only missing
// runtime directories do.
//
// The resolved Config carries both a typed Settings view for known keys and a
// generic dotted-path lookup for diagnostic tooling.
package config
