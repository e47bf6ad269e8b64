// Package main hosts the ChatVault uninstall tool.
//
// It scans every canonical and legacy data location, presents the removal
// plan, and deletes everything found after explicit confirmation (or with
// --force). The config file is preserved unless --include-config is given.
package main
