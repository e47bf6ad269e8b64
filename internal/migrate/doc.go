// Package migrate relocates data written by earlier ChatVault releases into
// the canonical on-disk layout.
//
// Two legacy generations are handled: dot-prefixed items at the top of the
// application root, and the same items nested under one holding directory
// from an older release. Entries are processed independently with per-entry
// failure isolation, existing canonical data always wins over legacy data,
// and the whole run is idempotent.
package migrate
