// Package uninstall inventories everything ChatVault has written to disk and
// executes the removal plan. Scan is read-only; Execute is destructive and
// must run only after explicit confirmation, which is the caller's concern.
package uninstall
