// Package main hosts the ChatVault maintenance CLI.
//
// The Cobra-based command tree exposes configuration inspection and legacy
// data relocation for scripting and support use. Heavy lifting lives in the
// internal packages; commands stay declarative and only translate flags into
// calls against them.
package main
