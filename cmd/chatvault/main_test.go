package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chatvault/internal/paths"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigGetDefaultValue(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--log-level", "error", "config", "get", "Cache.MaxIndexedChats")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != "500" {
		t.Fatalf("expected 500, got %q", out)
	}
}

func TestConfigGetMissingKeyReportsNotSet(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--log-level", "error", "config", "get", "Nonexistent.Key")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.TrimSpace(out) != "not set" {
		t.Fatalf("expected not-set sentinel, got %q", out)
	}
}

func TestConfigPathDoesNotTouchDisk(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "config", "path")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := paths.NewPathSet(root).ConfigFile
	if strings.TrimSpace(out) != want {
		t.Fatalf("unexpected path: got %q want %q", out, want)
	}
	if _, err := os.Stat(want); !os.IsNotExist(err) {
		t.Fatal("config path must not create the config file")
	}
}

func TestConfigInitCreatesFileOnce(t *testing.T) {
	root := t.TempDir()
	configPath := paths.NewPathSet(root).ConfigFile

	out, err := run(t, "--root", root, "--log-level", "error", "config", "init")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Created config file") {
		t.Fatalf("expected creation message, got %q", out)
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	out, err = run(t, "--root", root, "--log-level", "error", "config", "init")
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Fatalf("expected already-exists message, got %q", out)
	}
}

func TestMigrateReportsRelocations(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, ".credentials")
	if err := os.WriteFile(legacy, []byte("blob"), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	out, err := run(t, "--root", root, "--log-level", "error", "migrate")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "migrated") {
		t.Fatalf("expected a migrated row, got:\n%s", out)
	}
	if !strings.Contains(out, "Migrated: 1") {
		t.Fatalf("expected summary line, got:\n%s", out)
	}
}

func TestConfigShowListsAllSections(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, "--root", root, "--log-level", "error", "config", "show")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, fragment := range []string{"Api", "UI", "Cache", "Export", "Paths", "SidebarWidth", "180"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, out)
		}
	}
}
