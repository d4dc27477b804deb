package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Project is a throwaway project directory.
type Project struct {
	Dir string
}

// NewProject creates an empty project in a test temp dir.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{Dir: t.TempDir()}
}

// Path joins rel onto the project directory.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (p *Project) WriteFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// WritePackageJSON writes a package.json listing packages as
// devDependencies.
func (p *Project) WritePackageJSON(t *testing.T, packages ...string) string {
	t.Helper()
	sort.Strings(packages)
	dev := make(map[string]string, len(packages))
	for _, name := range packages {
		dev[name] = "*"
	}
	data, err := json.MarshalIndent(map[string]any{
		"private":         true,
		"devDependencies": dev,
	}, "", "  ")
	if err != nil {
		t.Fatalf("marshal package.json: %v", err)
	}
	return p.WriteFile(t, "package.json", string(data)+"\n")
}

// MakeLaravel adds an artisan script so framework detection reports
// Laravel.
func (p *Project) MakeLaravel(t *testing.T) {
	t.Helper()
	p.WriteFile(t, "artisan", "#!/usr/bin/env php\n<?php\n")
}
