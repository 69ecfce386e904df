package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadBusiness(t *testing.T) {
	path := writeSourceFile(t, "business.yaml", `
name: Acme Plumbing
niche: plumbing
core_services:
  - Emergency Plumbing
  - Boiler Repair
locations:
  - Slough
years_active: 12
proof_points:
  - Gas Safe registered
`)

	business, err := LoadBusiness(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.Name != "Acme Plumbing" {
		t.Errorf("name = %q", business.Name)
	}
	if len(business.CoreServices) != 2 {
		t.Errorf("services = %v", business.CoreServices)
	}
	if business.YearsActive != 12 {
		t.Errorf("years active = %d", business.YearsActive)
	}
}

func TestLoadBusiness_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "core_services:\n  - Plumbing\n"},
		{"no services", "name: Acme\n"},
		{"only generic services", "name: Acme\ncore_services:\n  - services\n  - misc\n"},
		{"malformed yaml", "name: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSourceFile(t, "business.yaml", tt.content)
			if _, err := LoadBusiness(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadBusiness_MissingFile(t *testing.T) {
	if _, err := LoadBusiness(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing business file")
	}
}

func TestLoadSite(t *testing.T) {
	path := writeSourceFile(t, "site.yaml", `
structure:
  home_path: /index
  pages:
    - path: /index
      title: Home
    - path: /plumbing
      title: Plumbing in Slough
      role: money
      inbound_links: 3
pages:
  - path: /plumbing
    title: Plumbing in Slough
    role: money
    word_count: 850
    has_phone: true
`)

	snapshot, err := LoadSite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Structure.HomePath != "/index" {
		t.Errorf("home path = %q", snapshot.Structure.HomePath)
	}
	if len(snapshot.Structure.Pages) != 2 || len(snapshot.Pages) != 1 {
		t.Errorf("page counts: %d structural, %d content", len(snapshot.Structure.Pages), len(snapshot.Pages))
	}
	if !snapshot.Pages[0].HasPhone {
		t.Error("content signals not loaded")
	}
}

func TestLoadSite_MissingFileIsEmptySnapshot(t *testing.T) {
	snapshot, err := LoadSite(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("a missing site file is a supported case: %v", err)
	}
	if snapshot == nil || len(snapshot.Structure.Pages) != 0 || len(snapshot.Pages) != 0 {
		t.Errorf("expected an empty snapshot, got %+v", snapshot)
	}
}

func TestLoadSite_DuplicatePaths(t *testing.T) {
	path := writeSourceFile(t, "site.yaml", `
structure:
  pages:
    - path: /a
    - path: /a
`)
	if _, err := LoadSite(path); err == nil {
		t.Fatal("expected an error for duplicate page paths")
	}
}

func TestLoadSite_EmptyPath(t *testing.T) {
	path := writeSourceFile(t, "site.yaml", `
structure:
  pages:
    - title: Untitled
`)
	if _, err := LoadSite(path); err == nil {
		t.Fatal("expected an error for a page with no path")
	}
}
