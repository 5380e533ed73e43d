package tools

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyManifest_Overrides(t *testing.T) {
	defs := DefaultDefinitions()
	m := &Manifest{Tools: []ManifestTool{
		{Name: "list_tasks", Summary: "Show my to-do list"},
	}}

	out, err := ApplyManifest(defs, m)
	if err != nil {
		t.Fatalf("ApplyManifest failed: %v", err)
	}
	for _, d := range out {
		if d.Name == "list_tasks" && d.Summary != "Show my to-do list" {
			t.Errorf("summary override not applied, got %q", d.Summary)
		}
	}
}

func TestApplyManifest_DisablesTools(t *testing.T) {
	defs := DefaultDefinitions()
	m := &Manifest{Tools: []ManifestTool{
		{Name: "delete_calendar_event", Disabled: true},
	}}

	out, err := ApplyManifest(defs, m)
	if err != nil {
		t.Fatalf("ApplyManifest failed: %v", err)
	}
	if len(out) != len(defs)-1 {
		t.Fatalf("expected one tool removed, got %d of %d", len(out), len(defs))
	}
	for _, d := range out {
		if d.Name == "delete_calendar_event" {
			t.Fatal("disabled tool still present")
		}
	}
}

func TestApplyManifest_UnknownToolIsAnError(t *testing.T) {
	m := &Manifest{Tools: []ManifestTool{{Name: "launch_rocket"}}}
	if _, err := ApplyManifest(DefaultDefinitions(), m); err == nil {
		t.Fatal("expected error for unknown tool name")
	}
}

func TestApplyManifest_NilIsNoop(t *testing.T) {
	defs := DefaultDefinitions()
	out, err := ApplyManifest(defs, nil)
	if err != nil {
		t.Fatalf("ApplyManifest failed: %v", err)
	}
	if len(out) != len(defs) {
		t.Errorf("nil manifest must leave the catalog unchanged")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.yaml")
	content := `tools:
  - name: list_tasks
    summary: Show my to-do list
  - name: delete_task
    disabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(m.Tools) != 2 || m.Tools[0].Name != "list_tasks" || !m.Tools[1].Disabled {
		t.Errorf("parsed manifest mismatch: %+v", m.Tools)
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file must fail")
	}
}
