package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"convoplay/internal/demo"
)

func TestStarterIsAValidDemo(t *testing.T) {
	d, err := demo.Parse(Starter())
	if err != nil {
		t.Fatalf("starter does not parse: %v", err)
	}
	if len(d.Scenarios) < 2 {
		t.Fatalf("starter should show off multiple scenarios, got %d", len(d.Scenarios))
	}
	if !d.Meta.AutoAdvance {
		t.Fatalf("starter should demonstrate auto-advance")
	}
}

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := demo.NewLoader().Load(path); err != nil {
		t.Fatalf("written starter does not load: %v", err)
	}
}

func TestWriteRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte("precious work"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := Write(path); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "precious work" {
		t.Fatalf("existing file was clobbered")
	}
}
