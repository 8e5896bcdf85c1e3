package main_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestTUISmokeGenerated launches the TUI against a generated dataset and
// verifies it paints rows and exits cleanly. GV_TUI_AUTOCLOSE_MS keeps
// it from hanging.
func TestTUISmokeGenerated(t *testing.T) {
	skipIfNoScript(t)
	gv := buildGvBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, gv, "--rows", "200")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"GV_TUI_AUTOCLOSE_MS=1500",
	)

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping TUI smoke test: timed out; output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("gv TUI run failed: %v\n%s", err, out)
	}

	if !strings.Contains(string(out), "Item 1") {
		t.Errorf("TUI output missing first row:\n%s", out)
	}
	if !strings.Contains(string(out), "200 records") {
		t.Errorf("TUI output missing record total:\n%s", out)
	}
}

// TestTUISmokeJSONLFile drives the TUI from a records file.
func TestTUISmokeJSONLFile(t *testing.T) {
	skipIfNoScript(t)
	gv := buildGvBinary(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	writeRecordsJSONL(t, path, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, gv, "--data", path, "--no-watch")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"GV_TUI_AUTOCLOSE_MS=1500",
	)

	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping TUI smoke test: timed out; output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("gv TUI run failed: %v\n%s", err, out)
	}

	if !strings.Contains(string(out), "records.jsonl") {
		t.Errorf("TUI title missing file name:\n%s", out)
	}
}
