package main_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

var gvBinaryPath string
var gvBinaryDir string

var (
	scriptTUISupported      = true
	scriptTUIDisabledReason string
)

func TestMain(m *testing.M) {
	// Build the binary once for all tests
	if err := buildGvOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build gv binary: %v\n", err)
		os.Exit(1)
	}

	scriptTUISupported, scriptTUIDisabledReason = detectScriptTUICapability(gvBinaryPath)

	code := m.Run()
	if gvBinaryDir != "" {
		_ = os.RemoveAll(gvBinaryDir)
	}
	os.Exit(code)
}

func buildGvOnce() error {
	tempDir, err := os.MkdirTemp("", "gv-e2e-build-*")
	if err != nil {
		return err
	}
	gvBinaryDir = tempDir

	binName := "gv"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(tempDir, binName)

	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/gv")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("go build failed: %v\n%s", err, out)
	}

	gvBinaryPath = binPath
	return nil
}

// buildGvBinary returns the path to the pre-built binary.
func buildGvBinary(t *testing.T) string {
	t.Helper()
	if gvBinaryPath == "" {
		t.Fatal("gv binary not built")
	}
	return gvBinaryPath
}

func detectScriptTUICapability(gvPath string) (bool, string) {
	if _, err := exec.LookPath("script"); err != nil {
		return false, "script command not available"
	}
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		return false, "script TUI harness unsupported on this OS"
	}
	if gvPath == "" {
		return false, "gv binary path is empty"
	}

	tempDir, err := os.MkdirTemp("", "gv-e2e-tui-cap-*")
	if err != nil {
		return false, fmt.Sprintf("failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, gvPath, "--rows", "50")
	if cmd == nil {
		return false, "script command unavailable"
	}
	cmd.Dir = tempDir
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"GV_TUI_AUTOCLOSE_MS=250",
	)

	outFile := filepath.Join(tempDir, "script.out")
	f, err := os.Create(outFile)
	if err != nil {
		return false, fmt.Sprintf("failed to create output file: %v", err)
	}
	cmd.Stdout = f
	cmd.Stderr = f

	runErr := cmd.Run()
	_ = f.Close()

	if ctx.Err() == context.DeadlineExceeded {
		return false, "gv did not auto-exit under script (PTY/CI mismatch)"
	}
	if runErr != nil {
		return false, fmt.Sprintf("script TUI run failed: %v", runErr)
	}

	return true, ""
}

// skipIfNoScript skips the test if the script command is unavailable.
func skipIfNoScript(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("script"); err != nil {
		t.Skip("skipping: script command not available")
	}
	if !scriptTUISupported {
		if scriptTUIDisabledReason != "" {
			t.Skipf("skipping: %s", scriptTUIDisabledReason)
		}
		t.Skip("skipping: script-based TUI harness unavailable")
	}
}

// scriptTUICommand creates an exec.Cmd that runs the gv binary under
// `script` to provide a pseudo-TTY for TUI tests.
func scriptTUICommand(ctx context.Context, gvPath string, args ...string) *exec.Cmd {
	if _, err := exec.LookPath("script"); err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		scriptArgs := []string{"-q", "/dev/null", gvPath}
		scriptArgs = append(scriptArgs, args...)
		return exec.CommandContext(ctx, "script", scriptArgs...)

	case "linux":
		cmdStr := gvPath
		for _, arg := range args {
			if strings.ContainsAny(arg, " \t") {
				cmdStr += " \"" + arg + "\""
			} else {
				cmdStr += " " + arg
			}
		}
		return exec.CommandContext(ctx, "script", "-q", "-e", "-f", "-c", cmdStr, "/dev/null")

	default:
		return nil
	}
}

// writeRecordsJSONL writes n sequential records to path.
func writeRecordsJSONL(t *testing.T, path string, n int) {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		status := "Completed"
		switch {
		case i%5 == 0:
			status = "Active"
		case i%3 == 0:
			status = "Pending"
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"Item %d","value":%d,"status":%q}`+"\n", i, i, i*7%10000, status)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write records: %v", err)
	}
}
