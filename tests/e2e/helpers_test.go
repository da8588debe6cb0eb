package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// buildBonsaiBinary compiles cmd/bonsai into a temp dir.
func buildBonsaiBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e build in -short mode")
	}
	name := "bonsai"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/bonsai")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

// runBonsai runs the binary in dir with stdin closed.
func runBonsai(t *testing.T, bin, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("running bonsai: %v", err)
	}
	return out.String(), errOut.String(), code
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// detailedLogger prefixes test log lines with the step being run.
type detailedLogger struct {
	t     *testing.T
	start time.Time
	step  int
}

func newDetailedLogger(t *testing.T) *detailedLogger {
	return &detailedLogger{t: t, start: time.Now()}
}

func (l *detailedLogger) Step(msg string) {
	l.t.Helper()
	l.step++
	l.t.Logf("[step %d +%s] %s", l.step, time.Since(l.start).Round(time.Millisecond), msg)
}

func (l *detailedLogger) MetricDuration(name string, d time.Duration) {
	l.t.Helper()
	l.t.Logf("[metric] %s=%s", name, d)
}

func (l *detailedLogger) Success(msg string) {
	l.t.Helper()
	l.t.Logf("[ok +%s] %s", time.Since(l.start).Round(time.Millisecond), msg)
}
