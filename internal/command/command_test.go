//go:build unix

package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"captioner/internal/services"
)

func TestRunSuccess(t *testing.T) {
	if err := Run(context.Background(), "sh", "-c", "exit 0"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunNonZeroExitIncludesOutput(t *testing.T) {
	err := Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsExit(err) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected exit error tagged external tool, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected output in error, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	err := Run(context.Background(), "captioner-definitely-missing-binary")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunKillsProcessGroupOnTimeout(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "child-survived")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	script := "(sleep 1; touch " + marker + ") & sleep 30"
	err := Run(ctx, "sh", "-c", script)
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("Run did not return promptly: %s", elapsed)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, statErr := os.Stat(marker); statErr == nil {
		t.Fatal("background child outlived the killed process group")
	}
}

func TestRunEnvPassesVariables(t *testing.T) {
	err := RunEnv(context.Background(), []string{"CAPTIONER_TEST_VALUE=42"}, "sh", "-c", `test "$CAPTIONER_TEST_VALUE" = 42`)
	if err != nil {
		t.Fatalf("RunEnv returned error: %v", err)
	}
}

func TestOutputReturnsTrimmedOutput(t *testing.T) {
	out, err := Output(context.Background(), "sh", "-c", "printf '2025.10.22\\n'")
	if err != nil {
		t.Fatalf("Output returned error: %v", err)
	}
	if out != "2025.10.22" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = Output(context.Background(), "sh", "-c", "echo broken; exit 1")
	if !IsExit(err) || out != "broken" {
		t.Fatalf("expected output with exit error, got %q, %v", out, err)
	}
}
