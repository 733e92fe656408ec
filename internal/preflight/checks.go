package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"captioner/internal/config"
	"captioner/internal/deps"
	"captioner/internal/transcription"
)

// CheckOpenAI verifies that an OpenAI-compatible endpoint is reachable and
// accepts the key. It lists models with a single 10-second attempt.
func CheckOpenAI(ctx context.Context, baseURL, apiKey string) Result {
	const name = "OpenAI transcription"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/models", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeHTTPError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: name, Detail: "auth failed (invalid api key)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCacheAccess verifies the transcript cache location. A missing database
// file is fine as long as its directory is writable.
func CheckCacheAccess(path string) Result {
	const name = "Transcript cache"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "cache path not configured"}
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
		}
		if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	}
	dir := CheckDirectoryAccess(name, filepath.Dir(path))
	if dir.Passed {
		dir.Detail = fmt.Sprintf("%s (will be created)", path)
	}
	return dir
}

// CheckSystemDeps resolves and trial-runs the executables required by cfg. Both
// the fetch path and the CLI deps command use this list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config, opts ...deps.Option) []deps.Status {
	checker := deps.NewChecker(opts...)
	requirements := []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.ExtractionBinary(),
			Description: "Required for caption and audio download",
			CheckArgs:   []string{"--version"},
			Hint:        "reinstall yt-dlp or point extraction.binary at a working build",
		},
	}
	if cfg.Transcription.Enabled && strings.EqualFold(cfg.Transcription.Provider, transcription.ProviderWhisperX) {
		requirements = append(requirements,
			deps.Requirement{
				Name:        "uvx",
				Command:     transcription.UVXCommand,
				Description: "Required for WhisperX-driven transcription",
				CheckArgs:   []string{"--version"},
			},
			deps.Requirement{
				Name:        "WhisperX",
				Command:     transcription.UVXCommand,
				Description: "WhisperX CLI run through uvx",
				Optional:    true,
				CheckArgs:   transcription.WhisperXCheckArgs(cfg.Transcription.WhisperXCUDAEnabled),
				Hint:        "not cached yet, the first transcription downloads it",
			},
		)
	}
	requirements = append(requirements, checker.FFmpeg(cfg.ExtractionBinary()))
	return checker.Check(ctx, requirements)
}

func summarizeHTTPError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
