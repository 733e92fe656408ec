package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"captioner/internal/logging"
)

var partialSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}

var sequence atomic.Uint64

// Manager hands out collision-resistant artifact paths under one directory
// and removes them when their owner is done.
type Manager struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewManager returns a manager rooted at dir.
func NewManager(dir string, logger *slog.Logger) *Manager {
	return &Manager{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "artifact"),
		now:    time.Now,
	}
}

// Dir returns the directory artifacts are allocated in.
func (m *Manager) Dir() string { return m.dir }

// Prepare creates the artifact directory.
func (m *Manager) Prepare() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory %q: %w", m.dir, err)
	}
	return nil
}

// Allocate returns a fresh artifact path. Nothing is created on disk; the
// collaborator that writes the file owns creation.
func (m *Manager) Allocate(prefix, key string) Artifact {
	sum := sha256.Sum256([]byte(key))
	base := fmt.Sprintf("%s-%s-%d-%d",
		sanitizePrefix(prefix),
		hex.EncodeToString(sum[:])[:16],
		m.now().UnixNano(),
		sequence.Add(1),
	)
	return Artifact{dir: m.dir, base: base}
}

// Release deletes every file belonging to a. Failures are logged and
// swallowed; releasing an artifact twice is harmless.
func (m *Manager) Release(a Artifact) {
	if a.base == "" {
		return
	}
	matches, err := a.Matches()
	if err != nil {
		logging.WarnWithContext(m.logger, "artifact scan failed", "artifact_release_failed",
			logging.String("artifact", a.Path()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove leftover files from the temp directory manually"),
			logging.String(logging.FieldImpact, "temporary files may remain on disk"),
		)
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.WarnWithContext(m.logger, "artifact removal failed", "artifact_release_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check temp directory permissions"),
				logging.String(logging.FieldImpact, "temporary file remains on disk"),
			)
			continue
		}
		m.logger.Debug("artifact removed", logging.String("path", path))
	}
}

// Artifact is an ownership-scoped handle to a temporary path.
type Artifact struct {
	dir  string
	base string
}

// Path is the output template passed to collaborators. They may append
// suffixes such as ".en.vtt" or ".m4a".
func (a Artifact) Path() string {
	return filepath.Join(a.dir, a.base)
}

// Name is the artifact's base file name.
func (a Artifact) Name() string { return a.base }

// Matches lists every file on disk that belongs to the artifact, partial
// downloads included.
func (a Artifact) Matches() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact directory: %w", err)
	}
	var matches []string
	for _, entry := range entries {
		if a.owns(entry.Name()) {
			matches = append(matches, filepath.Join(a.dir, entry.Name()))
		}
	}
	return matches, nil
}

// Find returns the first complete, non-empty regular file for the artifact.
// Files whose extension appears in preferredExts win, in the order given.
func (a Artifact) Find(preferredExts ...string) (string, bool) {
	matches, err := a.Matches()
	if err != nil {
		return "", false
	}
	var candidates []string
	for _, path := range matches {
		if isPartial(path) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			continue
		}
		candidates = append(candidates, path)
	}
	for _, ext := range preferredExts {
		ext = strings.ToLower(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		for _, path := range candidates {
			if strings.HasSuffix(strings.ToLower(path), ext) {
				return path, true
			}
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

func (a Artifact) owns(name string) bool {
	return name == a.base || strings.HasPrefix(name, a.base+".")
}

func isPartial(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func sanitizePrefix(prefix string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(prefix) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "artifact"
	}
	return b.String()
}
