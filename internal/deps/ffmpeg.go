package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FFmpeg returns the requirement for the ffmpeg yt-dlp converts subtitles and
// remuxes audio with. A standalone yt-dlp build uses an ffmpeg placed beside
// its own executable before PATH, so that sidecar is preferred when present.
func (c *Checker) FFmpeg(extractorCommand string) Requirement {
	req := Requirement{
		Name:        "FFmpeg",
		Command:     executableName("ffmpeg"),
		Description: "Used by yt-dlp to convert subtitles and audio",
		Optional:    true,
		CheckArgs:   []string{"-version"},
		Hint:        "caption conversion to srt/ass/lrc will fail",
	}
	extractor := strings.TrimSpace(extractorCommand)
	if extractor == "" {
		return req
	}
	resolved, err := c.lookPath(extractor)
	if err != nil {
		return req
	}
	sidecar := filepath.Join(filepath.Dir(resolved), executableName("ffmpeg"))
	if info, err := os.Stat(sidecar); err == nil && isExecutable(info) {
		req.Command = sidecar
	}
	return req
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode().Perm()&0o111 != 0
}
