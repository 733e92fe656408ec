package ytdlp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"captioner/internal/acquire"
	"captioner/internal/captions"
	"captioner/internal/config"
)

// Options are the request-independent yt-dlp settings.
type Options struct {
	Binary        string
	URLTemplate   string
	Retries       int
	Proxy         string
	CookiesFile   string
	SleepRequests int
}

// OptionsFromConfig copies the extraction section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Binary:        cfg.ExtractionBinary(),
		URLTemplate:   cfg.Extraction.URLTemplate,
		Retries:       cfg.Extraction.Retries,
		Proxy:         cfg.Extraction.Proxy,
		CookiesFile:   cfg.Extraction.CookiesFile,
		SleepRequests: cfg.Extraction.SleepRequestsSeconds,
	}
}

// ArgsBuilder assembles yt-dlp argument lists without running anything.
type ArgsBuilder struct {
	opts Options
}

// NewArgsBuilder returns a builder for opts.
func NewArgsBuilder(opts Options) ArgsBuilder {
	return ArgsBuilder{opts: opts}
}

// Base returns the flags shared by every invocation. --no-config comes first
// so user config files cannot change behavior.
func (b ArgsBuilder) Base() []string {
	args := []string{
		"--no-config",
		"--no-playlist",
		"--no-progress",
		"--no-warnings",
		"--no-update",
	}
	if b.opts.Retries > 0 {
		args = append(args, "--retries", strconv.Itoa(b.opts.Retries))
	}
	if b.opts.Proxy != "" {
		args = append(args, "--proxy", b.opts.Proxy)
	}
	if b.opts.CookiesFile != "" {
		args = append(args, "--cookies", b.opts.CookiesFile)
	}
	if b.opts.SleepRequests > 0 {
		args = append(args, "--sleep-requests", strconv.Itoa(b.opts.SleepRequests))
	}
	return args
}

// CaptionArgs requests only the subtitle track for job. Dialects yt-dlp
// cannot fetch natively are produced with --convert-subs.
func (b ArgsBuilder) CaptionArgs(job acquire.CaptionJob) []string {
	args := b.Base()
	args = append(args, "--skip-download")
	if job.TrackKind == acquire.TrackAuto {
		args = append(args, "--write-auto-subs")
	} else {
		args = append(args, "--write-subs")
	}
	args = append(args,
		"--sub-langs", subLangs(job.Language),
		"--sub-format", job.Format.String()+"/best",
	)
	if job.Format != captions.VTT {
		args = append(args, "--convert-subs", job.Format.String())
	}
	args = append(args,
		"-o", job.Output.Path()+".%(ext)s",
		"--", ResourceURL(b.opts.URLTemplate, job.ResourceID),
	)
	return args
}

// AudioArgs downloads the best audio-only stream for job.
func (b ArgsBuilder) AudioArgs(job acquire.AudioJob) []string {
	args := b.Base()
	return append(args,
		"-f", "bestaudio/best",
		"-o", job.Output.Path()+".%(ext)s",
		"--", ResourceURL(b.opts.URLTemplate, job.ResourceID),
	)
}

// ResourceURL expands a bare resource id through template. Values that are
// already absolute http(s) URLs pass through unchanged.
func ResourceURL(template, id string) string {
	id = strings.TrimSpace(id)
	if u, err := url.Parse(id); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return id
	}
	if !strings.Contains(template, "%s") {
		return id
	}
	return fmt.Sprintf(template, url.QueryEscape(id))
}

func subLangs(lang string) string {
	if lang == "" {
		return "en.*"
	}
	return lang + "," + lang + "-.*"
}
