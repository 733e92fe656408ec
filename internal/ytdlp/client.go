package ytdlp

import (
	"context"
	"log/slog"
	"time"

	"captioner/internal/acquire"
	"captioner/internal/command"
	"captioner/internal/logging"
)

var _ acquire.Extractor = (*Client)(nil)

var audioExtensions = []string{".m4a", ".opus", ".webm", ".mp3", ".ogg", ".wav"}

// Client drives the yt-dlp executable and satisfies acquire.Extractor.
type Client struct {
	binary  string
	builder ArgsBuilder
	run     command.Runner
	logger  *slog.Logger
}

// New returns a client for opts.
func New(opts Options, logger *slog.Logger) *Client {
	binary := opts.Binary
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Client{
		binary:  binary,
		builder: NewArgsBuilder(opts),
		run:     command.Run,
		logger:  logging.NewComponentLogger(logger, "ytdlp"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner command.Runner) {
	if runner != nil {
		c.run = runner
	}
}

// Binary returns the executable name.
func (c *Client) Binary() string { return c.binary }

// ExtractCaptions downloads one subtitle track into job.Output. The returned
// path is empty when no file was written; the error reflects only the exit
// status, so callers should probe the artifact either way.
func (c *Client) ExtractCaptions(ctx context.Context, job acquire.CaptionJob) (string, error) {
	args := c.builder.CaptionArgs(job)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("yt-dlp caption download",
		logging.String("track", string(job.TrackKind)),
		logging.String("language", job.Language),
		logging.String("format", job.Format.String()),
	)
	start := time.Now()
	err := c.run(ctx, c.binary, args...)
	logger.Debug("yt-dlp finished", logging.Duration("elapsed", time.Since(start)), logging.Bool("ok", err == nil))
	path, _ := job.Output.Find(job.Format.Extension())
	return path, err
}

// ExtractAudio downloads the audio stream into job.Output.
func (c *Client) ExtractAudio(ctx context.Context, job acquire.AudioJob) (string, error) {
	args := c.builder.AudioArgs(job)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("yt-dlp audio download")
	start := time.Now()
	err := c.run(ctx, c.binary, args...)
	logger.Debug("yt-dlp finished", logging.Duration("elapsed", time.Since(start)), logging.Bool("ok", err == nil))
	path, _ := job.Output.Find(audioExtensions...)
	return path, err
}
