package transcription

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"captioner/internal/captions"
	"captioner/internal/command"
	"captioner/internal/language"
	"captioner/internal/logging"
	"captioner/internal/services"
)

// WhisperX configuration constants.
const (
	DefaultWhisperXModel = "large-v3-turbo"
	CUDAIndexURL         = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL         = "https://pypi.org/simple"
	UVXCommand           = "uvx"
	batchSize            = "4"
	cpuDevice            = "cpu"
	cudaDevice           = "cuda"
	cpuComputeType       = "float32"
)

// WhisperXConfig captures runtime settings for WhisperX.
type WhisperXConfig struct {
	Model       string
	CUDAEnabled bool
}

// WhisperX runs the whisperx CLI through uvx. Output files land beside the
// audio file and share its name prefix.
type WhisperX struct {
	cfg           WhisperXConfig
	commandRunner command.Runner
	logger        *slog.Logger
}

// NewWhisperX creates a WhisperX transcriber.
func NewWhisperX(cfg WhisperXConfig, logger *slog.Logger) *WhisperX {
	if cfg.Model == "" {
		cfg.Model = DefaultWhisperXModel
	}
	return &WhisperX{cfg: cfg, logger: logging.NewComponentLogger(logger, "whisperx")}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperX) WithCommandRunner(runner command.Runner) {
	w.commandRunner = runner
}

// Name identifies the provider in logs.
func (w *WhisperX) Name() string { return ProviderWhisperX }

// Transcribe runs whisperx once and returns the produced subtitle file.
func (w *WhisperX) Transcribe(ctx context.Context, audioPath, lang string, format captions.Format) (string, error) {
	if audioPath == "" {
		return "", services.Wrap(services.ErrValidation, "whisperx", "transcribe", "audio path required", nil)
	}
	format = subtitleFormat(format)
	outputDir := filepath.Dir(audioPath)
	args := w.buildArgs(audioPath, outputDir, lang, format)

	logging.WithContext(ctx, w.logger).Debug("whisperx transcription",
		logging.String("model", w.cfg.Model),
		logging.Bool("cuda", w.cfg.CUDAEnabled),
		logging.String("format", format.String()),
	)
	if err := w.run(ctx, args...); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outPath := filepath.Join(outputDir, base+format.Extension())
	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "whisperx", "read output", fmt.Sprintf("expected %s", filepath.Base(outPath)), err)
	}
	return string(data), nil
}

func (w *WhisperX) run(ctx context.Context, args ...string) error {
	if w.commandRunner != nil {
		return w.commandRunner(ctx, UVXCommand, args...)
	}
	var env []string
	// Torch 2.6 defaults torch.load to weights_only, which breaks the
	// whisperx checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return command.RunEnv(ctx, env, UVXCommand, args...)
}

func (w *WhisperX) buildArgs(source, outputDir, lang string, format captions.Format) []string {
	args := make([]string, 0, 24)
	args = append(args, indexArgs(w.cfg.CUDAEnabled)...)
	args = append(args,
		"whisperx",
		source,
		"--model", w.cfg.Model,
		"--batch_size", batchSize,
		"--output_dir", outputDir,
		"--output_format", format.String(),
	)
	if code := language.ToISO2(lang); code != "" {
		args = append(args, "--language", code)
	}
	if w.cfg.CUDAEnabled {
		args = append(args, "--device", cudaDevice)
	} else {
		args = append(args, "--device", cpuDevice, "--compute_type", cpuComputeType)
	}
	return args
}

// WhisperXCheckArgs returns uvx arguments that start the cached whisperx CLI
// without touching the network. They fail until the first transcription has
// populated the uv cache.
func WhisperXCheckArgs(cudaEnabled bool) []string {
	args := []string{"--offline"}
	args = append(args, indexArgs(cudaEnabled)...)
	return append(args, "whisperx", "--help")
}

func indexArgs(cudaEnabled bool) []string {
	if cudaEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}
