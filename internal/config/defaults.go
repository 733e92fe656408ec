package config

const (
	defaultConfigPath            = "~/.config/captioner/config.toml"
	defaultLogDir                = "~/.local/share/captioner/logs"
	defaultExtractionBinary      = "yt-dlp"
	defaultURLTemplate           = "https://www.youtube.com/watch?v=%s"
	defaultCaptionTimeoutSeconds = 60
	defaultAudioTimeoutSeconds   = 300
	defaultRetries               = 3
	defaultSettleDelayMillis     = 500
	defaultFormat                = "vtt"
	defaultProvider              = "whisperx"
	defaultTranscriptionTimeout  = 900
	defaultWhisperXModel         = "large-v3-turbo"
	defaultGeminiModel           = "gemini-2.5-flash"
	defaultOpenAIModel           = "whisper-1"
	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultMinWindow             = 1000
	defaultMaxWindow             = 100000
	defaultWindow                = 20000
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir:   defaultTempDir(),
			LogDir:    defaultLogDir,
			CachePath: defaultCachePath(),
		},
		Extraction: Extraction{
			Binary:                defaultExtractionBinary,
			URLTemplate:           defaultURLTemplate,
			CaptionTimeoutSeconds: defaultCaptionTimeoutSeconds,
			AudioTimeoutSeconds:   defaultAudioTimeoutSeconds,
			Retries:               defaultRetries,
			SettleDelayMillis:     defaultSettleDelayMillis,
			DefaultFormat:         defaultFormat,
		},
		Transcription: Transcription{
			Provider:       defaultProvider,
			TimeoutSeconds: defaultTranscriptionTimeout,
			OutputFormat:   "srt",
			WhisperXModel:  defaultWhisperXModel,
			GeminiModel:    defaultGeminiModel,
			OpenAIModel:    defaultOpenAIModel,
			OpenAIBaseURL:  defaultOpenAIBaseURL,
		},
		Pagination: Pagination{
			MinWindow:     defaultMinWindow,
			MaxWindow:     defaultMaxWindow,
			DefaultWindow: defaultWindow,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
