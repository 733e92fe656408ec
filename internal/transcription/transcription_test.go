package transcription

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/genai"

	"captioner/internal/captions"
	"captioner/internal/config"
	"captioner/internal/logging"
	"captioner/internal/services"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio-0123456789abcdef-1-1.m4a")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestNewDisabledReturnsNil(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Enabled = false
	tr, err := New(context.Background(), &cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr != nil {
		t.Fatalf("expected nil transcriber, got %T", tr)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Enabled = true

	cfg.Transcription.Provider = "whisperx"
	tr, err := New(context.Background(), &cfg, logging.NewNop())
	if err != nil || tr == nil || tr.Name() != ProviderWhisperX {
		t.Fatalf("whisperx: got %v, %v", tr, err)
	}

	cfg.Transcription.Provider = "openai"
	tr, err = New(context.Background(), &cfg, logging.NewNop())
	if err != nil || tr == nil || tr.Name() != ProviderOpenAI {
		t.Fatalf("openai: got %v, %v", tr, err)
	}

	cfg.Transcription.Provider = "gemini"
	cfg.Transcription.GeminiAPIKey = ""
	if _, err := New(context.Background(), &cfg, logging.NewNop()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("gemini without key: expected configuration error, got %v", err)
	}

	cfg.Transcription.Provider = "carrier-pigeon"
	if _, err := New(context.Background(), &cfg, logging.NewNop()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("unknown provider: expected configuration error, got %v", err)
	}
}

func TestWhisperXBuildsArgsAndReadsOutput(t *testing.T) {
	audio := writeAudio(t)
	w := NewWhisperX(WhisperXConfig{}, logging.NewNop())

	var gotName string
	var gotArgs []string
	w.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		out := strings.TrimSuffix(audio, ".m4a") + ".srt"
		return os.WriteFile(out, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0o644)
	})

	text, err := w.Transcribe(context.Background(), audio, "en-US", captions.ASS)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("unexpected text %q", text)
	}
	if gotName != UVXCommand {
		t.Fatalf("expected %s, got %s", UVXCommand, gotName)
	}
	joined := strings.Join(gotArgs, " ")
	for _, want := range []string{
		"--index-url " + PypiIndexURL,
		"whisperx " + audio,
		"--model " + DefaultWhisperXModel,
		"--output_dir " + filepath.Dir(audio),
		"--output_format srt",
		"--language en",
		"--device cpu --compute_type float32",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
}

func TestWhisperXCUDAArgs(t *testing.T) {
	w := NewWhisperX(WhisperXConfig{Model: "small", CUDAEnabled: true}, logging.NewNop())
	args := strings.Join(w.buildArgs("/tmp/a.m4a", "/tmp", "", captions.VTT), " ")
	if !strings.Contains(args, "--extra-index-url "+PypiIndexURL) || !strings.Contains(args, "--device cuda") {
		t.Fatalf("unexpected cuda args: %s", args)
	}
	if strings.Contains(args, "--language") {
		t.Fatalf("blank language should not be passed: %s", args)
	}
	if !strings.Contains(args, "--output_format vtt") {
		t.Fatalf("expected vtt output: %s", args)
	}
}

func TestWhisperXMissingOutput(t *testing.T) {
	audio := writeAudio(t)
	w := NewWhisperX(WhisperXConfig{}, logging.NewNop())
	w.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := w.Transcribe(context.Background(), audio, "en", captions.SRT); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestGeminiTranscribe(t *testing.T) {
	audio := writeAudio(t)
	var gotModel string
	var gotParts int
	g := newGemini("", func(_ context.Context, model string, contents []*genai.Content) (string, error) {
		gotModel = model
		gotParts = len(contents[0].Parts)
		return "```srt\n1\n00:00:00,000 --> 00:00:01,000\nhola\n```", nil
	}, logging.NewNop())

	text, err := g.Transcribe(context.Background(), audio, "es", captions.SRT)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if gotModel != DefaultGeminiModel || gotParts != 2 {
		t.Fatalf("unexpected request model=%s parts=%d", gotModel, gotParts)
	}
	if strings.Contains(text, "```") || !strings.HasPrefix(text, "1\n") {
		t.Fatalf("fences not stripped: %q", text)
	}
}

func TestGeminiFailureIsExternalTool(t *testing.T) {
	audio := writeAudio(t)
	g := newGemini("m", func(context.Context, string, []*genai.Content) (string, error) {
		return "", errors.New("quota exceeded")
	}, logging.NewNop())
	if _, err := g.Transcribe(context.Background(), audio, "en", captions.SRT); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestGeminiPromptNamesLanguage(t *testing.T) {
	if p := geminiPrompt("de", captions.VTT); !strings.Contains(p, "German") || !strings.Contains(p, "VTT") {
		t.Fatalf("unexpected prompt %q", p)
	}
	if p := geminiPrompt("", captions.SRT); !strings.Contains(p, "the spoken language") {
		t.Fatalf("unexpected prompt %q", p)
	}
}

func TestOpenAITranscribe(t *testing.T) {
	audio := writeAudio(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.Error(w, "bad path", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("model") != "whisper-1" || r.FormValue("response_format") != "vtt" || r.FormValue("language") != "fr" {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake audio" {
			http.Error(w, "bad file", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, "WEBVTT\n\n00:00.000 --> 00:01.000\nbonjour\n")
	}))
	defer srv.Close()

	o := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"}, logging.NewNop())
	o.WithHTTPClient(srv.Client())
	text, err := o.Transcribe(context.Background(), audio, "fr", captions.VTT)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !strings.Contains(text, "bonjour") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestOpenAIStatusMapping(t *testing.T) {
	audio := writeAudio(t)
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, services.ErrExternalTool},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusBadGateway, services.ErrTransient},
	}
	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		o := NewOpenAI(OpenAIConfig{BaseURL: srv.URL}, logging.NewNop())
		_, err := o.Transcribe(context.Background(), audio, "", captions.SRT)
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"```\nbody\n```", "body"},
		{"```vtt\nWEBVTT\n```", "WEBVTT"},
		{"```", ""},
	}
	for _, tc := range tests {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
