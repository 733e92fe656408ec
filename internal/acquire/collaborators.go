package acquire

import (
	"context"

	"captioner/internal/captions"
)

// Extractor downloads caption tracks or audio into the job's artifact.
// Implementations may report an error after having written a usable file;
// the orchestrator probes the artifact regardless of the returned error.
type Extractor interface {
	ExtractCaptions(ctx context.Context, job CaptionJob) (string, error)
	ExtractAudio(ctx context.Context, job AudioJob) (string, error)
}

// Transcriber turns an audio file into caption text. Files it writes must
// share the audio file's name prefix so they are released with it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string, format captions.Format) (string, error)
	Name() string
}
