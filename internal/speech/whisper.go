package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// WhisperConfig holds configuration for the Whisper-backed recognizer.
type WhisperConfig struct {
	OpenAIKey    string
	Model        string // "whisper-1"
	Language     string // BCP-47 source language, e.g. "en"
	ChunkSeconds int    // capture chunk length
	TempDir      string
	Logger       *zap.Logger
}

// DefaultWhisperConfig returns default recognizer configuration.
func DefaultWhisperConfig() *WhisperConfig {
	return &WhisperConfig{
		Model:        openai.Whisper1,
		Language:     "en",
		ChunkSeconds: 5,
		TempDir:      os.TempDir(),
	}
}

// WhisperRecognizer implements Recognizer by recording fixed-length
// microphone chunks and transcribing each through the OpenAI audio API.
// Chunk transcripts are concatenated into one running transcript which is
// delivered on every commit, so callers see the text grow live.
type WhisperRecognizer struct {
	client   *openai.Client
	config   *WhisperConfig
	logger   *zap.Logger
	handlers Handlers

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// NewWhisperRecognizer creates a recognizer. The API key is required.
func NewWhisperRecognizer(config *WhisperConfig) (*WhisperRecognizer, error) {
	if config == nil {
		config = DefaultWhisperConfig()
	}
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.ChunkSeconds <= 0 {
		config.ChunkSeconds = 5
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WhisperRecognizer{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		logger: logger,
	}, nil
}

// SetHandlers installs the event callbacks.
func (r *WhisperRecognizer) SetHandlers(h Handlers) {
	r.handlers = h
}

// Start begins the capture loop. It fails fast when no capture binary is
// available or a session is already running.
func (r *WhisperRecognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("capture session already running")
	}

	rec, err := newRecorder()
	if err != nil {
		r.mu.Unlock()
		return NewCaptureError(ErrCodeUnsupported, err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.captureLoop(sessionCtx, rec)
	return nil
}

// Stop ends the session; OnEnd fires once the loop has wound down.
func (r *WhisperRecognizer) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

func (r *WhisperRecognizer) captureLoop(ctx context.Context, rec *recorder) {
	defer r.wg.Done()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		if r.handlers.OnEnd != nil {
			r.handlers.OnEnd()
		}
	}()

	var transcript strings.Builder
	silentChunks := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		chunkFile := filepath.Join(r.config.TempDir, "capture-"+uuid.NewString()+".wav")
		cmd := rec.command(ctx, r.config.ChunkSeconds, chunkFile)
		if err := cmd.Run(); err != nil {
			os.Remove(chunkFile)
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("audio capture failed", zap.String("program", rec.program), zap.Error(err))
			r.emitError(NewCaptureError(ErrCodeAudioCapture, err))
			return
		}

		text, err := r.transcribe(ctx, chunkFile)
		os.Remove(chunkFile)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("transcription failed", zap.Error(err))
			r.emitError(NewCaptureError(ErrCodeNetwork, err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			silentChunks++
			// Three silent chunks in a row reads as nobody speaking.
			if silentChunks == 3 {
				r.emitError(NewCaptureError(ErrCodeNoSpeech, errors.New("no speech detected")))
			}
			continue
		}
		silentChunks = 0

		if transcript.Len() > 0 {
			transcript.WriteString(" ")
		}
		transcript.WriteString(text)
		if r.handlers.OnResult != nil {
			r.handlers.OnResult(transcript.String(), true)
		}
	}
}

func (r *WhisperRecognizer) transcribe(ctx context.Context, file string) (string, error) {
	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    r.config.Model,
		FilePath: file,
		Language: r.config.Language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription API error: %w", err)
	}
	return resp.Text, nil
}

func (r *WhisperRecognizer) emitError(err error) {
	if r.handlers.OnError != nil {
		r.handlers.OnError(err)
	}
}
