package speech

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAISpeaker implements Speaker using the OpenAI TTS API. Synthesized
// audio is cached on disk so repeated playback of the same text costs one
// API call.
type OpenAISpeaker struct {
	client   *openai.Client
	config   *SpeakerConfig
	logger   *zap.Logger
	handlers PlaybackHandlers

	mu      sync.Mutex
	playCmd *exec.Cmd
}

// NewOpenAISpeaker creates a new OpenAI TTS playback engine.
func NewOpenAISpeaker(config *SpeakerConfig) (Speaker, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	speaker := &OpenAISpeaker{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		logger: logger,
	}

	if config.EnableCache && config.CacheDir != "" {
		if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return speaker, nil
}

// SetHandlers installs the playback lifecycle callbacks.
func (s *OpenAISpeaker) SetHandlers(h PlaybackHandlers) {
	s.handlers = h
}

// Speak synthesizes the text and starts playback. Playback runs in the
// background; OnEnd fires when it finishes or is stopped.
func (s *OpenAISpeaker) Speak(ctx context.Context, text string) error {
	audioFile, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}

	cmd, err := playbackCommand(audioFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.playCmd = cmd
	s.mu.Unlock()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	if s.handlers.OnStart != nil {
		s.handlers.OnStart()
	}

	go func() {
		cmd.Wait()
		s.mu.Lock()
		s.playCmd = nil
		s.mu.Unlock()
		if s.handlers.OnEnd != nil {
			s.handlers.OnEnd()
		}
	}()
	return nil
}

// Stop kills any in-progress playback.
func (s *OpenAISpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playCmd != nil && s.playCmd.Process != nil {
		s.playCmd.Process.Kill()
		s.playCmd = nil
	}
}

// Name returns the engine name.
func (s *OpenAISpeaker) Name() string {
	return "openai"
}

// IsAvailable checks that the engine is configured.
func (s *OpenAISpeaker) IsAvailable() error {
	if s.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// synthesize produces an mp3 for the text, serving from cache when enabled.
func (s *OpenAISpeaker) synthesize(ctx context.Context, text string) (string, error) {
	outputFile := s.cacheFilePath(text)
	if s.config.EnableCache {
		if _, err := os.Stat(outputFile); err == nil {
			return outputFile, nil
		}
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(s.config.OpenAIVoice),
		Speed:          s.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if s.config.OpenAIInstruction != "" && s.config.OpenAIModel == "gpt-4o-mini-tts" {
		req.Instructions = s.config.OpenAIInstruction
	}

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return "", fmt.Errorf("no audio data received from OpenAI")
	}

	s.logger.Debug("synthesized speech", zap.Int64("bytes", written), zap.String("file", outputFile))
	return outputFile, nil
}

// cacheFilePath derives a stable file path from the text and voice settings.
func (s *OpenAISpeaker) cacheFilePath(text string) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(s.config.OpenAIModel))
	h.Write([]byte(s.config.OpenAIVoice))
	h.Write([]byte(s.config.Language))
	hash := hex.EncodeToString(h.Sum(nil))

	cacheDir := s.config.CacheDir
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	// First 2 chars as subdirectory for better file system performance
	return filepath.Join(cacheDir, hash[:2], hash[2:]+".mp3")
}
