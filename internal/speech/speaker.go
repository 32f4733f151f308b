package speech

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PlaybackHandlers carries the playback lifecycle callbacks.
type PlaybackHandlers struct {
	OnStart func()
	OnEnd   func()
}

// Speaker is a text-to-speech playback engine. Speak starts playback and
// returns; completion is delivered through OnEnd.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
	SetHandlers(h PlaybackHandlers)
	Name() string
	IsAvailable() error
}

// SpeakerConfig holds common configuration for speech playback providers.
type SpeakerConfig struct {
	Provider string // "openai" or "espeak"
	Language string // voice language tag, e.g. "te"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // voice instructions for gpt-4o-mini-tts

	EnableCache bool
	CacheDir    string

	Logger *zap.Logger
}

// DefaultSpeakerConfig returns defaults tuned for Telugu output.
func DefaultSpeakerConfig() *SpeakerConfig {
	return &SpeakerConfig{
		Provider:          "openai",
		Language:          "te",
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking Telugu language (తెలుగు). Pronounce the Telugu text with authentic Telugu phonetics, clearly and at a natural pace.",
	}
}

// NewSpeaker creates the appropriate playback engine based on configuration.
func NewSpeaker(config *SpeakerConfig) (Speaker, error) {
	if config == nil {
		config = DefaultSpeakerConfig()
	}

	switch config.Provider {
	case "openai":
		return NewOpenAISpeaker(config)
	case "espeak":
		return NewESpeakSpeaker(config)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}

// SpeakerWithFallback wraps a primary engine with a fallback option.
type SpeakerWithFallback struct {
	primary  Speaker
	fallback Speaker
	logger   *zap.Logger
}

// NewSpeakerWithFallback creates a speaker that falls back to the secondary
// engine when the primary fails to start playback.
func NewSpeakerWithFallback(primary, fallback Speaker, logger *zap.Logger) Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpeakerWithFallback{primary: primary, fallback: fallback, logger: logger}
}

// Speak tries the primary engine first, falls back to the secondary on error.
func (s *SpeakerWithFallback) Speak(ctx context.Context, text string) error {
	err := s.primary.Speak(ctx, text)
	if err != nil {
		s.logger.Warn("primary speech engine failed, falling back",
			zap.String("primary", s.primary.Name()),
			zap.String("fallback", s.fallback.Name()),
			zap.Error(err))
		return s.fallback.Speak(ctx, text)
	}
	return nil
}

// Stop stops whichever engine may be playing.
func (s *SpeakerWithFallback) Stop() {
	s.primary.Stop()
	s.fallback.Stop()
}

// SetHandlers installs the callbacks on both engines; only the one actually
// playing fires them.
func (s *SpeakerWithFallback) SetHandlers(h PlaybackHandlers) {
	s.primary.SetHandlers(h)
	s.fallback.SetHandlers(h)
}

// Name returns the combined engine name.
func (s *SpeakerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable checks that at least one engine is usable.
func (s *SpeakerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}
	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("both speech engines unavailable: primary=%v, fallback=%v", primaryErr, fallbackErr)
}
