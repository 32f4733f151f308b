package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// ESpeakSpeaker implements Speaker using espeak-ng, which plays straight to
// the default audio device. Offline fallback for when the OpenAI engine is
// unavailable; voice quality is what it is.
type ESpeakSpeaker struct {
	voice    string
	handlers PlaybackHandlers

	mu      sync.Mutex
	playCmd *exec.Cmd
}

// NewESpeakSpeaker creates an espeak-ng playback engine.
func NewESpeakSpeaker(config *SpeakerConfig) (Speaker, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	voice := config.Language
	if voice == "" {
		voice = "te"
	}
	return &ESpeakSpeaker{voice: voice}, nil
}

// SetHandlers installs the playback lifecycle callbacks.
func (s *ESpeakSpeaker) SetHandlers(h PlaybackHandlers) {
	s.handlers = h
}

// Speak plays the text through espeak-ng.
func (s *ESpeakSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", "-v", s.voice, text)

	s.mu.Lock()
	s.playCmd = cmd
	s.mu.Unlock()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("espeak-ng failed to start: %w", err)
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
func (s *ESpeakSpeaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playCmd != nil && s.playCmd.Process != nil {
		s.playCmd.Process.Kill()
		s.playCmd = nil
	}
}

// Name returns the engine name.
func (s *ESpeakSpeaker) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed.
func (s *ESpeakSpeaker) IsAvailable() error {
	return checkESpeakInstalled()
}

func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH")
	}
	return nil
}
