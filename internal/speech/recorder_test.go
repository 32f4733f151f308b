package speech

import (
	"context"
	"strings"
	"testing"
)

func TestRecorderCommandArecord(t *testing.T) {
	rec := &recorder{program: "arecord"}
	cmd := rec.command(context.Background(), 5, "/tmp/chunk.wav")

	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"arecord", "-r 16000", "-c 1", "-d 5", "/tmp/chunk.wav"} {
		if !strings.Contains(args, want) {
			t.Errorf("command %q missing %q", args, want)
		}
	}
}

func TestRecorderCommandRec(t *testing.T) {
	rec := &recorder{program: "rec"}
	cmd := rec.command(context.Background(), 3, "/tmp/chunk.wav")

	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"rec", "-r 16000", "-c 1", "trim 0 3"} {
		if !strings.Contains(args, want) {
			t.Errorf("command %q missing %q", args, want)
		}
	}
}

func TestRecorderCommandFFmpeg(t *testing.T) {
	rec := &recorder{program: "ffmpeg"}
	cmd := rec.command(context.Background(), 5, "/tmp/chunk.wav")

	args := strings.Join(cmd.Args, " ")
	for _, want := range []string{"ffmpeg", "-t 5", "-ar 16000", "-ac 1", "/tmp/chunk.wav"} {
		if !strings.Contains(args, want) {
			t.Errorf("command %q missing %q", args, want)
		}
	}
}

func TestDefaultWhisperConfig(t *testing.T) {
	config := DefaultWhisperConfig()

	if config.Model != "whisper-1" {
		t.Errorf("Expected model 'whisper-1', got '%s'", config.Model)
	}
	if config.Language != "en" {
		t.Errorf("Expected language 'en', got '%s'", config.Language)
	}
	if config.ChunkSeconds != 5 {
		t.Errorf("Expected chunk seconds 5, got %d", config.ChunkSeconds)
	}
}

func TestNewWhisperRecognizerRequiresKey(t *testing.T) {
	_, err := NewWhisperRecognizer(&WhisperConfig{})
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if err.Error() != "OpenAI API key is required" {
		t.Errorf("error = %q, want key requirement", err.Error())
	}
}
