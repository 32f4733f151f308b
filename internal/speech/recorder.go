package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// recorder captures microphone audio to WAV files using whatever capture
// binary is installed, mirroring the playback lookup chain.
type recorder struct {
	program string
}

// newRecorder finds a usable capture program for the current platform.
func newRecorder() (*recorder, error) {
	switch runtime.GOOS {
	case "linux":
		for _, program := range []string{"arecord", "rec", "ffmpeg"} {
			if _, err := exec.LookPath(program); err == nil {
				return &recorder{program: program}, nil
			}
		}
		return nil, fmt.Errorf("no audio recorder found. Install arecord, sox, or ffmpeg")
	case "darwin":
		for _, program := range []string{"rec", "ffmpeg"} {
			if _, err := exec.LookPath(program); err == nil {
				return &recorder{program: program}, nil
			}
		}
		return nil, fmt.Errorf("no audio recorder found. Install sox or ffmpeg")
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// command builds the capture command for one chunk of the given duration.
// 16kHz mono signed 16-bit, which is what Whisper expects.
func (r *recorder) command(ctx context.Context, seconds int, outputFile string) *exec.Cmd {
	duration := strconv.Itoa(seconds)

	switch r.program {
	case "arecord":
		return exec.CommandContext(ctx, "arecord",
			"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", duration, outputFile)
	case "rec":
		return exec.CommandContext(ctx, "rec",
			"-q", "-r", "16000", "-c", "1", "-b", "16", outputFile, "trim", "0", duration)
	case "ffmpeg":
		input := "default"
		format := "alsa"
		if runtime.GOOS == "darwin" {
			input = ":0"
			format = "avfoundation"
		}
		return exec.CommandContext(ctx, "ffmpeg",
			"-loglevel", "quiet", "-y",
			"-f", format, "-i", input,
			"-t", duration, "-ar", "16000", "-ac", "1", outputFile)
	default:
		// newRecorder only hands out known programs
		return exec.CommandContext(ctx, r.program, outputFile)
	}
}

// ProbeMicrophone checks that audio capture is possible at all by recording
// a very short throwaway chunk. Used before a capture session starts, the
// way the original asks for microphone permission up front.
func ProbeMicrophone(ctx context.Context, tempFile string) error {
	rec, err := newRecorder()
	if err != nil {
		return NewCaptureError(ErrCodeUnsupported, err)
	}

	cmd := rec.command(ctx, 1, tempFile)
	if err := cmd.Run(); err != nil {
		return NewCaptureError(ErrCodeAudioCapture, err)
	}
	return nil
}
