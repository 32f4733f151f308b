package speech

import (
	"fmt"
	"os/exec"
	"runtime"
)

// playbackCommand builds a platform-specific command playing the audio file.
func playbackCommand(audioFile string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", audioFile), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil {
			return exec.Command("mpg123", "-q", audioFile), nil
		}
		if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audioFile), nil
		}
		if _, err := exec.LookPath("play"); err == nil {
			return exec.Command("play", "-q", audioFile), nil
		}
		if _, err := exec.LookPath("paplay"); err == nil {
			return exec.Command("paplay", audioFile), nil
		}
		if _, err := exec.LookPath("aplay"); err == nil {
			return exec.Command("aplay", "-q", audioFile), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", audioFile), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
