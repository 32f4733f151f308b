package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/speech"
)

// State is the single discriminant of the translation session. The session
// is always in exactly one of these phases.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranslating
	StateSpeaking
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranslating:
		return "translating"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// Translator is the slice of the API client the session needs.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	SaveTranslation(ctx context.Context, sourceText, translatedText string) (*api.Translation, error)
}

// Clipboard abstracts the system clipboard (fyne.Clipboard satisfies it).
type Clipboard interface {
	SetContent(content string)
}

// Snapshot is a consistent view of the session for rendering.
type Snapshot struct {
	State          State
	SourceText     string
	TranslatedText string
	ErrorMessage   string
	CopyNotice     bool
}

// Config holds the session controller dependencies.
type Config struct {
	Translator Translator
	Recognizer speech.Recognizer
	Speaker    speech.Speaker
	Clipboard  Clipboard
	Logger     *zap.Logger

	// MicProbe verifies capture is possible before a session starts.
	// Defaults to a short throwaway recording.
	MicProbe func(ctx context.Context) error

	// NoticeDuration is how long the copy confirmation stays up.
	NoticeDuration time.Duration
}

// Controller drives one translation session: capture speech into source
// text, translate it, persist the pair and optionally speak the result.
type Controller struct {
	translator Translator
	recognizer speech.Recognizer
	speaker    speech.Speaker
	clipboard  Clipboard
	logger     *zap.Logger
	micProbe   func(ctx context.Context) error
	noticeTTL  time.Duration

	mu             sync.Mutex
	state          State
	sourceText     string
	translatedText string
	errMsg         string
	copyNotice     bool
	noticeTimer    *time.Timer

	captureCtx    context.Context
	stopRequested bool
	restarted     bool

	onChange func(Snapshot)
}

// NewController creates a session controller in the idle state.
func NewController(config Config) *Controller {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	probe := config.MicProbe
	if probe == nil {
		probe = func(ctx context.Context) error {
			return speech.ProbeMicrophone(ctx, filepath.Join(os.TempDir(), "telugo-mic-probe.wav"))
		}
	}
	ttl := config.NoticeDuration
	if ttl == 0 {
		ttl = 3 * time.Second
	}

	c := &Controller{
		translator: config.Translator,
		recognizer: config.Recognizer,
		speaker:    config.Speaker,
		clipboard:  config.Clipboard,
		logger:     logger,
		micProbe:   probe,
		noticeTTL:  ttl,
	}

	c.recognizer.SetHandlers(speech.Handlers{
		OnResult: c.onCaptureResult,
		OnError:  c.onCaptureError,
		OnEnd:    c.onCaptureEnd,
	})
	c.speaker.SetHandlers(speech.PlaybackHandlers{
		OnStart: c.onPlaybackStart,
		OnEnd:   c.onPlaybackEnd,
	})
	return c
}

// SetOnChange installs the render callback. It fires after every visible
// change with a consistent snapshot.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:          c.state,
		SourceText:     c.sourceText,
		TranslatedText: c.translatedText,
		ErrorMessage:   c.errMsg,
		CopyNotice:     c.copyNotice,
	}
}

// notifyLocked publishes the current snapshot. The callback runs without the
// lock so handlers may call back into the controller.
func (c *Controller) notifyLocked() {
	fn := c.onChange
	if fn == nil {
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	fn(snap)
	c.mu.Lock()
}

// SetSourceText replaces the source text, for manual edits in the entry.
func (c *Controller) SetSourceText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceText = text
}

// StartRecording begins a capture session. The source text is cleared and
// then grows live as transcripts arrive.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.micProbe(ctx); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.sourceText = ""
	c.errMsg = ""
	c.captureCtx = ctx
	c.stopRequested = false
	c.restarted = false
	c.state = StateRecording
	c.notifyLocked()
	c.mu.Unlock()

	if err := c.recognizer.Start(ctx); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}
	return nil
}

// StopRecording ends the capture session. The transcript captured so far
// stays in the source text.
func (c *Controller) StopRecording() {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	c.stopRequested = true
	c.mu.Unlock()

	// Stop blocks until the engine has wound down and fired OnEnd, so it
	// must not run under the lock.
	c.recognizer.Stop()
}

func (c *Controller) onCaptureResult(transcript string, final bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceText = transcript
	c.notifyLocked()
}

func (c *Controller) onCaptureError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = err.Error()
	c.notifyLocked()
}

// onCaptureEnd handles the engine stopping. A stop the user did not ask for
// gets exactly one automatic restart; a second end, or a restart failure,
// goes back to idle.
func (c *Controller) onCaptureEnd() {
	c.mu.Lock()
	if c.state != StateRecording || c.stopRequested {
		if c.state == StateRecording {
			c.state = StateIdle
		}
		c.notifyLocked()
		c.mu.Unlock()
		return
	}

	if c.restarted {
		c.state = StateIdle
		c.notifyLocked()
		c.mu.Unlock()
		return
	}
	c.restarted = true
	ctx := c.captureCtx
	c.mu.Unlock()

	c.logger.Debug("capture ended unexpectedly, restarting")
	if err := c.recognizer.Start(ctx); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
	}
}

// Translate sends the source text to the translation service and persists
// the result as a history record. Persistence runs strictly after the
// translation succeeds; a persist failure keeps the translated text visible
// but leaves no record.
func (c *Controller) Translate(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	source := strings.TrimSpace(c.sourceText)
	if source == "" {
		c.errMsg = "Please enter some text to translate"
		c.notifyLocked()
		c.mu.Unlock()
		return api.NewValidationError(c.errMsg)
	}
	c.errMsg = ""
	c.state = StateTranslating
	c.notifyLocked()
	c.mu.Unlock()

	translated, err := c.translator.Translate(ctx, source)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.translatedText = translated
	c.notifyLocked()
	c.mu.Unlock()

	_, err = c.translator.SaveTranslation(ctx, source, translated)

	c.mu.Lock()
	c.state = StateIdle
	if err != nil {
		c.logger.Warn("saving translation failed", zap.Error(err))
		c.errMsg = err.Error()
	}
	c.notifyLocked()
	c.mu.Unlock()
	return err
}

// Speak plays the translated text aloud. Calling it while already speaking
// stops playback instead.
func (c *Controller) Speak(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateSpeaking {
		c.mu.Unlock()
		c.speaker.Stop()
		return nil
	}
	if c.state != StateIdle || c.translatedText == "" {
		c.mu.Unlock()
		return nil
	}
	text := c.translatedText
	c.mu.Unlock()

	if err := c.speaker.Speak(ctx, text); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Controller) onPlaybackStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateSpeaking
	c.notifyLocked()
}

func (c *Controller) onPlaybackEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSpeaking {
		c.state = StateIdle
	}
	c.notifyLocked()
}

// Copy places the translated text on the clipboard and raises a transient
// confirmation that dismisses itself.
func (c *Controller) Copy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.translatedText == "" {
		return
	}
	c.clipboard.SetContent(c.translatedText)

	c.copyNotice = true
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = time.AfterFunc(c.noticeTTL, func() {
		c.mu.Lock()
		c.copyNotice = false
		c.notifyLocked()
		c.mu.Unlock()
	})
	c.notifyLocked()
}

// Reset cancels any recording or playback and clears the whole session.
func (c *Controller) Reset() {
	c.mu.Lock()
	recording := c.state == StateRecording
	if recording {
		c.stopRequested = true
	}
	c.mu.Unlock()

	if recording {
		c.recognizer.Stop()
	}
	c.speaker.Stop()

	c.mu.Lock()
	c.state = StateIdle
	c.sourceText = ""
	c.translatedText = ""
	c.errMsg = ""
	c.copyNotice = false
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
		c.noticeTimer = nil
	}
	c.notifyLocked()
	c.mu.Unlock()
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
	c.notifyLocked()
}
