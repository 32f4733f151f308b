package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"github.com/abhiram9652/language-translation/internal"
	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/auth"
	"github.com/abhiram9652/language-translation/internal/history"
	"github.com/abhiram9652/language-translation/internal/session"
	"github.com/abhiram9652/language-translation/internal/speech"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// Domain components
	client     *api.Client
	session    *auth.Session
	translator *session.Controller
	history    *history.Controller

	// Views
	translatorView *translatorView
	historyView    *historyView
	profileView    *profileView

	// Configuration
	config *Config
	logger *zap.Logger

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	BaseURL           string
	TranslateEndpoint string

	OpenAIKey       string
	SpeechProvider  string
	CaptureLanguage string
	ChunkSeconds    int
	EnableCache     bool
	CacheDir        string

	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	Logger *zap.Logger
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	speaker := speech.DefaultSpeakerConfig()

	return &Config{
		BaseURL:           api.DefaultBaseURL,
		TranslateEndpoint: api.DefaultTranslateEndpoint,
		SpeechProvider:    speaker.Provider,
		CaptureLanguage:   "en",
		ChunkSeconds:      5,
		EnableCache:       true,
		CacheDir:          filepath.Join(homeDir, ".cache", "telugo", "tts"),
		OpenAIModel:       speaker.OpenAIModel,
		OpenAIVoice:       speaker.OpenAIVoice,
		OpenAISpeed:       speaker.OpenAISpeed,
		OpenAIInstruction: speaker.OpenAIInstruction,
	}
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.BaseURL == "" {
			config.BaseURL = defaults.BaseURL
		}
		if config.TranslateEndpoint == "" {
			config.TranslateEndpoint = defaults.TranslateEndpoint
		}
		if config.SpeechProvider == "" {
			config.SpeechProvider = defaults.SpeechProvider
		}
		if config.CaptureLanguage == "" {
			config.CaptureLanguage = defaults.CaptureLanguage
		}
		if config.ChunkSeconds == 0 {
			config.ChunkSeconds = defaults.ChunkSeconds
		}
		if config.CacheDir == "" {
			config.CacheDir = defaults.CacheDir
		}
		if config.OpenAIModel == "" {
			config.OpenAIModel = defaults.OpenAIModel
		}
		if config.OpenAIVoice == "" {
			config.OpenAIVoice = defaults.OpenAIVoice
		}
		if config.OpenAISpeed == 0 {
			config.OpenAISpeed = defaults.OpenAISpeed
		}
		if config.OpenAIInstruction == "" {
			config.OpenAIInstruction = defaults.OpenAIInstruction
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("io.github.abhiram9652.telugo")

	a := &Application{
		app:    myApp,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	a.client = api.NewClient(&api.Config{
		BaseURL:           config.BaseURL,
		TranslateEndpoint: config.TranslateEndpoint,
		Logger:            logger,
	})
	a.session = auth.NewSession(a.client, auth.NewTokenStore(auth.DefaultTokenPath()), logger)

	a.translator = session.NewController(session.Config{
		Translator: a.client,
		Recognizer: a.buildRecognizer(),
		Speaker:    a.buildSpeaker(),
		Clipboard:  myApp.Clipboard(),
		Logger:     logger,
	})
	a.history = history.NewController(history.Config{
		Store:     a.client,
		Speaker:   a.buildSpeaker(),
		Clipboard: myApp.Clipboard(),
		Logger:    logger,
	})

	a.setupUI()

	return a
}

// buildRecognizer creates the speech capture engine. Without an API key the
// microphone stays disabled and typing remains available.
func (a *Application) buildRecognizer() speech.Recognizer {
	if a.config.OpenAIKey == "" {
		a.logger.Warn("no OpenAI API key, voice input disabled")
		return &unavailableRecognizer{}
	}
	recognizer, err := speech.NewWhisperRecognizer(&speech.WhisperConfig{
		OpenAIKey:    a.config.OpenAIKey,
		Language:     a.config.CaptureLanguage,
		ChunkSeconds: a.config.ChunkSeconds,
		Logger:       a.logger,
	})
	if err != nil {
		a.logger.Warn("voice input unavailable", zap.Error(err))
		return &unavailableRecognizer{}
	}
	return recognizer
}

// buildSpeaker creates a playback engine. Each controller gets its own so
// their playback callbacks stay independent.
func (a *Application) buildSpeaker() speech.Speaker {
	speakerConfig := &speech.SpeakerConfig{
		Provider:          a.config.SpeechProvider,
		Language:          "te",
		OpenAIKey:         a.config.OpenAIKey,
		OpenAIModel:       a.config.OpenAIModel,
		OpenAIVoice:       a.config.OpenAIVoice,
		OpenAISpeed:       a.config.OpenAISpeed,
		OpenAIInstruction: a.config.OpenAIInstruction,
		EnableCache:       a.config.EnableCache,
		CacheDir:          a.config.CacheDir,
		Logger:            a.logger,
	}

	primary, err := speech.NewSpeaker(speakerConfig)
	if err != nil {
		a.logger.Warn("primary speech engine unavailable", zap.Error(err))
		primary = nil
	}

	fallbackConfig := *speakerConfig
	fallbackConfig.Provider = "espeak"
	fallback, fallbackErr := speech.NewESpeakSpeaker(&fallbackConfig)
	if fallbackErr != nil {
		a.logger.Warn("espeak fallback unavailable", zap.Error(fallbackErr))
	}

	switch {
	case primary != nil && fallback != nil:
		return speech.NewSpeakerWithFallback(primary, fallback, a.logger)
	case primary != nil:
		return primary
	case fallback != nil:
		return fallback
	default:
		return &unavailableSpeaker{}
	}
}

// setupUI creates the window and installs the authentication gate.
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Telugo v%s - English to Telugu Translator", internal.Version))
	a.window.Resize(fyne.NewSize(900, 680))

	a.translatorView = newTranslatorView(a)
	a.historyView = newHistoryView(a)
	a.profileView = newProfileView(a)

	// Route on every auth state change: loading splash, login stack or the
	// main tabs. Authenticated users never see the login stack and vice
	// versa.
	a.session.OnChange(func(state auth.State, user *api.User) {
		fyne.Do(func() {
			a.route(state)
		})
	})

	a.translator.SetOnChange(func(snap session.Snapshot) {
		fyne.Do(func() {
			a.translatorView.render(snap)
		})
	})
	a.history.SetOnChange(func(snap history.Snapshot) {
		fyne.Do(func() {
			a.historyView.render(snap)
		})
	})

	a.window.SetContent(a.loadingScreen())

	a.window.SetOnClosed(func() {
		a.translator.Reset()
		a.cancel()
		a.wg.Wait()
	})
}

func (a *Application) route(state auth.State) {
	switch state {
	case auth.StateLoading:
		a.window.SetContent(a.loadingScreen())
	case auth.StateUnauthenticated:
		a.showLogin()
	case auth.StateAuthenticated:
		a.showMain()
	}
}

func (a *Application) loadingScreen() fyne.CanvasObject {
	spinner := widget.NewProgressBarInfinite()
	label := widget.NewLabel("Loading...")
	label.Alignment = fyne.TextAlignCenter
	return container.NewCenter(container.NewVBox(label, spinner))
}

// showMain displays the authenticated tabs: translator, history, profile.
func (a *Application) showMain() {
	a.profileView.refresh()

	tabs := container.NewAppTabs(
		container.NewTabItem("Translate", a.translatorView.content()),
		container.NewTabItem("History", a.historyView.content()),
		container.NewTabItem("Profile", a.profileView.content()),
	)
	tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == "History" {
			a.loadHistory()
		}
	}

	// The tooltip layer must wrap the content before tooltips are set.
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(tabs, a.window.Canvas()))
	a.translatorView.setupTooltips()
	a.historyView.setupTooltips()

	a.loadHistory()
}

func (a *Application) loadHistory() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.history.Load(a.ctx); err != nil {
			a.logger.Warn("loading history failed", zap.Error(err))
		}
	}()
}

// Run starts the GUI application
func (a *Application) Run() {
	// Resolve the stored token in the background; the gate renders the
	// loading screen until the session settles.
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.session.Init(a.ctx)
	}()

	a.window.ShowAndRun()
}

// unavailableRecognizer reports that voice input cannot work in this
// environment. The rest of the translator keeps working.
type unavailableRecognizer struct {
	handlers speech.Handlers
}

func (r *unavailableRecognizer) Start(ctx context.Context) error {
	return speech.NewCaptureError(speech.ErrCodeUnsupported, nil)
}

func (r *unavailableRecognizer) Stop() {}

func (r *unavailableRecognizer) SetHandlers(h speech.Handlers) {
	r.handlers = h
}

// unavailableSpeaker reports that playback cannot work in this environment.
type unavailableSpeaker struct {
	handlers speech.PlaybackHandlers
}

func (s *unavailableSpeaker) Speak(ctx context.Context, text string) error {
	return fmt.Errorf("no speech engine available")
}

func (s *unavailableSpeaker) Stop() {}

func (s *unavailableSpeaker) SetHandlers(h speech.PlaybackHandlers) {
	s.handlers = h
}

func (s *unavailableSpeaker) Name() string { return "unavailable" }

func (s *unavailableSpeaker) IsAvailable() error {
	return fmt.Errorf("no speech engine available")
}
