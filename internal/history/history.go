package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/speech"
)

// Store is the slice of the API client the history list needs.
type Store interface {
	History(ctx context.Context) ([]api.Translation, error)
	DeleteTranslation(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
}

// Clipboard abstracts the system clipboard (fyne.Clipboard satisfies it).
type Clipboard interface {
	SetContent(content string)
}

// Snapshot is a consistent view of the history list for rendering.
type Snapshot struct {
	Records      []api.Translation
	Loading      bool
	ErrorMessage string

	// PlayingID is the record currently being spoken, empty when none.
	PlayingID string
	// CopiedID is the record whose copy confirmation is showing.
	CopiedID string
}

// Config holds the history controller dependencies.
type Config struct {
	Store     Store
	Speaker   speech.Speaker
	Clipboard Clipboard
	Logger    *zap.Logger

	// NoticeDuration is how long the per-record copy confirmation stays up.
	NoticeDuration time.Duration
}

// Controller manages the saved translation list: loading it in server
// order, deleting records, and per-record clipboard and playback actions.
type Controller struct {
	store     Store
	speaker   speech.Speaker
	clipboard Clipboard
	logger    *zap.Logger
	noticeTTL time.Duration

	mu          sync.Mutex
	records     []api.Translation
	loading     bool
	errMsg      string
	playingID   string
	pendingID   string
	copiedID    string
	noticeTimer *time.Timer

	onChange func(Snapshot)
}

// NewController creates a history controller with an empty list.
func NewController(config Config) *Controller {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := config.NoticeDuration
	if ttl == 0 {
		ttl = 2 * time.Second
	}

	c := &Controller{
		store:     config.Store,
		speaker:   config.Speaker,
		clipboard: config.Clipboard,
		logger:    logger,
		noticeTTL: ttl,
	}
	c.speaker.SetHandlers(speech.PlaybackHandlers{
		OnStart: c.onPlaybackStart,
		OnEnd:   c.onPlaybackEnd,
	})
	return c
}

// SetOnChange installs the render callback.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current list view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	records := make([]api.Translation, len(c.records))
	copy(records, c.records)
	return Snapshot{
		Records:      records,
		Loading:      c.loading,
		ErrorMessage: c.errMsg,
		PlayingID:    c.playingID,
		CopiedID:     c.copiedID,
	}
}

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

// Load fetches the record list. Server ordering is kept as-is.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.notifyLocked()
	c.mu.Unlock()

	records, err := c.store.History(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		c.notifyLocked()
		return err
	}
	c.records = records
	c.notifyLocked()
	return nil
}

// Delete removes one record. The list only changes after the server
// confirms the deletion.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.DeleteTranslation(ctx, id); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, record := range c.records {
		if record.ID == id {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	if c.playingID == id {
		c.mu.Unlock()
		c.speaker.Stop()
		c.mu.Lock()
	}
	c.notifyLocked()
	return nil
}

// Clear deletes every record. Callers gate this behind an explicit
// confirmation dialog; the list empties only after the server confirms.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.store.ClearHistory(ctx); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.notifyLocked()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	playing := c.playingID != ""
	c.mu.Unlock()
	if playing {
		c.speaker.Stop()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.notifyLocked()
	return nil
}

// Copy places one record's translated text on the clipboard with a
// transient per-record confirmation.
func (c *Controller) Copy(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, ok := c.findLocked(id)
	if !ok {
		return
	}
	c.clipboard.SetContent(record.TranslatedText)

	c.copiedID = id
	if c.noticeTimer != nil {
		c.noticeTimer.Stop()
	}
	c.noticeTimer = time.AfterFunc(c.noticeTTL, func() {
		c.mu.Lock()
		if c.copiedID == id {
			c.copiedID = ""
			c.notifyLocked()
		}
		c.mu.Unlock()
	})
	c.notifyLocked()
}

// Speak plays one record's translated text. Playback is exclusive: starting
// a record stops any other, and tapping the playing record stops it.
func (c *Controller) Speak(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.playingID == id && id != "" {
		c.mu.Unlock()
		c.speaker.Stop()
		return nil
	}
	record, ok := c.findLocked(id)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	playing := c.playingID != ""
	c.pendingID = id
	c.mu.Unlock()

	if playing {
		c.speaker.Stop()
	}

	if err := c.speaker.Speak(ctx, record.TranslatedText); err != nil {
		c.mu.Lock()
		c.pendingID = ""
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
	c.playingID = c.pendingID
	c.notifyLocked()
}

func (c *Controller) onPlaybackEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playingID = ""
	c.notifyLocked()
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
	c.notifyLocked()
}

func (c *Controller) findLocked(id string) (api.Translation, bool) {
	for _, record := range c.records {
		if record.ID == id {
			return record, true
		}
	}
	return api.Translation{}, false
}
