package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/speech"
)

// fakeStore serves a canned record list and records mutations.
type fakeStore struct {
	records    []api.Translation
	historyErr error
	deleteErr  error
	clearErr   error
	deletedIDs []string
	cleared    bool
}

func (f *fakeStore) History(ctx context.Context) ([]api.Translation, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.records, nil
}

func (f *fakeStore) DeleteTranslation(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeStore) ClearHistory(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	return nil
}

type fakeSpeaker struct {
	handlers   speech.PlaybackHandlers
	speakCalls int
	stopCalls  int
	lastText   string
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.speakCalls++
	f.lastText = text
	f.handlers.OnStart()
	return nil
}

func (f *fakeSpeaker) Stop() {
	f.stopCalls++
	f.handlers.OnEnd()
}

func (f *fakeSpeaker) SetHandlers(h speech.PlaybackHandlers) { f.handlers = h }
func (f *fakeSpeaker) Name() string                          { return "fake" }
func (f *fakeSpeaker) IsAvailable() error                    { return nil }

type fakeClipboard struct {
	content string
}

func (f *fakeClipboard) SetContent(content string) { f.content = content }

func sampleRecords() []api.Translation {
	return []api.Translation{
		{ID: "3", SourceText: "good morning", TranslatedText: "శుభోదయం"},
		{ID: "2", SourceText: "thank you", TranslatedText: "ధన్యవాదాలు"},
		{ID: "1", SourceText: "hello", TranslatedText: "నమస్కారం"},
	}
}

type fixture struct {
	controller *Controller
	store      *fakeStore
	speaker    *fakeSpeaker
	clipboard  *fakeClipboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     &fakeStore{records: sampleRecords()},
		speaker:   &fakeSpeaker{},
		clipboard: &fakeClipboard{},
	}
	f.controller = NewController(Config{
		Store:          f.store,
		Speaker:        f.speaker,
		Clipboard:      f.clipboard,
		NoticeDuration: 20 * time.Millisecond,
	})
	return f
}

func TestLoadKeepsServerOrder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	snap := f.controller.Snapshot()
	require.Len(t, snap.Records, 3)
	assert.Equal(t, "3", snap.Records[0].ID)
	assert.Equal(t, "2", snap.Records[1].ID)
	assert.Equal(t, "1", snap.Records[2].ID)
	assert.False(t, snap.Loading)
}

func TestLoadFailureSurfacesError(t *testing.T) {
	f := newFixture(t)
	f.store.historyErr = errors.New("An error occurred with the request")

	err := f.controller.Load(context.Background())
	require.Error(t, err)

	snap := f.controller.Snapshot()
	assert.Empty(t, snap.Records)
	assert.Equal(t, "An error occurred with the request", snap.ErrorMessage)
	assert.False(t, snap.Loading)
}

func TestDeleteRemovesAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	require.NoError(t, f.controller.Delete(context.Background(), "2"))

	snap := f.controller.Snapshot()
	require.Len(t, snap.Records, 2)
	assert.Equal(t, "3", snap.Records[0].ID)
	assert.Equal(t, "1", snap.Records[1].ID)
	assert.Equal(t, []string{"2"}, f.store.deletedIDs)
}

func TestDeleteFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))
	f.store.deleteErr = errors.New("An error occurred with the request")

	err := f.controller.Delete(context.Background(), "2")
	require.Error(t, err)

	snap := f.controller.Snapshot()
	assert.Len(t, snap.Records, 3, "record stays until the server confirms")
	assert.Equal(t, "An error occurred with the request", snap.ErrorMessage)
}

func TestClearEmptiesAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	require.NoError(t, f.controller.Clear(context.Background()))
	assert.True(t, f.store.cleared)
	assert.Empty(t, f.controller.Snapshot().Records)
}

func TestClearFailureKeepsRecords(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))
	f.store.clearErr = errors.New("An error occurred with the request")

	err := f.controller.Clear(context.Background())
	require.Error(t, err)
	assert.Len(t, f.controller.Snapshot().Records, 3)
}

func TestCopyRecord(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	f.controller.Copy("1")
	assert.Equal(t, "నమస్కారం", f.clipboard.content)
	assert.Equal(t, "1", f.controller.Snapshot().CopiedID)

	require.Eventually(t, func() bool {
		return f.controller.Snapshot().CopiedID == ""
	}, time.Second, 5*time.Millisecond)
}

func TestSpeakIsExclusive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	require.NoError(t, f.controller.Speak(context.Background(), "1"))
	assert.Equal(t, "1", f.controller.Snapshot().PlayingID)
	assert.Equal(t, "నమస్కారం", f.speaker.lastText)

	// Starting another record stops the first.
	require.NoError(t, f.controller.Speak(context.Background(), "2"))
	assert.Equal(t, 1, f.speaker.stopCalls)
	assert.Equal(t, "2", f.controller.Snapshot().PlayingID)
	assert.Equal(t, "ధన్యవాదాలు", f.speaker.lastText)
}

func TestSpeakPlayingRecordStopsIt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))

	require.NoError(t, f.controller.Speak(context.Background(), "1"))
	require.NoError(t, f.controller.Speak(context.Background(), "1"))

	assert.Equal(t, 1, f.speaker.speakCalls)
	assert.Equal(t, 1, f.speaker.stopCalls)
	assert.Equal(t, "", f.controller.Snapshot().PlayingID)
}

func TestDeletePlayingRecordStopsPlayback(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Load(context.Background()))
	require.NoError(t, f.controller.Speak(context.Background(), "1"))

	require.NoError(t, f.controller.Delete(context.Background(), "1"))
	assert.Equal(t, 1, f.speaker.stopCalls)
	assert.Equal(t, "", f.controller.Snapshot().PlayingID)
}
