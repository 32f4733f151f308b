package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/abhiram9652/language-translation/internal/session"
)

// translatorView is the main translation screen: speak or type English on
// the left, read and listen to Telugu on the right.
type translatorView struct {
	app *Application

	source     *SourceEntry
	translated *widget.Label

	micBtn       *ttwidget.Button
	translateBtn *ttwidget.Button
	resetBtn     *ttwidget.Button
	speakBtn     *ttwidget.Button
	copyBtn      *ttwidget.Button

	statusLabel *widget.Label
	copyNotice  *widget.Label
	banner      *errorBanner

	root fyne.CanvasObject
}

func newTranslatorView(a *Application) *translatorView {
	v := &translatorView{app: a}

	v.banner = newErrorBanner(func() {
		a.translator.DismissError()
	})

	v.source = NewSourceEntry()
	v.source.SetPlaceHolder("Speak or type English text...")
	v.source.OnChanged = func(text string) {
		a.translator.SetSourceText(text)
		v.updateTranslateButton(a.translator.Snapshot().State)
	}
	v.source.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	v.translated = widget.NewLabel("")
	v.translated.Wrapping = fyne.TextWrapWord

	v.micBtn = ttwidget.NewButtonWithIcon("", theme.MediaRecordIcon(), v.onMicToggle)
	v.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), v.onTranslate)
	v.translateBtn.Importance = widget.HighImportance
	v.translateBtn.Disable()
	v.resetBtn = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), v.onReset)

	v.speakBtn = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), v.onSpeak)
	v.speakBtn.Disable()
	v.copyBtn = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		a.translator.Copy()
	})
	v.copyBtn.Disable()

	v.copyNotice = widget.NewLabel("Copied to clipboard!")
	v.copyNotice.Importance = widget.SuccessImportance
	v.copyNotice.Hide()

	v.statusLabel = widget.NewLabel("Ready")
	v.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	sourceHeader := widget.NewLabel("English")
	sourceHeader.TextStyle = fyne.TextStyle{Bold: true}
	sourcePane := container.NewBorder(
		sourceHeader,
		container.NewHBox(v.micBtn, v.translateBtn, v.resetBtn),
		nil, nil,
		container.NewScroll(v.source),
	)

	translatedHeader := widget.NewLabel("Telugu (తెలుగు)")
	translatedHeader.TextStyle = fyne.TextStyle{Bold: true}
	translatedPane := container.NewBorder(
		translatedHeader,
		container.NewHBox(v.speakBtn, v.copyBtn, v.copyNotice),
		nil, nil,
		container.NewScroll(v.translated),
	)

	split := container.NewHSplit(sourcePane, translatedPane)
	split.SetOffset(0.5)

	v.root = container.NewBorder(
		v.banner.Object(),
		v.statusLabel,
		nil, nil,
		split,
	)
	return v
}

func (v *translatorView) content() fyne.CanvasObject {
	return v.root
}

func (v *translatorView) setupTooltips() {
	v.micBtn.SetToolTip("Start or stop voice input")
	v.resetBtn.SetToolTip("Clear the session")
	v.speakBtn.SetToolTip("Listen to the translation")
	v.copyBtn.SetToolTip("Copy the translation")
}

func (v *translatorView) onMicToggle() {
	snap := v.app.translator.Snapshot()
	v.app.wg.Add(1)
	go func() {
		defer v.app.wg.Done()
		if snap.State == session.StateRecording {
			v.app.translator.StopRecording()
		} else {
			v.app.translator.StartRecording(v.app.ctx)
		}
	}()
}

func (v *translatorView) onTranslate() {
	v.app.wg.Add(1)
	go func() {
		defer v.app.wg.Done()
		v.app.translator.Translate(v.app.ctx)
	}()
}

func (v *translatorView) onSpeak() {
	v.app.wg.Add(1)
	go func() {
		defer v.app.wg.Done()
		v.app.translator.Speak(v.app.ctx)
	}()
}

func (v *translatorView) onReset() {
	v.app.wg.Add(1)
	go func() {
		defer v.app.wg.Done()
		v.app.translator.Reset()
		fyne.Do(func() {
			v.app.window.Canvas().Focus(v.source)
		})
	}()
}

// render redraws the view from a session snapshot. Must run on the UI
// thread.
func (v *translatorView) render(snap session.Snapshot) {
	if v.source.Text != snap.SourceText {
		v.source.SetText(snap.SourceText)
	}
	v.translated.SetText(snap.TranslatedText)

	switch snap.State {
	case session.StateRecording:
		v.micBtn.SetIcon(theme.MediaStopIcon())
		v.statusLabel.SetText("Listening...")
	case session.StateTranslating:
		v.micBtn.SetIcon(theme.MediaRecordIcon())
		v.statusLabel.SetText("Translating...")
	case session.StateSpeaking:
		v.micBtn.SetIcon(theme.MediaRecordIcon())
		v.statusLabel.SetText("Speaking...")
	default:
		v.micBtn.SetIcon(theme.MediaRecordIcon())
		v.statusLabel.SetText("Ready")
	}

	if snap.State == session.StateSpeaking {
		v.speakBtn.SetIcon(theme.MediaStopIcon())
	} else {
		v.speakBtn.SetIcon(theme.MediaPlayIcon())
	}

	v.updateTranslateButton(snap.State)

	if snap.TranslatedText != "" && (snap.State == session.StateIdle || snap.State == session.StateSpeaking) {
		v.speakBtn.Enable()
		v.copyBtn.Enable()
	} else {
		v.speakBtn.Disable()
		v.copyBtn.Disable()
	}

	if snap.State == session.StateIdle || snap.State == session.StateRecording {
		v.micBtn.Enable()
	} else {
		v.micBtn.Disable()
	}

	if snap.CopyNotice {
		v.copyNotice.Show()
	} else {
		v.copyNotice.Hide()
	}

	if snap.ErrorMessage != "" {
		v.banner.Show(snap.ErrorMessage)
	} else {
		v.banner.Hide()
	}
}

// updateTranslateButton keeps the translate trigger disabled while a
// translation is pending or the source is blank.
func (v *translatorView) updateTranslateButton(state session.State) {
	if state == session.StateIdle && strings.TrimSpace(v.source.Text) != "" {
		v.translateBtn.Enable()
	} else {
		v.translateBtn.Disable()
	}
}
