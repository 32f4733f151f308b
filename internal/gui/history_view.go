package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/history"
)

// historyView lists the saved translations with per-record copy, playback
// and delete, plus a guarded clear-all.
type historyView struct {
	app *Application

	list     *fyne.Container
	empty    *widget.Label
	loading  *widget.ProgressBarInfinite
	clearBtn *ttwidget.Button
	banner   *errorBanner

	root fyne.CanvasObject
}

func newHistoryView(a *Application) *historyView {
	v := &historyView{app: a}

	v.banner = newErrorBanner(func() {
		a.history.DismissError()
	})

	v.empty = widget.NewLabel("No translations yet. Your saved translations will appear here.")
	v.empty.Wrapping = fyne.TextWrapWord
	v.empty.Alignment = fyne.TextAlignCenter

	v.loading = widget.NewProgressBarInfinite()
	v.loading.Hide()

	v.list = container.NewVBox()

	v.clearBtn = ttwidget.NewButtonWithIcon("Clear All", theme.DeleteIcon(), v.onClearAll)
	v.clearBtn.Importance = widget.DangerImportance
	v.clearBtn.Disable()

	header := container.NewBorder(nil, nil, widget.NewLabelWithStyle("Translation History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), v.clearBtn)

	v.root = container.NewBorder(
		container.NewVBox(header, v.banner.Object(), v.loading),
		nil, nil, nil,
		container.NewScroll(container.NewVBox(v.empty, v.list)),
	)
	return v
}

func (v *historyView) content() fyne.CanvasObject {
	return v.root
}

func (v *historyView) setupTooltips() {
	v.clearBtn.SetToolTip("Delete all saved translations")
}

// onClearAll asks for confirmation before wiping the whole history.
func (v *historyView) onClearAll() {
	dialog.ShowConfirm("Clear History",
		"Are you sure you want to delete all of your saved translations? This cannot be undone.",
		func(confirmed bool) {
			if !confirmed {
				return
			}
			v.app.wg.Add(1)
			go func() {
				defer v.app.wg.Done()
				v.app.history.Clear(v.app.ctx)
			}()
		}, v.app.window)
}

// render redraws the list from a history snapshot. Must run on the UI
// thread.
func (v *historyView) render(snap history.Snapshot) {
	if snap.Loading {
		v.loading.Show()
	} else {
		v.loading.Hide()
	}

	if snap.ErrorMessage != "" {
		v.banner.Show(snap.ErrorMessage)
	} else {
		v.banner.Hide()
	}

	if len(snap.Records) == 0 {
		v.clearBtn.Disable()
		v.empty.Show()
	} else {
		v.clearBtn.Enable()
		v.empty.Hide()
	}

	v.list.RemoveAll()
	for _, record := range snap.Records {
		v.list.Add(v.recordCard(record, snap))
	}
	v.list.Refresh()
}

// recordCard builds one history row with its action buttons.
func (v *historyView) recordCard(record api.Translation, snap history.Snapshot) fyne.CanvasObject {
	id := record.ID

	source := widget.NewLabel(record.SourceText)
	source.Wrapping = fyne.TextWrapWord
	translated := widget.NewLabel(record.TranslatedText)
	translated.Wrapping = fyne.TextWrapWord
	translated.TextStyle = fyne.TextStyle{Bold: true}

	speakIcon := theme.MediaPlayIcon()
	if snap.PlayingID == id {
		speakIcon = theme.MediaStopIcon()
	}
	speakBtn := widget.NewButtonWithIcon("", speakIcon, func() {
		v.app.wg.Add(1)
		go func() {
			defer v.app.wg.Done()
			v.app.history.Speak(v.app.ctx, id)
		}()
	})

	copyBtn := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		v.app.history.Copy(id)
	})

	deleteBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		v.app.wg.Add(1)
		go func() {
			defer v.app.wg.Done()
			v.app.history.Delete(v.app.ctx, id)
		}()
	})
	deleteBtn.Importance = widget.DangerImportance

	meta := widget.NewLabel(record.CreatedAt.Format("Jan 2, 2006 15:04"))
	meta.TextStyle = fyne.TextStyle{Italic: true}
	if snap.CopiedID == id {
		meta.SetText("Copied!")
		meta.Importance = widget.SuccessImportance
	}

	actions := container.NewHBox(speakBtn, copyBtn, deleteBtn)
	body := container.NewVBox(source, translated, container.NewBorder(nil, nil, meta, actions))

	card := widget.NewCard("", "", body)
	return card
}
