package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// errorBanner is a dismissible inline error message shown at the top of a
// view, mirroring server and validation errors without modal dialogs.
type errorBanner struct {
	box   *fyne.Container
	label *widget.Label
}

func newErrorBanner(onDismiss func()) *errorBanner {
	b := &errorBanner{
		label: widget.NewLabel(""),
	}
	b.label.Wrapping = fyne.TextWrapWord
	b.label.Importance = widget.DangerImportance

	dismiss := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		b.Hide()
		if onDismiss != nil {
			onDismiss()
		}
	})
	dismiss.Importance = widget.LowImportance

	b.box = container.NewBorder(nil, nil, nil, dismiss, b.label)
	b.box.Hide()
	return b
}

func (b *errorBanner) Show(message string) {
	b.label.SetText(message)
	b.box.Show()
}

func (b *errorBanner) Hide() {
	b.box.Hide()
}

func (b *errorBanner) Object() fyne.CanvasObject {
	return b.box
}
