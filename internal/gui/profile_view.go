package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// profileView shows the signed-in user and the change-password form.
type profileView struct {
	app *Application

	nameLabel  *widget.Label
	emailLabel *widget.Label

	current *widget.Entry
	new     *widget.Entry
	confirm *widget.Entry
	submit  *widget.Button
	success *widget.Label
	banner  *errorBanner

	root fyne.CanvasObject
}

func newProfileView(a *Application) *profileView {
	v := &profileView{app: a}

	v.banner = newErrorBanner(nil)

	v.nameLabel = widget.NewLabel("")
	v.nameLabel.TextStyle = fyne.TextStyle{Bold: true}
	v.emailLabel = widget.NewLabel("")

	logout := widget.NewButton("Sign Out", func() {
		a.session.Logout()
	})

	userCard := widget.NewCard("Account", "",
		container.NewVBox(v.nameLabel, v.emailLabel, logout))

	v.current = widget.NewPasswordEntry()
	v.current.SetPlaceHolder("Current password")
	v.new = widget.NewPasswordEntry()
	v.new.SetPlaceHolder("New password (at least 6 characters)")
	v.confirm = widget.NewPasswordEntry()
	v.confirm.SetPlaceHolder("Confirm new password")

	v.success = widget.NewLabel("Password updated.")
	v.success.Importance = widget.SuccessImportance
	v.success.Hide()

	v.submit = widget.NewButton("Change Password", v.onChangePassword)
	v.submit.Importance = widget.HighImportance

	passwordCard := widget.NewCard("Change Password", "",
		container.NewVBox(v.banner.Object(), v.current, v.new, v.confirm, v.submit, v.success))

	v.root = container.NewVBox(userCard, passwordCard)
	return v
}

func (v *profileView) content() fyne.CanvasObject {
	return container.NewScroll(v.root)
}

// refresh fills in the current user's details.
func (v *profileView) refresh() {
	user := v.app.session.User()
	if user == nil {
		return
	}
	v.nameLabel.SetText(fmt.Sprintf("%s %s", user.FirstName, user.LastName))
	v.emailLabel.SetText(user.Email)
}

func (v *profileView) onChangePassword() {
	v.submit.Disable()
	v.banner.Hide()
	v.success.Hide()

	current, newPassword, confirm := v.current.Text, v.new.Text, v.confirm.Text

	v.app.wg.Add(1)
	go func() {
		defer v.app.wg.Done()
		err := v.app.session.UpdatePassword(v.app.ctx, current, newPassword, confirm)
		fyne.Do(func() {
			v.submit.Enable()
			if err != nil {
				v.banner.Show(err.Error())
				return
			}
			v.current.SetText("")
			v.new.SetText("")
			v.confirm.SetText("")
			v.success.Show()
		})
	}()
}
