package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// showLogin displays the sign-in form with links to the other public views.
func (a *Application) showLogin() {
	banner := newErrorBanner(nil)

	email := widget.NewEntry()
	email.SetPlaceHolder("Email address")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	var submit *widget.Button
	submit = widget.NewButton("Sign In", func() {
		submit.Disable()
		banner.Hide()
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			err := a.session.Login(a.ctx, email.Text, password.Text)
			fyne.Do(func() {
				submit.Enable()
				if err != nil {
					banner.Show(err.Error())
				}
				// Success routes to the main view through the auth gate.
			})
		}()
	})
	submit.Importance = widget.HighImportance
	password.OnSubmitted = func(string) { submit.OnTapped() }

	signupLink := widget.NewButton("Create an account", a.showSignup)
	signupLink.Importance = widget.LowImportance
	forgotLink := widget.NewButton("Forgot password?", a.showForgot)
	forgotLink.Importance = widget.LowImportance

	form := container.NewVBox(
		a.authTitle("Sign in to your account"),
		banner.Object(),
		email,
		password,
		submit,
		container.NewHBox(signupLink, forgotLink),
	)

	a.window.SetContent(a.authFrame(form))
}

// showSignup displays the registration form.
func (a *Application) showSignup() {
	banner := newErrorBanner(nil)

	name := widget.NewEntry()
	name.SetPlaceHolder("Full name")
	email := widget.NewEntry()
	email.SetPlaceHolder("Email address")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password (at least 6 characters)")
	confirm := widget.NewPasswordEntry()
	confirm.SetPlaceHolder("Confirm password")

	var submit *widget.Button
	submit = widget.NewButton("Sign Up", func() {
		submit.Disable()
		banner.Hide()
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			err := a.session.Signup(a.ctx, name.Text, email.Text, password.Text, confirm.Text)
			fyne.Do(func() {
				submit.Enable()
				if err != nil {
					banner.Show(err.Error())
				}
			})
		}()
	})
	submit.Importance = widget.HighImportance

	loginLink := widget.NewButton("Already have an account? Sign in", a.showLogin)
	loginLink.Importance = widget.LowImportance

	form := container.NewVBox(
		a.authTitle("Create your account"),
		banner.Object(),
		name,
		email,
		password,
		confirm,
		submit,
		loginLink,
	)

	a.window.SetContent(a.authFrame(form))
}

// showForgot displays the forgot-password form.
func (a *Application) showForgot() {
	banner := newErrorBanner(nil)

	info := widget.NewLabel("Enter your email address and we'll send you a link to reset your password.")
	info.Wrapping = fyne.TextWrapWord

	email := widget.NewEntry()
	email.SetPlaceHolder("Email address")

	success := widget.NewLabel("")
	success.Wrapping = fyne.TextWrapWord
	success.Importance = widget.SuccessImportance
	success.Hide()

	var submit *widget.Button
	submit = widget.NewButton("Send Reset Link", func() {
		submit.Disable()
		banner.Hide()
		success.Hide()
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			err := a.session.ForgotPassword(a.ctx, email.Text)
			fyne.Do(func() {
				submit.Enable()
				if err != nil {
					banner.Show(err.Error())
					return
				}
				success.SetText("If an account exists for that address, a reset link is on its way. Paste the token from the email below.")
				success.Show()
			})
		}()
	})
	submit.Importance = widget.HighImportance

	resetLink := widget.NewButton("I already have a reset token", a.showReset)
	resetLink.Importance = widget.LowImportance
	loginLink := widget.NewButton("Back to sign in", a.showLogin)
	loginLink.Importance = widget.LowImportance

	form := container.NewVBox(
		a.authTitle("Forgot your password?"),
		banner.Object(),
		info,
		email,
		submit,
		success,
		container.NewHBox(resetLink, loginLink),
	)

	a.window.SetContent(a.authFrame(form))
}

// showReset displays the reset-password form. The token arrives by email;
// the user pastes it here.
func (a *Application) showReset() {
	banner := newErrorBanner(nil)

	token := widget.NewEntry()
	token.SetPlaceHolder("Reset token from the email")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("New password (at least 6 characters)")
	confirm := widget.NewPasswordEntry()
	confirm.SetPlaceHolder("Confirm new password")

	var submit *widget.Button
	submit = widget.NewButton("Reset Password", func() {
		submit.Disable()
		banner.Hide()
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			err := a.session.ResetPassword(a.ctx, token.Text, password.Text, confirm.Text)
			fyne.Do(func() {
				submit.Enable()
				if err != nil {
					banner.Show(err.Error())
					return
				}
				a.showLogin()
			})
		}()
	})
	submit.Importance = widget.HighImportance

	loginLink := widget.NewButton("Back to sign in", a.showLogin)
	loginLink.Importance = widget.LowImportance

	form := container.NewVBox(
		a.authTitle("Choose a new password"),
		banner.Object(),
		token,
		password,
		confirm,
		submit,
		loginLink,
	)

	a.window.SetContent(a.authFrame(form))
}

func (a *Application) authTitle(text string) fyne.CanvasObject {
	title := widget.NewLabel(text)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter
	return title
}

// authFrame centers a public form in the window at a readable width.
func (a *Application) authFrame(form fyne.CanvasObject) fyne.CanvasObject {
	wrapped := container.NewGridWrap(fyne.NewSize(420, form.MinSize().Height), form)
	return container.NewCenter(wrapped)
}
