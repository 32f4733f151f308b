// Package gui implements the Fyne desktop interface: the authentication
// gate with its login, signup and password reset views, and the main
// translator, history and profile views. All application behavior lives in
// the controller packages; this package renders their snapshots and
// forwards user actions.
package gui
