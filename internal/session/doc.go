// Package session implements the translation session state machine: speech
// capture into source text, translation, history persistence and playback
// of the result. The session is in exactly one state at a time and every
// visible change is published through a snapshot callback, so the GUI is a
// pure renderer of session state.
package session
