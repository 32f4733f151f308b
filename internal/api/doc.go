// Package api is the single HTTP collaborator of the application. It talks
// to the auth/history backend and to the external translation service,
// attaches the bearer token when one is present, and normalizes every
// failure into a closed set of error kinds with user-facing messages.
package api
