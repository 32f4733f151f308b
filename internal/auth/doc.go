// Package auth owns the process-wide authentication state: the persisted
// bearer token, the in-memory user profile, and the three-state gate the
// views consult before rendering. All auth operations go through the API
// client and only mutate state on success.
package auth
