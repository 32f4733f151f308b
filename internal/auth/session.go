package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/abhiram9652/language-translation/internal/api"
)

// State is the three-state result the views gate rendering on.
type State int

const (
	// StateLoading means initialization has not finished; render nothing
	// conclusive.
	StateLoading State = iota
	// StateAuthenticated means a valid token and user profile are held.
	StateAuthenticated
	// StateUnauthenticated means no usable credential exists.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session holds the process-wide authentication state. It owns the stored
// token and the in-memory user; everything else reads through accessors.
type Session struct {
	client *api.Client
	store  *TokenStore
	logger *zap.Logger

	mu    sync.RWMutex
	state State
	user  *api.User

	onChange func(State, *api.User)
}

// NewSession creates a session in the loading state. Call Init to hydrate it
// from the stored token.
func NewSession(client *api.Client, store *TokenStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client: client,
		store:  store,
		logger: logger,
		state:  StateLoading,
	}
}

// OnChange registers a callback fired after every state transition. Must be
// set before Init and any operations.
func (s *Session) OnChange(fn func(State, *api.User)) {
	s.onChange = fn
}

// State returns the current gate state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the authenticated user, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Init hydrates authentication state from the stored token. An absent,
// expired or undecodable token ends unauthenticated with the token removed;
// otherwise the token is attached and the profile fetched, and a profile
// failure likewise discards the token.
func (s *Session) Init(ctx context.Context) {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to read stored token", zap.Error(err))
		s.setState(StateUnauthenticated, nil)
		return
	}
	if token == "" {
		s.setState(StateUnauthenticated, nil)
		return
	}

	if tokenExpired(token) {
		s.logger.Info("stored token expired, discarding")
		s.discardToken()
		s.setState(StateUnauthenticated, nil)
		return
	}

	s.client.SetToken(token)
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.logger.Info("profile fetch failed, discarding token", zap.Error(err))
		s.discardToken()
		s.setState(StateUnauthenticated, nil)
		return
	}
	s.setState(StateAuthenticated, user)
}

// Login authenticates with email and password. On success the token is
// persisted and the user held in memory; on failure auth state is untouched.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return api.NewValidationError("Please enter your email and password")
	}

	creds, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.adopt(creds)
	return nil
}

// Signup creates an account from a single full-name field plus credentials.
// The first whitespace token becomes the first name; the remainder the last
// name, reusing the first name when nothing is left.
func (s *Session) Signup(ctx context.Context, name, email, password, confirmPassword string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return api.NewValidationError("Please fill in all fields")
	}
	if len(password) < 6 {
		return api.NewValidationError("Password must be at least 6 characters")
	}
	if password != confirmPassword {
		return api.NewValidationError("Passwords do not match")
	}

	firstName, lastName := SplitName(name)
	creds, err := s.client.Register(ctx, firstName, lastName, email, password)
	if err != nil {
		return err
	}
	s.adopt(creds)
	return nil
}

// Logout deletes the stored token and clears in-memory auth state.
func (s *Session) Logout() {
	s.discardToken()
	s.setState(StateUnauthenticated, nil)
}

// ForgotPassword triggers the reset email. Auth state is never mutated.
func (s *Session) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return api.NewValidationError("Please enter your email address")
	}
	return s.client.ForgotPassword(ctx, email)
}

// ResetPassword consumes an emailed reset token with the new password. A
// missing token is rejected before any network call.
func (s *Session) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if strings.TrimSpace(token) == "" {
		return api.NewValidationError("Reset token is missing. Please try again or request a new password reset link.")
	}
	if password == "" {
		return api.NewValidationError("Password is required")
	}
	if len(password) < 6 {
		return api.NewValidationError("Password must be at least 6 characters")
	}
	if password != confirmPassword {
		return api.NewValidationError("Passwords do not match")
	}
	return s.client.ResetPassword(ctx, token, password)
}

// UpdatePassword changes the authenticated user's password.
func (s *Session) UpdatePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error {
	if currentPassword == "" {
		return api.NewValidationError("Current password is required")
	}
	if newPassword == "" {
		return api.NewValidationError("New password is required")
	}
	if len(newPassword) < 6 {
		return api.NewValidationError("Password must be at least 6 characters")
	}
	if newPassword != confirmPassword {
		return api.NewValidationError("Passwords do not match")
	}
	return s.client.UpdatePassword(ctx, currentPassword, newPassword)
}

// adopt installs freshly issued credentials: persist token, attach it, hold
// the user. A failed persist is logged but does not undo the login; the
// session simply will not survive a restart.
func (s *Session) adopt(creds *api.Credentials) {
	if err := s.store.Save(creds.Token); err != nil {
		s.logger.Warn("failed to persist token", zap.Error(err))
	}
	s.client.SetToken(creds.Token)
	user := creds.User
	s.setState(StateAuthenticated, &user)
}

func (s *Session) discardToken() {
	if err := s.store.Delete(); err != nil {
		s.logger.Warn("failed to delete token", zap.Error(err))
	}
	s.client.ClearToken()
}

func (s *Session) setState(state State, user *api.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(state, user)
	}
}

// SplitName splits a full name into first and last name. When only one token
// is given it is used as both, matching what the backend stores for such
// accounts.
func SplitName(name string) (firstName, lastName string) {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) == 0 {
		return "", ""
	}
	firstName = parts[0]
	lastName = strings.Join(parts[1:], " ")
	if lastName == "" {
		lastName = firstName
	}
	return firstName, lastName
}

// tokenExpired decodes the token's expiry claim without verifying the
// signature; verification is the server's job. Undecodable tokens count as
// expired so they get discarded.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now())
}
