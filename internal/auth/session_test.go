package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhiram9652/language-translation/internal/api"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestSession(t *testing.T, handler http.Handler) (*Session, *TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(&api.Config{BaseURL: srv.URL + "/api", TranslateEndpoint: srv.URL + "/translate"})
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	return NewSession(client, store, nil), store
}

// fakeBackend is a minimal in-memory auth backend.
type fakeBackend struct {
	users  map[string]string // email -> password
	emails map[string]api.User
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[string]string{}, emails: map[string]api.User{}}
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if _, exists := f.users[body["email"]]; exists {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"message": "User already exists"})
			return
		}
		user := api.User{ID: "u1", FirstName: body["firstName"], LastName: body["lastName"], Email: body["email"]}
		f.users[body["email"]] = body["password"]
		f.emails[body["email"]] = user
		json.NewEncoder(w).Encode(api.Credentials{Token: mintToken(t, time.Now().Add(time.Hour)), User: user})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if f.users[body["email"]] != body["password"] || body["password"] == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(api.Credentials{Token: mintToken(t, time.Now().Add(time.Hour)), User: f.emails[body["email"]]})
	})
	return mux
}

func TestInitWithoutToken(t *testing.T) {
	session, _ := newTestSession(t, http.NotFoundHandler())
	session.Init(context.Background())
	assert.Equal(t, StateUnauthenticated, session.State())
	assert.Nil(t, session.User())
}

func TestInitExpiredTokenIsDiscarded(t *testing.T) {
	called := false
	session, store := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	require.NoError(t, store.Save(mintToken(t, time.Now().Add(-time.Hour))))
	session.Init(context.Background())

	assert.Equal(t, StateUnauthenticated, session.State())
	assert.False(t, called, "expired token must be rejected without contacting the server")

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, stored, "expired token must be removed from storage")
}

func TestInitUndecodableTokenIsDiscarded(t *testing.T) {
	session, store := newTestSession(t, http.NotFoundHandler())
	require.NoError(t, store.Save("not-a-jwt"))

	session.Init(context.Background())

	assert.Equal(t, StateUnauthenticated, session.State())
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestInitValidTokenFetchesProfile(t *testing.T) {
	var gotAuth string
	session, store := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/me", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.User{ID: "u1", FirstName: "Anu", LastName: "Rao", Email: "anu@example.com"})
	}))

	token := mintToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(token))
	session.Init(context.Background())

	assert.Equal(t, StateAuthenticated, session.State())
	require.NotNil(t, session.User())
	assert.Equal(t, "anu@example.com", session.User().Email)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestInitProfileFailureDiscardsToken(t *testing.T) {
	session, store := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid token"})
	}))

	require.NoError(t, store.Save(mintToken(t, time.Now().Add(time.Hour))))
	session.Init(context.Background())

	assert.Equal(t, StateUnauthenticated, session.State())
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestSignupThenLogin(t *testing.T) {
	backend := newFakeBackend()
	session, store := newTestSession(t, backend.handler(t))
	ctx := context.Background()

	require.NoError(t, session.Signup(ctx, "Anu Rao", "anu@example.com", "secret1", "secret1"))
	assert.Equal(t, StateAuthenticated, session.State())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, stored, "signup must persist the issued token")

	session.Logout()
	assert.Equal(t, StateUnauthenticated, session.State())
	stored, _ = store.Load()
	assert.Empty(t, stored, "logout must delete the stored token")

	require.NoError(t, session.Login(ctx, "anu@example.com", "secret1"))
	assert.Equal(t, StateAuthenticated, session.State())
	assert.Equal(t, "anu@example.com", session.User().Email)
}

func TestLoginFailureKeepsState(t *testing.T) {
	backend := newFakeBackend()
	session, _ := newTestSession(t, backend.handler(t))

	err := session.Login(context.Background(), "anu@example.com", "wrong")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindServer, apiErr.Kind)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, StateLoading, session.State(), "failed login must not mutate auth state")
}

func TestValidationBeforeNetwork(t *testing.T) {
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation errors must never reach the network")
	}))
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() error
		message string
	}{
		{"login empty", func() error { return session.Login(ctx, "", "") }, "Please enter your email and password"},
		{"signup mismatch", func() error { return session.Signup(ctx, "Anu", "anu@example.com", "secret1", "other") }, "Passwords do not match"},
		{"signup short password", func() error { return session.Signup(ctx, "Anu", "anu@example.com", "abc", "abc") }, "Password must be at least 6 characters"},
		{"forgot empty email", func() error { return session.ForgotPassword(ctx, "  ") }, "Please enter your email address"},
		{"reset missing token", func() error { return session.ResetPassword(ctx, "", "secret1", "secret1") }, "Reset token is missing. Please try again or request a new password reset link."},
		{"reset short password", func() error { return session.ResetPassword(ctx, "tok", "abc", "abc") }, "Password must be at least 6 characters"},
		{"update missing current", func() error { return session.UpdatePassword(ctx, "", "secret1", "secret1") }, "Current password is required"},
		{"update mismatch", func() error { return session.UpdatePassword(ctx, "old", "secret1", "other") }, "Passwords do not match"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, api.KindValidation, apiErr.Kind)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestResetPasswordInvalidTokenSurfacesServerError(t *testing.T) {
	session, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Reset token is invalid or has expired"})
	}))

	err := session.ResetPassword(context.Background(), "stale-token", "secret1", "secret1")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindServer, apiErr.Kind)
	assert.Equal(t, "Reset token is invalid or has expired", apiErr.Message)
}

func TestOnChangeNotified(t *testing.T) {
	session, _ := newTestSession(t, http.NotFoundHandler())

	var states []State
	session.OnChange(func(state State, _ *api.User) {
		states = append(states, state)
	})

	session.Init(context.Background())
	session.Logout()

	assert.Equal(t, []State{StateUnauthenticated, StateUnauthenticated}, states)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		wantFirst string
		wantLast  string
	}{
		{"Anu Rao", "Anu", "Rao"},
		{"Anu", "Anu", "Anu"},
		{"  Anu   Krishna   Rao  ", "Anu", "Krishna Rao"},
		{"", "", ""},
	}
	for _, tc := range tests {
		first, last := SplitName(tc.name)
		assert.Equal(t, tc.wantFirst, first, "first name of %q", tc.name)
		assert.Equal(t, tc.wantLast, last, "last name of %q", tc.name)
	}
}

func TestTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	store := NewTokenStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("tok123"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "double delete is a no-op")
}
