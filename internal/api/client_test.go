package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&Config{
		BaseURL:           srv.URL + "/api",
		TranslateEndpoint: srv.URL + "/translate",
	})
	return client, srv
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "anu@example.com", body["email"])

		json.NewEncoder(w).Encode(Credentials{
			Token: "tok123",
			User:  User{ID: "u1", FirstName: "Anu", LastName: "Rao", Email: "anu@example.com"},
		})
	}))

	creds, err := client.Login(context.Background(), "anu@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok123", creds.Token)
	assert.Equal(t, "anu@example.com", creds.User.Email)
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: "u1"})
	}))

	client.SetToken("tok123")
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)

	client.ClearToken()
	_, err = client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestServerErrorMessageVerbatim(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))

	_, err := client.Login(context.Background(), "anu@example.com", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestServerErrorWithoutMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.ForgotPassword(context.Background(), "anu@example.com")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, serverFallback, apiErr.Message)
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := NewClient(&Config{BaseURL: srv.URL + "/api", TranslateEndpoint: srv.URL + "/translate"})
	_, err := client.History(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindConnectivity, apiErr.Kind)
	assert.Equal(t, connectivityMessage, apiErr.Message)
}

func TestTranslate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Hello, how are you?", body["text"])

		json.NewEncoder(w).Encode(map[string]string{"translatedText": "నమస్కారం, మీరు ఎలా ఉన్నారు?"})
	}))

	got, err := client.Translate(context.Background(), "Hello, how are you?")
	require.NoError(t, err)
	assert.Equal(t, "నమస్కారం, మీరు ఎలా ఉన్నారు?", got)
}

func TestTranslateBreakerStaysUserFacing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL + "/api", TranslateEndpoint: srv.URL + "/translate"})

	// Enough consecutive failures to trip the breaker; the surfaced error
	// must remain the normalized connectivity message either way.
	for i := 0; i < 8; i++ {
		_, err := client.Translate(context.Background(), "Hello")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindConnectivity, apiErr.Kind)
		assert.Equal(t, connectivityMessage, apiErr.Message)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	deleted := ""
	cleared := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/history":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(Translation{
				ID:             "t1",
				SourceText:     body["sourceText"],
				TranslatedText: body["translatedText"],
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/history":
			json.NewEncoder(w).Encode([]Translation{{ID: "t1"}, {ID: "t2"}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/history/t1":
			deleted = "t1"
		case r.Method == http.MethodDelete && r.URL.Path == "/api/history":
			cleared = true
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ctx := context.Background()

	record, err := client.SaveTranslation(ctx, "Hello", "నమస్కారం")
	require.NoError(t, err)
	assert.Equal(t, "Hello", record.SourceText)

	records, err := client.History(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, client.DeleteTranslation(ctx, "t1"))
	assert.Equal(t, "t1", deleted)

	require.NoError(t, client.ClearHistory(ctx))
	assert.True(t, cleared)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Please enter some text to translate")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "Please enter some text to translate", err.Error())
}
