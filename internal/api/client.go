package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultBaseURL points at a locally running backend, matching the
// development default of the server.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTranslateEndpoint is the external translation service.
const DefaultTranslateEndpoint = "https://languagetranslation-production.up.railway.app/translate"

// Config holds API client configuration.
type Config struct {
	BaseURL           string
	TranslateEndpoint string
	Timeout           time.Duration
	Logger            *zap.Logger
}

// DefaultConfig returns default client configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		TranslateEndpoint: DefaultTranslateEndpoint,
		Timeout:           30 * time.Second,
	}
}

// Client is the single point of HTTP communication: auth, history and the
// external translate endpoint. It injects the bearer token when one is set
// and normalizes every failure into *Error.
type Client struct {
	baseURL           string
	translateEndpoint string
	httpClient        *http.Client
	logger            *zap.Logger

	mu    sync.RWMutex
	token string

	// The external translation service is the one dependency outside our
	// backend; a breaker keeps a flapping service from hanging every submit.
	translateBreaker *gobreaker.CircuitBreaker
}

// NewClient creates an API client. A nil config uses defaults.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.TranslateEndpoint == "" {
		config.TranslateEndpoint = DefaultTranslateEndpoint
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:           strings.TrimRight(config.BaseURL, "/"),
		translateEndpoint: config.TranslateEndpoint,
		httpClient:        &http.Client{Timeout: config.Timeout},
		logger:            logger,
		translateBreaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "translate",
			Timeout: 15 * time.Second,
		}),
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently attached bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an account and returns the issued token plus profile.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (*Credentials, error) {
	body := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/register", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Login authenticates and returns the issued token plus profile.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/auth/login", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// ForgotPassword triggers a reset email for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword consumes a reset token together with the new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.do(ctx, http.MethodPost, c.baseURL+"/auth/reset-password", body, nil)
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the authenticated user's password.
func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, c.baseURL+"/users/password", body, nil)
}

// Translate sends text to the external translation endpoint and returns the
// translated text. The call goes through a circuit breaker; an open breaker
// is reported as a connectivity error.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	result, err := c.translateBreaker.Execute(func() (interface{}, error) {
		var resp struct {
			TranslatedText string `json:"translatedText"`
		}
		if err := c.do(ctx, http.MethodPost, c.translateEndpoint, map[string]string{"text": text}, &resp); err != nil {
			return nil, err
		}
		return resp.TranslatedText, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("translate breaker open", zap.Error(err))
			return "", newConnectivityError(err)
		}
		return "", err
	}
	return result.(string), nil
}

// SaveTranslation persists a (source, translated) pair as a history record.
func (c *Client) SaveTranslation(ctx context.Context, sourceText, translatedText string) (*Translation, error) {
	body := map[string]string{"sourceText": sourceText, "translatedText": translatedText}
	var record Translation
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/history", body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// History lists the authenticated user's records in server order.
func (c *Client) History(ctx context.Context) ([]Translation, error) {
	var records []Translation
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteTranslation deletes a single record by identifier.
func (c *Client) DeleteTranslation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/history/"+id, nil, nil)
}

// ClearHistory deletes all of the user's records.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/history", nil, nil)
}

// do performs one request/response cycle and folds every failure into the
// three network error kinds: setup (request could not be built), connectivity
// (sent but no response) and server (error status with a message).
func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newSetupError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return newSetupError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("url", url), zap.Error(err))
		return newConnectivityError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newConnectivityError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var serverMsg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &serverMsg)
		c.logger.Debug("server error",
			zap.String("method", method), zap.String("url", url),
			zap.Int("status", resp.StatusCode), zap.String("message", serverMsg.Message))
		return newServerError(resp.StatusCode, serverMsg.Message, fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return newSetupError(fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}
