// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the AI Doctor backend:
// authentication, report upload with OCR extraction, report history,
// and the chat assistant.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the backend origin used when none is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout applies to auth, chat, and history requests.
	DefaultTimeout = 30 * time.Second

	// DefaultUploadTimeout applies to report uploads, which include
	// server-side OCR and can run long.
	DefaultUploadTimeout = 3 * time.Minute

	// DefaultRequestsPerSecond paces outbound requests so a stuck key
	// repeat cannot hammer the backend.
	DefaultRequestsPerSecond = 5
)

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout for auth, chat, and history requests.
	Timeout time.Duration

	// UploadTimeout for report upload requests.
	UploadTimeout time.Duration

	// RequestsPerSecond limits outbound request rate. Zero uses the
	// default.
	RequestsPerSecond float64

	// HTTPClient allows injecting a custom client for testing.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           DefaultBaseURL,
		Timeout:           DefaultTimeout,
		UploadTimeout:     DefaultUploadTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

// Client talks to the AI Doctor backend.
type Client struct {
	config       ClientConfig
	httpClient   *http.Client
	uploadClient *http.Client
	limiter      *rate.Limiter

	mu    sync.RWMutex
	token string
}

// NewClient creates a client, filling in defaults for zero-valued config
// fields.
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = DefaultUploadTimeout
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultRequestsPerSecond
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	uploadClient := config.HTTPClient
	if uploadClient == nil {
		uploadClient = &http.Client{Timeout: config.UploadTimeout}
	}

	return &Client{
		config:       config,
		httpClient:   httpClient,
		uploadClient: uploadClient,
		limiter:      rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 2),
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.BaseURL
}

// SetBaseURL repoints the client at a different backend origin.
func (c *Client) SetBaseURL(baseURL string) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c.mu.Lock()
	c.config.BaseURL = baseURL
	c.mu.Unlock()
}

// SetToken installs the bearer token used on authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token       string
	DisplayName string
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse tolerates the token appearing under either key, and the
// backend's habit of answering 200 with an error field instead of a
// proper status code.
type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Message     string `json:"message"`
	Error       string `json:"error"`
}

func (r authResponse) bearer() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Login authenticates with username and password. On success the
// returned token is also installed on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	result, err := c.postAuth(ctx, "/api/auth/login", username, password)
	if err != nil {
		return nil, err
	}

	token := result.bearer()
	if token == "" {
		msg := result.Error
		if msg == "" {
			msg = "invalid username or password"
		}
		return nil, NewClientError(ErrorTypeAuth, msg, ErrUnauthorized)
	}

	c.SetToken(token)
	return &AuthResult{Token: token, DisplayName: displayName(result, username)}, nil
}

// Register creates an account. On success the returned token (when the
// backend issues one immediately) is installed on the client.
func (c *Client) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	result, err := c.postAuth(ctx, "/api/auth/register", username, password)
	if err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, NewClientError(ErrorTypeAuth, result.Error, nil)
	}

	res := &AuthResult{Token: result.bearer(), DisplayName: displayName(result, username)}
	if res.Token != "" {
		c.SetToken(res.Token)
	}
	return res, nil
}

// postAuth posts credentials and decodes the shared auth response shape.
// Rejections arrive either as 401/403/409/400 with a decodable message or
// as 200 with an error field; the caller inspects the decoded body for
// the latter.
func (c *Client) postAuth(ctx context.Context, path, username, password string) (*authResponse, error) {
	body := credentialsRequest{Username: username, Password: password}
	resp, err := c.postJSON(ctx, path, body, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		msg := decodeErrorMessage(resp)
		if msg == "" {
			msg = "invalid username or password"
		}
		return nil, NewClientError(ErrorTypeAuth, msg, ErrUnauthorized)
	case http.StatusConflict, http.StatusBadRequest:
		msg := decodeErrorMessage(resp)
		if msg == "" {
			msg = "request was rejected"
		}
		return nil, NewClientError(ErrorTypeAuth, msg, nil)
	default:
		return nil, NewClientError(ErrorTypeServer,
			fmt.Sprintf("request failed (%d)", resp.StatusCode), nil)
	}

	var result authResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewClientError(ErrorTypeServer, "failed to decode auth response", err)
	}
	return &result, nil
}

// displayName resolves the name shown in the header: the server's echo of
// the username, else what the user typed.
func displayName(result *authResponse, submitted string) string {
	if result.Username != "" {
		return result.Username
	}
	return submitted
}

// postJSON marshals body and POSTs it to path, applying rate limiting.
// When authed is set the bearer token rides along if one is present; the
// server decides whether an anonymous request is acceptable.
// Transport-level failures are mapped to typed errors; the caller owns
// status handling and the response body.
func (c *Client) postJSON(ctx context.Context, path string, body any, authed bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewClientError(ErrorTypeTimeout, "request cancelled while rate limited", err)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, NewClientError(ErrorTypeUnknown, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, NewClientError(ErrorTypeUnknown, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	return resp, nil
}

// mapTransportError turns a net/http error into a typed client error.
func (c *Client) mapTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return NewClientError(ErrorTypeTimeout, "request timed out", ErrTimeout)
	}
	return NewClientError(ErrorTypeConnection,
		"cannot reach the server at "+c.BaseURL(), ErrUnavailable)
}

// errorBody is the shape most backend error payloads take.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeErrorMessage pulls a human-readable message out of an error
// response body, or returns "" when none can be found.
func decodeErrorMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
