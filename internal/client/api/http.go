package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
)

// Endpoint paths of the consumed auth contract.
const (
	loginPath          = "/auth/login"
	registerPath       = "/auth/register"
	socialPathPrefix   = "/auth/social/"
	logoutPath         = "/auth/logout"
	forgotPasswordPath = "/auth/forgot-password"
	resetPasswordPath  = "/auth/reset-password"
)

// HTTPGateway is the Gateway implementation over the JSON/HTTP contract.
// It keeps the current bearer token and attaches it, along with request and
// device identifiers, to every outbound call.
type HTTPGateway struct {
	baseURL    string
	client     *http.Client
	deviceID   string
	authorizer ProviderAuthorizer

	mu    sync.Mutex
	token string
}

// NewHTTPGateway builds a gateway for the backend at baseURL. timeout bounds
// each request; zero disables the client-side bound. authorizer may be nil
// if social login is never used.
func NewHTTPGateway(baseURL string, timeout time.Duration, deviceID string, authorizer ProviderAuthorizer) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
		deviceID:   deviceID,
		authorizer: authorizer,
	}
}

func (g *HTTPGateway) SetToken(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = token
}

func (g *HTTPGateway) currentToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

func (g *HTTPGateway) LoginWithPassword(ctx context.Context, email, password string) (*models.AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var res models.AuthResult
	if err := g.post(ctx, loginPath, body, &res, false); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}

	g.SetToken(res.Token)
	return &res, nil
}

func (g *HTTPGateway) LoginWithProvider(ctx context.Context, provider models.Provider) (*models.AuthResult, error) {
	if !provider.Valid() {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	if g.authorizer == nil {
		return nil, fmt.Errorf("no provider authorizer configured")
	}

	assertion, err := g.authorizer.Authorize(ctx, provider)
	if err != nil {
		if errors.Is(err, ErrProviderCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("provider authorize: %w", err)
	}

	body := struct {
		Assertion string `json:"assertion"`
	}{Assertion: assertion}

	var res models.AuthResult
	if err := g.post(ctx, socialPathPrefix+string(provider), body, &res, false); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}

	g.SetToken(res.Token)
	return &res, nil
}

func (g *HTTPGateway) Register(ctx context.Context, data models.RegisterData) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := g.post(ctx, registerPath, data, &res, false); err != nil {
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}

	g.SetToken(res.Token)
	return &res, nil
}

func (g *HTTPGateway) Logout(ctx context.Context) error {
	err := g.post(ctx, logoutPath, struct{}{}, nil, true)
	// The remote invalidation is best effort; the local token is gone either way.
	g.SetToken("")
	return err
}

func (g *HTTPGateway) RequestPasswordReset(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return g.post(ctx, forgotPasswordPath, body, nil, false)
}

func (g *HTTPGateway) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	body := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{Token: resetToken, Password: newPassword}
	return g.post(ctx, resetPasswordPath, body, nil, false)
}

func (g *HTTPGateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// checkAuthResult guards against a 2xx response missing the fields a
// session commit requires. Committing an empty token would produce an
// "authenticated" session that cannot make authenticated calls.
func checkAuthResult(res *models.AuthResult) error {
	if res.Token == "" || res.User.ID == "" {
		return fmt.Errorf("%w: malformed auth response", ErrUnavailable)
	}
	return nil
}

// post performs one JSON request. authed controls whether the bearer token
// is required and whether a 401 means "token expired" rather than
// "credentials rejected".
func (g *HTTPGateway) post(ctx context.Context, path string, body, out any, authed bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if g.deviceID != "" {
		req.Header.Set("X-Device-ID", g.deviceID)
	}
	if token := g.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.mapStatus(resp.StatusCode, authed)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	return nil
}

// mapStatus translates a non-2xx status into the closed error taxonomy.
func (g *HTTPGateway) mapStatus(code int, authed bool) error {
	switch {
	case code == http.StatusUnauthorized && authed:
		return ErrTokenExpired
	case code == http.StatusConflict:
		return ErrAccountExists
	case code >= 400 && code < 500:
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
}
