package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
)

type fakeAuthorizer struct {
	Assertion string
	Err       error

	LastProvider models.Provider
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, provider models.Provider) (string, error) {
	f.LastProvider = provider
	return f.Assertion, f.Err
}

func authOK(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	res := models.AuthResult{
		User:  models.User{ID: "1", Email: "a@b.com", Name: "Demo User"},
		Token: "t1",
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(res))
}

func TestLoginWithPassword_Success(t *testing.T) {
	var gotPath, gotDevice, gotRequestID string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDevice = r.Header.Get("X-Device-ID")
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, w)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "device-1", nil)

	res, err := g.LoginWithPassword(context.Background(), "a@b.com", "pass")
	require.NoError(t, err)
	require.Equal(t, "t1", res.Token)
	require.Equal(t, "a@b.com", res.User.Email)

	require.Equal(t, "/auth/login", gotPath)
	require.Equal(t, "device-1", gotDevice)
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, map[string]string{"email": "a@b.com", "password": "pass"}, gotBody)
}

func TestLoginWithPassword_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.LoginWithPassword(context.Background(), "a@b.com", "bad")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.LoginWithPassword(context.Background(), "a@b.com", "p")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.LoginWithPassword(context.Background(), "a@b.com", "p")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_EmptyAuthResponseRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.LoginWithPassword(context.Background(), "a@b.com", "p")
	require.ErrorIs(t, err, ErrUnavailable)

	// No token must be armed for later calls.
	require.Empty(t, g.currentToken())
}

func TestRegister_MissingTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"1","email":"a@b.com"}}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.Register(context.Background(), models.RegisterData{
		Name: "Demo", Email: "a@b.com", Password: "secret1",
	})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRegister_EmailTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.Register(context.Background(), models.RegisterData{
		Name: "Demo", Email: "a@b.com", Password: "secret1",
	})
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestLogout_CarriesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			authOK(t, w)
			return
		}
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)

	_, err := g.LoginWithPassword(context.Background(), "a@b.com", "p")
	require.NoError(t, err)

	require.NoError(t, g.Logout(context.Background()))
	require.Equal(t, "Bearer t1", gotAuth)
}

func TestLogout_ExpiredTokenAndLocalClear(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/auth/logout" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// Any later call must arrive without a bearer header.
		require.Empty(t, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)
	g.SetToken("stale")

	err := g.Logout(context.Background())
	require.ErrorIs(t, err, ErrTokenExpired)

	require.NoError(t, g.RequestPasswordReset(context.Background(), "a@b.com"))
	require.Equal(t, 2, calls)
}

func TestLoginWithProvider_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		authOK(t, w)
	}))
	defer srv.Close()

	az := &fakeAuthorizer{Assertion: "assert-1"}
	g := NewHTTPGateway(srv.URL, time.Second, "", az)

	res, err := g.LoginWithProvider(context.Background(), models.ProviderGoogle)
	require.NoError(t, err)
	require.Equal(t, "t1", res.Token)

	require.Equal(t, models.ProviderGoogle, az.LastProvider)
	require.Equal(t, "/auth/social/google", gotPath)
	require.Equal(t, map[string]string{"assertion": "assert-1"}, gotBody)
}

func TestLoginWithProvider_Cancelled(t *testing.T) {
	var serverHit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHit = true
	}))
	defer srv.Close()

	az := &fakeAuthorizer{Err: ErrProviderCancelled}
	g := NewHTTPGateway(srv.URL, time.Second, "", az)

	_, err := g.LoginWithProvider(context.Background(), models.ProviderApple)
	require.ErrorIs(t, err, ErrProviderCancelled)
	require.False(t, serverHit)
}

func TestLoginWithProvider_UnknownProvider(t *testing.T) {
	g := NewHTTPGateway("http://unused", time.Second, "", &fakeAuthorizer{})

	_, err := g.LoginWithProvider(context.Background(), models.Provider("myspace"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrProviderCancelled)
}

func TestPasswordReset_Paths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, time.Second, "", nil)
	ctx := context.Background()

	require.NoError(t, g.RequestPasswordReset(ctx, "a@b.com"))
	require.NoError(t, g.ConfirmPasswordReset(ctx, "reset-1", "newpass1"))

	require.Equal(t, []string{"/auth/forgot-password", "/auth/reset-password"}, paths)
}

func TestPost_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read starts; otherwise
		// the client disconnect is never observed and r.Context() never
		// cancels, deadlocking srv.Close.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, 0, "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.LoginWithPassword(ctx, "a@b.com", "p")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
