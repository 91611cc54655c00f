package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tokeninfo", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("id_token") == "a.b.c":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"sub": "g-123", "aud": "web-client", "email": "ana@gmail.com", "email_verified": "true", "name": "Ana",
			})
		case r.URL.Query().Get("access_token") == "unverified":
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "g-9", "email": "x@gmail.com", "email_verified": "false"})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "fb-token" || r.URL.Query().Get("appsecret_proof") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "fb-1", "name": "Beto", "email": "beto@fb.com"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestVerifier(srv *httptest.Server, audiences ...string) *OAuthVerifier {
	return NewOAuthVerifier(config.AuthConfig{
		GoogleTokenInfoURL: srv.URL + "/tokeninfo",
		GoogleClientIDs:    audiences,
		FacebookGraphURL:   srv.URL + "/",
		FacebookAppSecret:  "fb-secret",
	}, srv.Client())
}

func TestOAuthVerifier_Google(t *testing.T) {
	srv := newProviderServer(t)
	ctx := context.Background()

	id, err := newTestVerifier(srv).Verify(ctx, ProviderGoogle, "a.b.c")
	require.NoError(t, err)
	assert.Equal(t, &OAuthIdentity{Provider: ProviderGoogle, UID: "g-123", Email: "ana@gmail.com", Name: "Ana"}, id)

	_, err = newTestVerifier(srv, "other-client").Verify(ctx, ProviderGoogle, "a.b.c")
	assert.ErrorIs(t, err, ErrProviderRejected)

	_, err = newTestVerifier(srv).Verify(ctx, ProviderGoogle, "garbage")
	assert.ErrorIs(t, err, ErrProviderRejected)

	_, err = newTestVerifier(srv).Verify(ctx, ProviderGoogle, "unverified")
	assert.ErrorIs(t, err, ErrProviderNoEmail)
}

func TestOAuthVerifier_Facebook(t *testing.T) {
	srv := newProviderServer(t)
	ctx := context.Background()

	id, err := newTestVerifier(srv).Verify(ctx, ProviderFacebook, "fb-token")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", id.UID)
	assert.Equal(t, "beto@fb.com", id.Email)

	_, err = newTestVerifier(srv).Verify(ctx, ProviderFacebook, "bad")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestOAuthVerifier_UnsupportedProvider(t *testing.T) {
	srv := newProviderServer(t)
	_, err := newTestVerifier(srv).Verify(context.Background(), "github", "tok")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = newTestVerifier(srv).Verify(context.Background(), ProviderGoogle, " ")
	assert.ErrorIs(t, err, ErrProviderRejected)
}
