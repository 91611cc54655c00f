package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/menuhub/backend/internal/infrastructure/config"
)

// OAuth providers
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrProviderRejected    = errors.New("oauth provider rejected the token")
	ErrProviderNoEmail     = errors.New("oauth provider returned no verified email")
)

// OAuthIdentity is the account data confirmed by the provider
type OAuthIdentity struct {
	Provider string
	UID      string
	Email    string
	Name     string
}

// OAuthVerifier confirms provider tokens by asking the provider about them
type OAuthVerifier struct {
	client          *http.Client
	googleURL       string
	googleAudiences []string
	facebookURL     string
	facebookAppID   string
	facebookSecret  string
}

// NewOAuthVerifier creates a verifier for the configured providers
func NewOAuthVerifier(cfg config.AuthConfig, client *http.Client) *OAuthVerifier {
	if client == nil {
		client = &http.Client{Timeout: cfg.OAuthTimeout}
	}
	return &OAuthVerifier{
		client:          client,
		googleURL:       cfg.GoogleTokenInfoURL,
		googleAudiences: cfg.GoogleClientIDs,
		facebookURL:     strings.TrimRight(cfg.FacebookGraphURL, "/"),
		facebookAppID:   cfg.FacebookAppID,
		facebookSecret:  cfg.FacebookAppSecret,
	}
}

// Verify checks the token with the provider and returns the identity behind it
func (v *OAuthVerifier) Verify(ctx context.Context, provider, token string) (*OAuthIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrProviderRejected
	}
	switch provider {
	case ProviderGoogle:
		return v.verifyGoogle(ctx, token)
	case ProviderFacebook:
		return v.verifyFacebook(ctx, token)
	default:
		return nil, ErrUnsupportedProvider
	}
}

type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
}

// verifyGoogle accepts ID tokens and access tokens. Both are sent to tokeninfo under their own parameter.
func (v *OAuthVerifier) verifyGoogle(ctx context.Context, token string) (*OAuthIdentity, error) {
	param := "access_token"
	if strings.Count(token, ".") == 2 {
		param = "id_token"
	}
	q := url.Values{param: {token}}

	var info googleTokenInfo
	if err := v.getJSON(ctx, v.googleURL+"?"+q.Encode(), &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, ErrProviderRejected
	}
	if len(v.googleAudiences) > 0 && !slices.Contains(v.googleAudiences, info.Aud) {
		return nil, ErrProviderRejected
	}
	if info.Email == "" || info.EmailVerified == "false" {
		return nil, ErrProviderNoEmail
	}
	return &OAuthIdentity{Provider: ProviderGoogle, UID: info.Sub, Email: info.Email, Name: info.Name}, nil
}

type facebookMe struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (v *OAuthVerifier) verifyFacebook(ctx context.Context, token string) (*OAuthIdentity, error) {
	q := url.Values{
		"fields":       {"id,name,email"},
		"access_token": {token},
	}
	if v.facebookSecret != "" {
		mac := hmac.New(sha256.New, []byte(v.facebookSecret))
		mac.Write([]byte(token))
		q.Set("appsecret_proof", hex.EncodeToString(mac.Sum(nil)))
	}

	var me facebookMe
	if err := v.getJSON(ctx, v.facebookURL+"/me?"+q.Encode(), &me); err != nil {
		return nil, err
	}
	if me.ID == "" {
		return nil, ErrProviderRejected
	}
	if me.Email == "" {
		return nil, ErrProviderNoEmail
	}
	return &OAuthIdentity{Provider: ProviderFacebook, UID: me.ID, Email: me.Email, Name: me.Name}, nil
}

func (v *OAuthVerifier) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("oauth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return ErrProviderRejected
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode oauth provider response: %w", err)
	}
	return nil
}
