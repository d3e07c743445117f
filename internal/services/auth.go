package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/shared"
	"golang.org/x/oauth2"
)

// expirySkew treats tokens expiring within this window as already expired
const expirySkew = 30 * time.Second

// Credential holds the tokens for one authenticated session. Values are
// passed explicitly to the services that need them; nothing reads or
// writes ambient token state.
type Credential struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Valid reports whether the access token is usable at the given instant.
// A zero expiry means the token never expires.
func (c Credential) Valid(now time.Time) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return now.Add(expirySkew).Before(c.Expiry)
}

// Token converts the credential to an [oauth2.Token].
func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// CredentialFromToken converts an [oauth2.Token] to a [Credential].
func CredentialFromToken(token *oauth2.Token) Credential {
	return Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
}

// Refresh returns a credential valid at the given instant. A still-valid
// credential is returned unchanged. An expired one is exchanged using
// its refresh token; when that fails, or no refresh token exists, the
// error wraps [shared.ErrRefreshFailed] and the caller must run the
// authorization flow again. Refresh never returns an expired credential.
func Refresh(ctx context.Context, cfg *oauth2.Config, cred Credential, now time.Time) (Credential, error) {
	if cred.Valid(now) {
		return cred, nil
	}

	if cred.RefreshToken == "" {
		return Credential{}, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}

	token, err := cfg.TokenSource(ctx, cred.Token()).Token()
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	refreshed := CredentialFromToken(token)
	// Spotify omits the refresh token when it has not rotated
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}

	return refreshed, nil
}
