package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Hjmep/UniDrive/internal/identity"
)

// DriveScopes are the OAuth scopes requested for every linked account.
var DriveScopes = []string{
	"openid",
	"profile",
	"email",
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/drive.photos.readonly",
	"https://www.googleapis.com/auth/drive.appdata",
	"https://www.googleapis.com/auth/drive.file",
}

// ConsentRequiredError is returned by an interactive authorization when
// the user has to visit the provider's consent page. The caller shows
// the URL, collects the authorization code and completes sign-in with
// Exchange.
type ConsentRequiredError struct {
	URL string
}

func (e *ConsentRequiredError) Error() string {
	return fmt.Sprintf("user consent required, visit %s", e.URL)
}

// OAuthGate is the oauth2-backed Authorizer. It keeps one token per
// account email; silent authorizations re-derive a fresh access token
// from that grant on every call and never reuse a previous result.
type OAuthGate struct {
	conf   *oauth2.Config
	logger *slog.Logger

	mu     sync.Mutex
	tokens map[string]*oauth2.Token // keyed by account email
}

// NewOAuthGate creates an OAuthGate for the given OAuth client.
func NewOAuthGate(clientID, clientSecret string, logger *slog.Logger) *OAuthGate {
	if logger == nil {
		logger = slog.Default()
	}

	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &OAuthGate{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  oob,
			Scopes:       DriveScopes,
		},
		logger: logger,
		tokens: make(map[string]*oauth2.Token),
	}
}

// AuthCodeURL returns the consent URL for the interactive flow.
func (g *OAuthGate) AuthCodeURL() string {
	return g.conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange completes an interactive sign-in: it trades the
// authorization code for tokens, stores the grant under the account's
// email and returns the credentials for the new account.
func (g *OAuthGate) Exchange(ctx context.Context, authCode string) (*Credentials, error) {
	t, err := g.conf.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}

	idToken, _ := t.Extra("id_token").(string)
	id, err := identity.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("sign-in returned an unreadable ID token: %w", err)
	}

	g.mu.Lock()
	g.tokens[id.Email] = t
	g.mu.Unlock()

	g.logger.Info("account authorized", "account", id.Email)

	return &Credentials{
		AccessToken: t.AccessToken,
		IDToken:     idToken,
		Code:        authCode,
	}, nil
}

// Authorize implements Authorizer. Interactive requests direct the
// caller to the consent page via ConsentRequiredError; silent requests
// mint a fresh access token from the stored grant for the hinted
// account and fail with ErrReauthRequired when that is not possible.
func (g *OAuthGate) Authorize(ctx context.Context, req Request) (*Credentials, error) {
	switch req.Prompt {
	case PromptSelectAccount:
		return nil, &ConsentRequiredError{URL: g.AuthCodeURL()}

	case PromptNone:
		if req.LoginHint == "" {
			return nil, fmt.Errorf("%w: silent authorization needs a login hint", ErrReauthRequired)
		}

		g.mu.Lock()
		grant, ok := g.tokens[req.LoginHint]
		g.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("%w: no grant for %s", ErrReauthRequired, req.LoginHint)
		}

		ts := g.conf.TokenSource(ctx, grant)
		t, err := ts.Token()
		if err != nil {
			g.logger.Warn("silent authorization failed", "account", req.LoginHint, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrReauthRequired, err)
		}

		g.mu.Lock()
		g.tokens[req.LoginHint] = t
		g.mu.Unlock()

		idToken, _ := t.Extra("id_token").(string)
		return &Credentials{
			AccessToken: t.AccessToken,
			IDToken:     idToken,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown prompt mode %q", ErrDenied, req.Prompt)
	}
}
