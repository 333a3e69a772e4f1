package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"

	"daybrief/internal/config"
	"daybrief/internal/token"
)

// ErrConfiguration indicates the OAuth client id, secret or redirect
// URI is missing from the process configuration.
var ErrConfiguration = errors.New("missing required Google OAuth configuration")

// NewOAuthConfig returns the OAuth2 configuration for the Calendar
// upstream. It performs no I/O and fails only when a required
// credential value is absent.
func NewOAuthConfig(cfg config.GoogleConfig) (*oauth2.Config, error) {
	if !cfg.Complete() {
		return nil, ErrConfiguration
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			calendar.CalendarReadonlyScope, // read-only calendar access
		},
	}, nil
}

// AuthCodeURL returns the provider consent URL. Offline access makes
// the provider issue a refresh token; the forced consent screen makes
// it re-issue one even on repeat authorization.
func AuthCodeURL(conf *oauth2.Config) string {
	return conf.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange converts a one-time authorization code into a credential
// set with a single round trip to the provider token endpoint.
func Exchange(ctx context.Context, conf *oauth2.Config, code string) (*token.Credentials, error) {
	t, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return CredentialsFromToken(t), nil
}

// HTTPClient binds a credential set to an authenticated HTTP client.
// The underlying token source refreshes the access token transparently
// when it has expired and a refresh token is present.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func HTTPClient(ctx context.Context, conf *oauth2.Config, creds *token.Credentials) *http.Client {
	ts := conf.TokenSource(ctx, TokenFromCredentials(creds))
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}

// CredentialsFromToken converts an oauth2.Token into the persisted
// credential shape. The expiry is stored in epoch milliseconds.
func CredentialsFromToken(t *oauth2.Token) *token.Credentials {
	creds := &token.Credentials{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.Expiry.IsZero() {
		creds.ExpiryDate = t.Expiry.UnixMilli()
	}
	if scope, ok := t.Extra("scope").(string); ok {
		creds.Scope = scope
	}
	return creds
}

// TokenFromCredentials converts a persisted credential set back into
// an oauth2.Token for use with a token source.
func TokenFromCredentials(creds *token.Credentials) *oauth2.Token {
	tokenType := creds.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    tokenType,
		Expiry:       creds.Expiry(),
	}
}
