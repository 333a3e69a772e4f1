package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"daybrief/internal/config"
	"daybrief/internal/google"
	"daybrief/internal/token"
)

// MaxResults caps a single event listing to keep responses bounded.
const MaxResults = 50

// ErrAuthRejected indicates the upstream rejected the credentials.
// The cached credential set is known-bad once this is returned.
var ErrAuthRejected = errors.New("calendar authentication rejected")

// ErrAccessDenied indicates the upstream denied calendar access for
// the authenticated user. The credential set itself is still good.
var ErrAccessDenied = errors.New("calendar access denied")

// Client wraps the Google Calendar service for the primary calendar.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client. Pass option.WithHTTPClient with
// an authenticated client for real use; tests can point the service at
// a stub with option.WithEndpoint.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListEvents lists events on the primary calendar within [from, to),
// expanded to single occurrences, ordered by start time and capped at
// MaxResults, each normalized into the stable output shape.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	call := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(MaxResults).
		Context(ctx)

	result, err := call.Do()
	if err != nil {
		return nil, classifyError(err)
	}

	events := make([]Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, Normalize(item))
	}

	return events, nil
}

// classifyError maps upstream rejections onto the sentinel errors the
// HTTP layer branches on. Everything else stays a generic fetch error.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrAuthRejected, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}
	return fmt.Errorf("failed to list events: %w", err)
}

// Fetcher builds an authenticated client per request and fetches
// events with it. Credentials are bound at call time because the
// store's credential set can change between requests.
type Fetcher struct {
	google config.GoogleConfig
	opts   []option.ClientOption
}

// NewFetcher creates a Fetcher using the given OAuth configuration.
// Extra client options are appended to every service construction;
// tests use this to point the fetcher at a stub upstream.
func NewFetcher(cfg config.GoogleConfig, opts ...option.ClientOption) *Fetcher {
	return &Fetcher{google: cfg, opts: opts}
}

// FetchEvents binds creds to an authenticated client and lists events
// in [from, to).
func (f *Fetcher) FetchEvents(ctx context.Context, creds *token.Credentials, from, to time.Time) ([]Event, error) {
	conf, err := google.NewOAuthConfig(f.google)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{
		option.WithHTTPClient(google.HTTPClient(ctx, conf, creds)),
	}, f.opts...)

	client, err := NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return client.ListEvents(ctx, from, to)
}
