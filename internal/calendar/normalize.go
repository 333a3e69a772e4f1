package calendar

import (
	calendar "google.golang.org/api/calendar/v3"
)

// Source identifies the provider on every normalized event.
const Source = "google-calendar"

// DefaultTitle replaces a missing event summary.
const DefaultTitle = "Untitled Event"

// Event is the stable projection of a provider event served to
// clients. Location and description are null when absent, never
// omitted keys. Raw carries the provider payload for debugging and is
// the only place provider internals are allowed through.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	Location    *string         `json:"location"`
	Description *string         `json:"description"`
	IsAllDay    bool            `json:"isAllDay"`
	Source      string          `json:"source"`
	Raw         *calendar.Event `json:"raw,omitempty"`
}

// Normalize converts a provider event into the stable output shape.
// Timed events carry RFC3339 datetimes; all-day events carry the
// provider's date strings. An event is all-day exactly when its start
// has no dateTime.
func Normalize(event *calendar.Event) Event {
	if event == nil {
		return Event{Title: DefaultTitle, IsAllDay: true, Source: Source}
	}

	normalized := Event{
		ID:       event.Id,
		Title:    event.Summary,
		IsAllDay: event.Start == nil || event.Start.DateTime == "",
		Source:   Source,
		Raw:      event,
	}

	if normalized.Title == "" {
		normalized.Title = DefaultTitle
	}

	if event.Start != nil {
		if event.Start.DateTime != "" {
			normalized.Start = event.Start.DateTime
		} else {
			normalized.Start = event.Start.Date
		}
	}
	if event.End != nil {
		if event.End.DateTime != "" {
			normalized.End = event.End.DateTime
		} else {
			normalized.End = event.End.Date
		}
	}

	if event.Location != "" {
		location := event.Location
		normalized.Location = &location
	}
	if event.Description != "" {
		description := event.Description
		normalized.Description = &description
	}

	return normalized
}
