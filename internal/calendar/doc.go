// Package calendar fetches events from the Google Calendar upstream
// and normalizes them into the stable shape served to clients.
//
// Fetching always expands recurring events into single occurrences,
// orders by start time and caps the result, so the normalized output
// is a bounded, chronological projection of the user's primary
// calendar. Upstream authentication and permission rejections are
// classified into sentinel errors the HTTP layer maps onto the local
// error taxonomy.
package calendar
