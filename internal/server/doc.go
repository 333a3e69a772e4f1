// Package server implements the HTTP surface of daybrief.
//
// It wires the auth flow (consent redirect, OAuth callback, logout,
// session status), the resource fetch endpoints (events, weather) and
// the health endpoint onto a ServeMux, translating every failure into
// the local error taxonomy. No raw upstream error object ever reaches
// a client. Prometheus metrics are served by a dedicated metrics
// server on a separate port.
package server
