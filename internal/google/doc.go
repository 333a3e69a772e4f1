// Package google constructs OAuth2 clients for the Google Calendar
// upstream.
//
// It builds oauth2 configurations from the injected process
// configuration, generates authorization URLs, exchanges authorization
// codes for credential sets, and binds stored credentials to
// authenticated HTTP clients. All conversions between the persisted
// credential shape and oauth2.Token happen at this boundary.
package google
