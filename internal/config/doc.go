// Package config holds the process configuration for daybrief.
//
// Configuration is assembled exactly once at startup (flags with
// environment fallback, plus an optional .env file) and passed
// explicitly to the components that need it. Nothing outside this
// assembly reads environment variables.
package config
