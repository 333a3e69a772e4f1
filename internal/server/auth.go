package server

import (
	"log/slog"
	"net/http"
	"time"

	"daybrief/internal/google"
	"daybrief/internal/instrumentation"
	"daybrief/internal/logging"
)

// handleBeginAuth starts the Google OAuth flow with a redirect to the
// provider consent screen. No state changes until the callback.
//
// GET /auth/google
func (s *Server) handleBeginAuth(w http.ResponseWriter, r *http.Request) {
	conf, err := google.NewOAuthConfig(s.cfg.Google)
	if err != nil {
		s.logger.Error("failed to generate auth URL", logging.Operation("begin_auth"), logging.Err(err))
		writeError(w, http.StatusInternalServerError, "auth_configuration_error",
			"Authentication configuration error")
		return
	}

	http.Redirect(w, r, google.AuthCodeURL(conf), http.StatusFound)
}

// handleOAuthCallback exchanges the authorization code for a
// credential set and persists it.
//
// GET /oauth/callback
// GET /auth/google/callback
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	if oauthErr := query.Get("error"); oauthErr != "" {
		s.logger.Warn("oauth authorization rejected",
			logging.Operation("oauth_callback"),
			slog.String("reason", oauthErr),
		)
		s.metrics.RecordOAuthAttempt(ctx, instrumentation.StatusError)
		writeError(w, http.StatusBadRequest, "oauth_error", "OAuth authorization failed")
		return
	}

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "Authorization code is required")
		return
	}

	conf, err := google.NewOAuthConfig(s.cfg.Google)
	if err != nil {
		s.logger.Error("failed to build OAuth config",
			logging.Operation("oauth_callback"), logging.Err(err))
		s.metrics.RecordOAuthAttempt(ctx, instrumentation.StatusError)
		writeError(w, http.StatusInternalServerError, "token_exchange_failed",
			"Failed to exchange authorization code for tokens")
		return
	}

	creds, err := google.Exchange(ctx, conf, code)
	if err != nil {
		s.logger.Error("failed to exchange authorization code",
			logging.Operation("oauth_callback"), logging.Err(err))
		s.metrics.RecordOAuthAttempt(ctx, instrumentation.StatusError)
		writeError(w, http.StatusInternalServerError, "token_exchange_failed",
			"Failed to exchange authorization code for tokens")
		return
	}

	s.store.Save(creds)
	s.metrics.RecordOAuthAttempt(ctx, instrumentation.StatusSuccess)
	s.logger.Info("authenticated with Google Calendar",
		logging.Operation("oauth_callback"),
		slog.String("access_token", logging.SanitizeToken(creds.AccessToken)),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Successfully authenticated with Google Calendar",
		"authenticated": true,
	})
}

// handleLogout clears the stored credential set. Logging out twice is
// not an error.
//
// POST /logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("failed to clear credentials", logging.Operation("logout"), logging.Err(err))
		writeError(w, http.StatusInternalServerError, "logout_failed", "Failed to logout")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Successfully logged out",
		"authenticated": false,
	})
}

// handleSession reports current credential validity without mutating
// any state.
//
// GET /session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	valid, err := s.store.HasValidTokens()
	if err != nil {
		s.logger.Error("failed to check session", logging.Operation("session_status"), logging.Err(err))
		writeError(w, http.StatusInternalServerError, "session_check_failed",
			"Failed to check authentication status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": valid,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}
