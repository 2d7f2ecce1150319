package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cse341/records-api/internal/api/middleware"
	"github.com/cse341/records-api/internal/core/ports"
)

const (
	loginURL        = "/auth/github"
	logoutURL       = "/auth/logout"
	loginSuccessURL = "/auth/login/success"
	loginFailedURL  = "/auth/login/failed"

	nonceKey = "oauth_nonce"
)

var protectedRoutes = []string{
	"GET /data/protected",
	"POST /data/protected",
	"GET /users/protected",
	"POST /users/protected",
	"GET /auth/profile",
}

// AuthHandler drives the GitHub OAuth flow and reports session state.
type AuthHandler struct {
	authService ports.AuthService
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger, now: time.Now}
}

func (h *AuthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// GitHub handles GET /auth/github.
//
// @Summary      Start GitHub login
// @Description  Redirects to GitHub with a signed state bound to the caller's cookie.
// @Tags         auth
// @Success      302
// @Router       /auth/github [get]
func (h *AuthHandler) GitHub(c echo.Context) error {
	challenge, err := h.authService.BeginLogin(c.Request().Context())
	if err != nil {
		return err
	}

	sess, err := session.Get(middleware.CookieSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[nonceKey] = challenge.Nonce
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, challenge.RedirectURL)
}

// Callback handles GET /auth/github/callback. It always ends in a redirect to
// either the success or the failure page.
//
// @Summary      GitHub OAuth callback
// @Tags         auth
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  false  "Signed state"
// @Param        error  query  string  false  "Provider error"
// @Success      302
// @Router       /auth/github/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	sess, err := session.Get(middleware.CookieSessionName, c)
	if err != nil {
		h.logger.Error().Err(err).Msg("cookie session unavailable")
		return c.Redirect(http.StatusFound, loginFailedURL)
	}

	nonce, _ := sess.Values[nonceKey].(string)
	delete(sess.Values, nonceKey)

	result, err := h.authService.CompleteLogin(c.Request().Context(), ports.CallbackInput{
		Code:          c.QueryParam("code"),
		State:         c.QueryParam("state"),
		Nonce:         nonce,
		ProviderError: c.QueryParam("error"),
	})
	if err != nil {
		if saveErr := sess.Save(c.Request(), c.Response()); saveErr != nil {
			h.logger.Warn().Err(saveErr).Msg("failed to clear oauth nonce")
		}
		return c.Redirect(http.StatusFound, loginFailedURL)
	}

	// Drop whatever session the browser held before this login.
	if previous, _ := sess.Values[middleware.SessionTokenKey].(string); previous != "" {
		if err := h.authService.Logout(c.Request().Context(), previous); err != nil {
			h.logger.Warn().Err(err).Msg("failed to drop previous session")
		}
	}

	sess.Values[middleware.SessionTokenKey] = result.Token
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist session cookie")
		_ = h.authService.Logout(c.Request().Context(), result.Token)
		return c.Redirect(http.StatusFound, loginFailedURL)
	}

	return c.Redirect(http.StatusFound, loginSuccessURL)
}

// LoginSuccess handles GET /auth/login/success.
//
// @Summary      Login success page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/login/success [get]
func (h *AuthHandler) LoginSuccess(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success":  false,
			"message":  "Authentication failed",
			"loginUrl": loginURL,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"message":         "Authentication successful! You can now access protected routes.",
		"user":            sess,
		"protectedRoutes": protectedRoutes,
		"timestamp":       h.timestamp(),
	})
}

// LoginFailed handles GET /auth/login/failed.
//
// @Summary      Login failure page
// @Tags         auth
// @Produce      json
// @Failure      401  {object}  map[string]any
// @Router       /auth/login/failed [get]
func (h *AuthHandler) LoginFailed(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{
		"success":   false,
		"message":   "GitHub authentication failed. Please try again.",
		"error":     "OAuth authentication was cancelled or failed",
		"tryAgain":  loginURL,
		"timestamp": h.timestamp(),
	})
}

// Status handles GET /auth/status.
//
// @Summary      Authentication status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /auth/status [get]
func (h *AuthHandler) Status(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	message := "User is not authenticated"
	if ok {
		message = "User is authenticated"
	}
	resp := map[string]any{
		"isAuthenticated": ok,
		"user":            nil,
		"message":         message,
		"loginUrl":        loginURL,
		"logoutUrl":       logoutURL,
		"timestamp":       h.timestamp(),
	}
	if ok {
		resp["user"] = sess
	}
	return c.JSON(http.StatusOK, resp)
}

// Profile handles GET /auth/profile. Requires a session.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  errorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    sess,
		"sessionInfo": map[string]any{
			"isAuthenticated": true,
			"protectedAccess": true,
		},
		"timestamp": h.timestamp(),
	})
}

// Logout handles GET /auth/logout. Succeeds whether or not a session exists.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      500  {object}  errorResponse
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	username := "anonymous"
	if sess, ok := middleware.SessionFrom(c); ok {
		username = sess.Username
	}

	if err := h.authService.Logout(c.Request().Context(), middleware.SessionToken(c)); err != nil {
		return err
	}

	if sess, err := session.Get(middleware.CookieSessionName, c); err == nil {
		delete(sess.Values, middleware.SessionTokenKey)
		delete(sess.Values, nonceKey)
		sess.Options.MaxAge = -1
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			h.logger.Warn().Err(err).Msg("failed to expire session cookie")
		}
	}

	h.logger.Info().Str("username", username).Msg("user logged out")
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Logged out successfully",
		"loginUrl":  loginURL,
		"timestamp": h.timestamp(),
	})
}
