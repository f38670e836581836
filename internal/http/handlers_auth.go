package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/daybook-app/daybook-api/internal/domain/auth"
	apperrors "github.com/daybook-app/daybook-api/internal/errors"
)

// Cookie names for the browser credential transport. Both cookies are
// HTTP-only; the access token doubles as the per-request credential while the
// refresh token exists only for session continuity.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// RefreshCookieMaxAge is the fixed lifetime of the refresh-token cookie. It
// is independent of the access token's expiry: its purpose is session
// continuity, not per-request authorization.
const RefreshCookieMaxAge = 30 * 24 * time.Hour

// AuthService is the surface the auth handlers need from the session layer.
type AuthService interface {
	Authenticator
	Login(ctx context.Context, email, password string) (domainauth.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (domainauth.Session, error)
	Logout(ctx context.Context, accessToken string) error
}

// AuthHandlers provides the token lifecycle endpoints for both client kinds:
// browser clients get HTTP-only cookies, native clients read the JSON body.
type AuthHandlers struct {
	Svc          AuthService
	CookieDomain string
	// Now allows tests to pin the clock. Defaults to time.Now.
	Now func() time.Time
}

func (h *AuthHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}

	sess, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookies(w, r, sess)
	WriteJSON(w, http.StatusOK, sessionBody(sess))
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh. The refresh token is read from the
// cookie transport first and the JSON body second, mirroring the two client
// kinds served by the login endpoint.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) error {
	token := readCookie(r, RefreshTokenCookie)
	if token == "" && r.Body != nil && r.ContentLength != 0 {
		var req refreshRequest
		if err := DecodeJSON(r, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	sess, err := h.Svc.RefreshSession(r.Context(), token)
	if err != nil {
		return err
	}

	h.setTokenCookies(w, r, sess)
	WriteJSON(w, http.StatusOK, sessionBody(sess))
	return nil
}

// Logout handles POST /auth/logout. Revocation is best effort; the cookies
// are cleared regardless so absence of data is never interpreted as validity.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) error {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = readCookie(r, AccessTokenCookie)
	}
	if err := h.Svc.Logout(r.Context(), token); err != nil {
		LoggerFromContext(r.Context()).WarnContext(r.Context(), "logout revoke failed", "error", err)
	}

	h.clearCookie(w, r, AccessTokenCookie)
	h.clearCookie(w, r, RefreshTokenCookie)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
	return nil
}

// Me handles GET /auth/me on authenticated routes.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("")
	}
	WriteJSON(w, http.StatusOK, userResponse{
		ID:        identity.UserID,
		Email:     identity.Email,
		CreatedAt: identity.CreatedAt,
	})
	return nil
}

func sessionBody(sess domainauth.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		User: userResponse{
			ID:        sess.User.UserID,
			Email:     sess.User.Email,
			CreatedAt: sess.User.CreatedAt,
		},
	}
}

// AccessCookieMaxAge computes the access-token cookie lifetime in seconds:
// max(0, expiresAt - now). The floor at zero matters; a negative lifetime
// would be rejected or mishandled by user agents.
func AccessCookieMaxAge(expiresAt int64, now time.Time) int64 {
	remaining := expiresAt - now.Unix()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// setTokenCookies issues the two HTTP-only credential cookies for the session.
func (h *AuthHandlers) setTokenCookies(w http.ResponseWriter, r *http.Request, sess domainauth.Session) {
	isSecure := requestIsSecure(r)

	accessMaxAge := int(AccessCookieMaxAge(sess.ExpiresAt, h.now()))
	if accessMaxAge == 0 {
		// net/http omits Max-Age for 0; a negative value serializes as
		// Max-Age=0, i.e. expire immediately.
		accessMaxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    sess.AccessToken,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   accessMaxAge,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    sess.RefreshToken,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(RefreshCookieMaxAge.Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately. It mirrors
// the attributes used when setting cookies to maximize compatibility across
// browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func readCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
