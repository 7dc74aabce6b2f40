package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/config"
)

// SessionCookieName is the cookie carrying the session token for
// browser-based clients. Non-browser clients use the response-body token
// with an Authorization header instead; both carry the same signed token.
const SessionCookieName = "token"

// CookieWriter issues and clears the session cookie with environment-aware
// attributes: Secure and SameSite=None in production, SameSite=Lax in dev
// so local HTTP frontends still work.
type CookieWriter struct {
	site   config.SiteConfig
	maxAge time.Duration
}

// NewCookieWriter constructs a CookieWriter.
func NewCookieWriter(site config.SiteConfig, maxAge time.Duration) *CookieWriter {
	return &CookieWriter{site: site, maxAge: maxAge}
}

// Set writes the session cookie on the response.
func (w *CookieWriter) Set(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   w.site.CookieDomain,
		MaxAge:   int(w.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   w.site.Production(),
		SameSite: w.sameSite(),
	})
}

// Clear expires the session cookie with matching attributes so browsers
// actually drop it.
func (w *CookieWriter) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   w.site.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.site.Production(),
		SameSite: w.sameSite(),
	})
}

func (w *CookieWriter) sameSite() http.SameSite {
	if w.site.Production() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
