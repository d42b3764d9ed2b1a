package inbound

import (
	"net/http"
	"time"

	"github.com/shandysiswandi/storefront/internal/pkg/router"
)

// CookieConfig controls the session cookie. Production switches it to
// Secure with SameSite=None so a storefront on another origin can send it.
type CookieConfig struct {
	Name       string
	Production bool
}

func (c CookieConfig) withDefaults() CookieConfig {
	if c.Name == "" {
		c.Name = router.DefaultSessionCookie
	}
	return c
}

func (c CookieConfig) session(token string, ttl time.Duration) *http.Cookie {
	cookie := c.base()
	cookie.Value = token
	cookie.MaxAge = int(ttl / time.Second)
	return cookie
}

// clear expires the cookie on the client (Max-Age=-1 is written as Max-Age=0).
func (c CookieConfig) clear() *http.Cookie {
	cookie := c.base()
	cookie.MaxAge = -1
	return cookie
}

func (c CookieConfig) base() *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.Name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
