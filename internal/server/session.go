package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/cadetops/corpshq/internal/config"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "_sid"

// CookieManager handles the session cookie. Live mode stores the raw
// session token; demo mode stores the fixed demo marker.
type CookieManager struct {
	cookieName string
	secure     bool
}

func NewCookieManager(cfg config.Config) *CookieManager {
	return &CookieManager{
		cookieName: sessionCookieName,
		secure:     cfg.AuthCookieSecure,
	}
}

func (m *CookieManager) CookieName() string {
	return m.cookieName
}

func (m *CookieManager) ReadToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

func (m *CookieManager) Set(c *gin.Context, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, int(maxAge.Seconds()), "/", "", m.secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
