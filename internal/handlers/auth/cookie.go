package auth

import (
	"net/http"
	"time"
)

const RefreshCookieName = "refreshToken"

type CookieConfig struct {
	Path   string
	Secure bool
}

// CreateCookie builds the refresh cookie. MaxAge is the whole refresh TTL,
// counted from exp.
func CreateCookie(cfg CookieConfig, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     cfg.Path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// DeleteCookie tells the client to drop the refresh cookie.
func DeleteCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     cfg.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
