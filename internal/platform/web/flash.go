package web

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// FlashCookie carries a one-shot notice across a redirect.
const FlashCookie = "crm_flash"

// SetFlash stores a message to be shown on the next request.
func SetFlash(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash returns the pending message, if any, and clears it.
func TakeFlash(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(FlashCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		msg = cookie.Value
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return msg, true
}
