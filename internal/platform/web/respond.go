package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carelink/crm/internal/platform/db"
)

// FlashHeader surfaces a pending flash message as an X-Flash response
// header on the request that follows a redirect.
const FlashHeaderName = "X-Flash"

func FlashHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if msg, ok := TakeFlash(c); ok {
				c.Response().Header().Set(FlashHeaderName, msg)
			}
			return next(c)
		}
	}
}

// IsForm reports whether the request body is form-encoded.
func IsForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) ||
		strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

// Created answers a successful create. Form submissions are sent back to
// their collection with a flash notice; API clients get the row as JSON.
func Created(c echo.Context, redirectTo, flash string, body interface{}) error {
	if IsForm(c) {
		SetFlash(c, flash)
		return c.Redirect(http.StatusSeeOther, redirectTo)
	}
	return c.JSON(http.StatusCreated, body)
}

// CreateError maps a failed insert to an HTTP error. Referential
// violations and duplicates get distinct statuses; everything else is
// treated as a validation failure.
func CreateError(err error) *echo.HTTPError {
	switch {
	case db.IsForeignKeyViolation(err):
		return echo.NewHTTPError(http.StatusBadRequest, "referenced record does not exist")
	case db.IsUniqueViolation(err):
		return echo.NewHTTPError(http.StatusConflict, "record already exists")
	case db.IsCheckViolation(err):
		return echo.NewHTTPError(http.StatusBadRequest, "value violates a data constraint")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
