package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/validation"
)

const (
	CookieVisitorID = "visitor_id"
	CookieTheme     = "theme"

	contextKeyVisitorID = "visitor_id"

	themeLight = "light"
	themeDark  = "dark"

	cookieMaxAge = 365 * 24 * 60 * 60
)

type visitorCookie struct {
	ID string `json:"visitor_id" validate:"valid_visitor_id"`
}

// VisitorMiddleware makes sure every request carries a visitor id, issuing a new
// cookie when the browser has none or sent something that is not a uuid.
func VisitorMiddleware(logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor := visitorCookie{}
		id, err := c.Cookie(CookieVisitorID)
		if err == nil {
			visitor.ID = id
			err = validator.Validate(visitor)
		}

		if err != nil {
			visitor.ID = uuid.NewString()
			logger.Debug("issuing visitor id", "visitor_id", visitor.ID)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieVisitorID, visitor.ID, cookieMaxAge, "/", "", false, true)
		}

		c.Set(contextKeyVisitorID, visitor.ID)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(contextKeyVisitorID)
}

func currentTheme(c *gin.Context) string {
	if theme, err := c.Cookie(CookieTheme); err == nil && theme == themeDark {
		return themeDark
	}
	return themeLight
}
