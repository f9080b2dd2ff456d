package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/validation"
)

type ThemeRequest struct {
	ReturnTo string `form:"return_to" json:"return_to" validate:"max=2048"`
}

func SetupTheme(router *gin.Engine, logger logger.Logger, validator *validation.Validator) {
	router.POST("/theme", handleToggleTheme(logger, validator))
}

// handleToggleTheme flips the theme cookie and sends the browser back where it came from.
func handleToggleTheme(logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ThemeRequest{}
		if err := c.ShouldBind(&request); err != nil {
			logger.Warn("could not extract expected params from theme request", "err", err.Error())
			c.Abort()
			writeError(c, http.StatusUnprocessableEntity, errBindBody)
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate theme request", "err", err.Error())
			c.Abort()
			writeError(c, http.StatusNotAcceptable, err.Error())
			return
		}

		theme := themeDark
		if currentTheme(c) == themeDark {
			theme = themeLight
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieTheme, theme, cookieMaxAge, "/", "", false, false)
		c.Redirect(http.StatusSeeOther, localPath(request.ReturnTo))
	}
}

// localPath only lets through paths on this site.
func localPath(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "/"
	}
	return path
}
