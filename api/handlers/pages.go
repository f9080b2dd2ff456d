package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/ui"
)

const (
	templateHome    = "home.html"
	templateResults = "results.html"
)

type HomeRequest struct {
	Query string `form:"q" json:"q"`
}

// pageData is what every template renders from.
type pageData struct {
	Theme     string
	Query     string
	Compact   bool
	ReturnTo  string
	Year      int
	Page      search.Page
	PageLabel int
	PrevHref  string
	NextHref  string
}

func newPageData(c *gin.Context, query string) pageData {
	return pageData{
		Theme:    currentTheme(c),
		Query:    query,
		ReturnTo: c.Request.URL.RequestURI(),
		Year:     time.Now().Year(),
	}
}

func SetupPages(router *gin.Engine, logger logger.Logger) error {
	templates, err := template.ParseFS(ui.Files, "templates/*.html")
	if err != nil {
		logger.Error("could not parse page templates", "err", err.Error())
		return err
	}
	router.SetHTMLTemplate(templates)

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		logger.Error("could not open static files", "err", err.Error())
		return err
	}
	router.StaticFS("/static", http.FS(static))

	router.GET("/", handleHome(logger))

	return nil
}

func handleHome(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := HomeRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from home request", "err", err.Error())
			c.Abort()
			writeError(c, http.StatusUnprocessableEntity, errBindParams)
			return
		}

		// old links to /?q=... land on the results page
		if target, ok := search.Target(request.Query); ok {
			c.Redirect(http.StatusFound, target)
			return
		}

		c.HTML(http.StatusOK, templateHome, newPageData(c, ""))
	}
}
