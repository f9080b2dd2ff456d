package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/api/handlers"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, searchService *search.Service, stores *history.Stores, sourceFor handlers.SourceFor, suggestionDelay time.Duration, validator *validation.Validator) error {
	router.GET("/health", health())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := handlers.SetupPages(router, logger); err != nil {
		return err
	}
	handlers.SetupSearch(router, logger, searchService, stores, validator)
	handlers.SetupSuggestions(router, logger, sourceFor, stores, suggestionDelay, validator)
	handlers.SetupTheme(router, logger, validator)
	handlers.SetupHistory(router, logger, stores)

	return nil
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
