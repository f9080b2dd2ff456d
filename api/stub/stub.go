// Package stub is a stand-in search backend for local development.
package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/db/searchdb"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/validation"
)

type Request struct {
	Query string `form:"query" json:"query" validate:"max=1000"`
}

func Setup(router *gin.Engine, logger logger.Logger, searchDB searchdb.DB, suggestions *history.Store, validator *validation.Validator) {
	router.GET("/search", handleSearch(searchDB, logger, validator))
	router.GET("/suggestions", handleSuggestions(suggestions, logger, validator))
}

// NewSuggestions keeps the fixture suggestions in a memory-backed store, matched the same way as search history.
func NewSuggestions(logger logger.Logger, entries []string) *history.Store {
	return history.New(logger, history.NewMemoryPersister(entries...), max(len(entries), 1))
}

func handleSearch(searchDB searchdb.DB, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindRequest(c, logger, validator)
		if !ok {
			return
		}

		response, err := searchDB.Search(request.Query)
		if err != nil {
			logger.Error("search failed", "query", request.Query, "err", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

func handleSuggestions(suggestions *history.Store, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindRequest(c, logger, validator)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, suggestions.Suggest(request.Query))
	}
}

func bindRequest(c *gin.Context, logger logger.Logger, validator *validation.Validator) (Request, bool) {
	request := Request{}
	if err := c.ShouldBindQuery(&request); err != nil {
		logger.Warn("could not extract expected params from stub request", "err", err.Error())
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "failed to extract request parameters"})
		return request, false
	}

	if err := validator.Validate(request); err != nil {
		c.AbortWithStatusJSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
		return request, false
	}

	return request, true
}
