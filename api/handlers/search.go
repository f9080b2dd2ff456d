package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/backend"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/validation"
)

// SearchRequest addresses the results page. Without a page it is a fresh
// navigation and always fetches; with one it pages through the loaded results.
type SearchRequest struct {
	Query string `form:"q" json:"q" validate:"max=1000"`
	Page  *int   `form:"page" json:"page" validate:"omitempty,min=0"`
}

type SubmitRequest struct {
	Query string `form:"q" json:"q" validate:"required,valid_query,max=1000"`
}

type SearchResponse struct {
	Query       string               `json:"query"`
	Loading     bool                 `json:"loading"`
	Results     []backend.ResultItem `json:"results"`
	TotalTime   float64              `json:"total_time"`
	PageDetails Pagination           `json:"page_details"`
}

type SubmitResponse struct {
	Target string `json:"target"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, stores *history.Stores, validator *validation.Validator) {
	router.GET(search.ResultsPath, handleResultsPage(service, logger, validator))
	router.GET("/api/search", handleSearch(service, logger, validator))
	router.POST("/submit", handleSubmit(stores, logger, validator))
	router.POST("/api/submit", handleSubmitJSON(stores, logger, validator))
}

func handleResultsPage(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindSearchRequest(c, logger, validator)
		if !ok {
			return
		}

		page := service.View(visitorID(c)).Open(c.Request.Context(), request.Query, request.Page)

		data := newPageData(c, page.Query)
		data.Compact = true
		data.Page = page
		data.PageLabel = page.CurrentPage + 1
		if page.HasPrevPage {
			data.PrevHref = search.PageTarget(page.Query, page.CurrentPage-1)
		}
		if page.HasNextPage {
			data.NextHref = search.PageTarget(page.Query, page.CurrentPage+1)
		}

		c.HTML(http.StatusOK, templateResults, data)
	}
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := bindSearchRequest(c, logger, validator)
		if !ok {
			return
		}

		page := service.View(visitorID(c)).Open(c.Request.Context(), request.Query, request.Page)

		writeData(c, SearchResponse{
			Query:       page.Query,
			Loading:     page.Loading,
			Results:     page.Results,
			TotalTime:   page.TotalTime,
			PageDetails: paginationFromPage(page),
		})
	}
}

func bindSearchRequest(c *gin.Context, logger logger.Logger, validator *validation.Validator) (SearchRequest, bool) {
	request := SearchRequest{}
	if err := c.ShouldBindQuery(&request); err != nil {
		logger.Warn("could not extract expected params from search request", "err", err.Error())
		c.Abort()
		writeError(c, http.StatusUnprocessableEntity, errBindParams)
		return request, false
	}

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate search request", "err", err.Error())
		c.Abort()
		writeError(c, http.StatusNotAcceptable, err.Error())
		return request, false
	}

	return request, true
}

// handleSubmit records the query in the visitor's history and sends the browser to the results page.
func handleSubmit(stores *history.Stores, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := submit(c, stores, logger, validator)
		if !ok {
			return
		}

		c.Redirect(http.StatusSeeOther, target)
	}
}

func handleSubmitJSON(stores *history.Stores, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, ok := submit(c, stores, logger, validator)
		if !ok {
			return
		}

		writeData(c, SubmitResponse{Target: target})
	}
}

func submit(c *gin.Context, stores *history.Stores, logger logger.Logger, validator *validation.Validator) (string, bool) {
	request := SubmitRequest{}
	if err := c.ShouldBind(&request); err != nil {
		logger.Warn("could not extract expected params from submit request", "err", err.Error())
		c.Abort()
		writeError(c, http.StatusUnprocessableEntity, errBindBody)
		return "", false
	}

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate submit request", "err", err.Error())
		c.Abort()
		writeError(c, http.StatusNotAcceptable, err.Error())
		return "", false
	}

	target, ok := search.Target(request.Query)
	if !ok {
		c.Abort()
		writeError(c, http.StatusNotAcceptable, validation.ErrInvalidQuery.Error())
		return "", false
	}

	stores.For(visitorID(c)).Record(strings.TrimSpace(request.Query))

	return target, true
}
