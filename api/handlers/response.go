package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/services/search"
)

const (
	errBindParams = "failed to extract request parameters"
	errBindBody   = "failed to extract request body parameters"
)

// response is the JSON envelope of every /api endpoint. Exactly one of Data and Errors is set.
type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeData(c *gin.Context, data any) {
	writeResponse(c, http.StatusOK, response{Data: data})
}

func writeError(c *gin.Context, statusCode int, message string) {
	writeResponse(c, statusCode, response{Errors: []string{message}})
}

func writeResponse(c *gin.Context, statusCode int, body response) {
	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return
	}
	c.JSON(statusCode, body)
}

// Pagination pages are 0-based.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func paginationFromPage(page search.Page) Pagination {
	return Pagination{
		CurrentPage:  page.CurrentPage,
		PageSize:     page.PageSize,
		TotalPages:   page.TotalPages,
		HasNextPage:  page.HasNextPage,
		HasPrevPage:  page.HasPrevPage,
		TotalResults: page.TotalCount,
	}
}
