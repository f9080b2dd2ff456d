package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/history"
)

type HistoryResponse struct {
	Entries []string `json:"entries"`
}

func SetupHistory(router *gin.Engine, logger logger.Logger, stores *history.Stores) {
	router.GET("/api/history", handleGetHistory(stores, logger))
	router.DELETE("/api/history", handleClearHistory(stores, logger))
}

func handleGetHistory(stores *history.Stores, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeData(c, HistoryResponse{Entries: stores.For(visitorID(c)).Entries()})
	}
}

func handleClearHistory(stores *history.Stores, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitor := visitorID(c)
		stores.For(visitor).Clear()
		logger.Info("cleared search history", "visitor_id", visitor)

		c.Status(http.StatusNoContent)
	}
}
