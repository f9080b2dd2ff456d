package stub

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/config"
	"github.com/meghashyamc/searchfront/db/searchdb"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/validation"
)

// Run serves the fixture until ctx is done or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	logger := logger.New(cfg.GetLogLevel())

	fixture, err := LoadFixture(cfg.GetStubDocumentsPath())
	if err != nil {
		logger.Error("could not load fixture", "err", err.Error())
		return err
	}

	searchDB, err := searchdb.New(logger, cfg.GetStubIndexPath())
	if err != nil {
		return err
	}
	defer searchDB.Close()

	if err := searchDB.BuildIndex(fixture.Documents); err != nil {
		return err
	}
	docCount, err := searchDB.GetDocCount()
	if err != nil {
		return err
	}
	logger.Info("indexed fixture documents", "count", docCount)

	validator, err := validation.New(logger)
	if err != nil {
		return err
	}

	router := gin.Default()
	Setup(router, logger, searchDB, NewSuggestions(logger, fixture.Suggestions), validator)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.GetStubPort()),
		Handler: router.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting stub backend", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down stub backend", "err", err.Error())
		return err
	}
	logger.Info("shut down stub backend successfully")

	return nil
}
