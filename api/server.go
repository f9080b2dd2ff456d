package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/searchfront/api/handlers"
	"github.com/meghashyamc/searchfront/config"
	"github.com/meghashyamc/searchfront/db/kvdb"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/backend"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/services/suggest"
	"github.com/meghashyamc/searchfront/validation"
)

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	backend    *backend.Client
	search     *search.Service
	history    *history.Stores
	validator  *validation.Validator
	logger     logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(); err != nil {
		return err
	}
	if err := s.setupRouter(); err != nil {
		return err
	}
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

func (s *server) setupDependencies() error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg.GetKVDBPath())
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	s.history, err = history.NewStores(s.logger, s.kvdb, s.cfg.GetHistoryCap(), s.cfg.GetMaxViews())
	if err != nil {
		s.logger.Error("error creating history stores", "err", err.Error())
		return err
	}
	s.backend = backend.New(s.logger, s.cfg.GetBackendURL())
	s.search, err = search.New(s.logger, s.backend, s.cfg.GetMaxViews())
	if err != nil {
		s.logger.Error("error creating search service", "err", err.Error())
		return err
	}
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	return nil

}

// suggestionSource serves suggestions from the backend or from the visitor's own history.
func (s *server) suggestionSource() handlers.SourceFor {
	if s.cfg.GetSuggestionSource() == config.SuggestionSourceRemote {
		s.logger.Info("serving suggestions from the search backend", "url", s.cfg.GetBackendURL())
		return func(string) suggest.Source {
			return s.backend
		}
	}

	s.logger.Info("serving suggestions from search history")
	return func(visitorID string) suggest.Source {
		return s.history.For(visitorID).Source()
	}
}

func (s *server) setupRouter() error {
	router := newRouter()

	router.Use(loggingMiddleware(s.logger))
	router.Use(handlers.VisitorMiddleware(s.logger, s.validator))

	if err := setupRoutes(router, s.logger, s.search, s.history, s.suggestionSource(), s.cfg.GetSuggestionDelay(), s.validator); err != nil {
		return err
	}

	s.router = router
	return nil
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.kvdb.Close()
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}
