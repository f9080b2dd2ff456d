package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/meghashyamc/searchfront/logger"
	"github.com/meghashyamc/searchfront/services/history"
	"github.com/meghashyamc/searchfront/services/search"
	"github.com/meghashyamc/searchfront/services/suggest"
	"github.com/meghashyamc/searchfront/validation"
)

const (
	socketEventInput        = "input"
	socketEventFocus        = "focus"
	socketEventOutsideClick = "outside_click"
	socketEventSelect       = "select"
	socketEventSubmit       = "submit"

	socketMessageSuggestions = "suggestions"
	socketMessageNavigate    = "navigate"

	socketWriteWait = 10 * time.Second
	socketReadLimit = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SourceFor picks the suggestion source used for a visitor.
type SourceFor func(visitorID string) suggest.Source

type SuggestionsRequest struct {
	Query string `form:"q" json:"q" validate:"max=1000"`
}

type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// SuggestEvent is one search box event sent by the browser.
type SuggestEvent struct {
	Type string `json:"type" validate:"required,oneof=input focus outside_click select submit"`
	Text string `json:"text" validate:"max=1000"`
}

type suggestionsMessage struct {
	Type        string   `json:"type"`
	State       string   `json:"state"`
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

type navigateMessage struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

func SetupSuggestions(router *gin.Engine, logger logger.Logger, sourceFor SourceFor, stores *history.Stores, delay time.Duration, validator *validation.Validator) {
	router.GET("/api/suggestions", handleSuggestions(sourceFor, logger, validator))
	router.GET("/ws/suggest", handleSuggestSocket(sourceFor, stores, delay, logger, validator))
}

// handleSuggestions answers a single undebounced lookup. Failures are reported as no suggestions.
func handleSuggestions(sourceFor SourceFor, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SuggestionsRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from suggestions request", "err", err.Error())
			c.Abort()
			writeError(c, http.StatusUnprocessableEntity, errBindParams)
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate suggestions request", "err", err.Error())
			c.Abort()
			writeError(c, http.StatusNotAcceptable, err.Error())
			return
		}

		suggestions := []string{}
		if strings.TrimSpace(request.Query) != "" {
			fetched, err := sourceFor(visitorID(c)).Suggest(c.Request.Context(), request.Query)
			if err != nil {
				logger.Warn("could not fetch suggestions", "query", request.Query, "err", err.Error())
			} else if len(fetched) > 0 {
				suggestions = fetched[:min(len(fetched), suggest.MaxSuggestions)]
			}
		}

		writeData(c, SuggestionsResponse{Query: request.Query, Suggestions: suggestions})
	}
}

func handleSuggestSocket(sourceFor SourceFor, stores *history.Stores, delay time.Duration, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader has already replied
			logger.Warn("could not upgrade suggestion connection", "err", err.Error())
			return
		}

		visitor := visitorID(c)
		socket := &suggestSocket{
			conn:        conn,
			logger:      logger,
			validator:   validator,
			history:     stores.For(visitor),
			snapshots:   make(chan suggest.Snapshot, 1),
			navigations: make(chan string, 1),
			writerDone:  make(chan struct{}),
		}

		activeSuggestSockets.Inc()
		defer activeSuggestSockets.Dec()

		logger.Debug("suggestion connection opened", "visitor_id", visitor)
		socket.run(c.Request.Context(), sourceFor(visitor), delay)
		logger.Debug("suggestion connection closed", "visitor_id", visitor)
	}
}

// suggestSocket drives one suggest.Session from the events of a single search box.
type suggestSocket struct {
	conn        *websocket.Conn
	logger      logger.Logger
	validator   *validation.Validator
	history     *history.Store
	snapshots   chan suggest.Snapshot
	navigations chan string
	writerDone  chan struct{}
}

func (s *suggestSocket) run(ctx context.Context, source suggest.Source, delay time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	session := suggest.NewSession(ctx, s.logger, source, delay, s.publish)
	go s.writeLoop(ctx)

	s.readLoop(session)

	session.Close()
	cancel()
	<-s.writerDone
}

// publish keeps only the newest snapshot queued. It runs under the session lock,
// so it is the only sender on s.snapshots.
func (s *suggestSocket) publish(snapshot suggest.Snapshot) {
	select {
	case <-s.snapshots:
	default:
	}
	s.snapshots <- snapshot
}

func (s *suggestSocket) readLoop(session *suggest.Session) {
	s.conn.SetReadLimit(socketReadLimit)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("suggestion connection closed unexpectedly", "err", err.Error())
			}
			return
		}

		event := SuggestEvent{}
		if err := json.Unmarshal(data, &event); err != nil {
			s.logger.Warn("could not decode suggestion event", "err", err.Error())
			continue
		}
		if err := s.validator.Validate(event); err != nil {
			continue
		}

		switch event.Type {
		case socketEventInput:
			session.Keystroke(event.Text)

		case socketEventFocus:
			session.Focus(event.Text)

		case socketEventOutsideClick:
			session.OutsideClick()

		case socketEventSelect, socketEventSubmit:
			target, ok := search.Target(event.Text)
			if !ok {
				continue
			}
			s.history.Record(strings.TrimSpace(event.Text))
			session.OutsideClick()

			select {
			case s.navigations <- target:
			case <-s.writerDone:
				return
			}
		}
	}
}

func (s *suggestSocket) writeLoop(ctx context.Context) {
	defer close(s.writerDone)

	for {
		var message any
		select {
		case <-ctx.Done():
			return
		case snapshot := <-s.snapshots:
			message = suggestionsMessage{
				Type:        socketMessageSuggestions,
				State:       snapshot.State.String(),
				Query:       snapshot.Query,
				Suggestions: snapshot.Suggestions,
			}
		case target := <-s.navigations:
			message = navigateMessage{Type: socketMessageNavigate, Target: target}
		}

		if err := s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
			s.logger.Warn("could not set write deadline", "err", err.Error())
		}
		if err := s.conn.WriteJSON(message); err != nil {
			s.logger.Warn("could not write suggestion message", "err", err.Error())
			// unblocks the read loop
			s.conn.Close()
			return
		}
	}
}
