package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vovakirdan/tui-crossy/internal/storage"
)

const maxBodyBytes = 4 << 10

// Store is the persistence the server needs; *storage.Store satisfies it.
type Store interface {
	InsertRemoteScore(username string, score int) (storage.RemoteEntry, error)
	TopRemoteScores(limit int) ([]storage.RemoteEntry, error)
	RemoteBest(username string) (int, error)
}

// Server serves the leaderboard API and the live feed.
type Server struct {
	store    Store
	log      *log.Logger
	schema   *jsonschema.Schema
	hub      *hub
	upgrader websocket.Upgrader
}

// NewServer creates a server over store. A nil logger discards output.
func NewServer(store Store, logger *log.Logger) (*Server, error) {
	schema, err := compileSubmissionSchema()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: compile schema: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		store:  store,
		log:    logger,
		schema: schema,
		hub:    newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

// Run drives the live feed until ctx is done. Handlers must not be
// served before Run starts.
func (s *Server) Run(ctx context.Context) {
	s.hub.run(ctx)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scores", s.handleSubmit)
	mux.HandleFunc("GET /api/scores", s.handleTop)
	mux.HandleFunc("GET /api/scores/best", s.handleBest)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// ListenAndServe runs the feed and the HTTP server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Leaderboard listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("leaderboard: serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Stopping leaderboard")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("leaderboard: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}
	if err := s.schema.Validate(doc); err != nil {
		s.log.Debug("Rejected submission", "error", err)
		writeError(w, http.StatusBadRequest, "submission does not match schema")
		return
	}

	var sub submission
	if err := json.Unmarshal(body, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}
	name, score, err := Normalize(sub.Username, sub.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.store.InsertRemoteScore(name, score)
	if err != nil {
		s.log.Error("Could not store submission", "username", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store score")
		return
	}
	entry := entryFrom(row)
	s.log.Info("Score accepted", "username", entry.Username, "score", entry.Score)

	if msg, err := json.Marshal(Message{Type: "score", Entry: &entry}); err == nil {
		s.hub.publish(msg)
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.top(limit)
	if err != nil {
		s.log.Error("Could not load leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load scores")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	name, _, err := Normalize(r.URL.Query().Get("username"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	best, err := s.store.RemoteBest(name)
	if err != nil {
		s.log.Error("Could not load personal best", "username", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load best")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": name, "best": best})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	if entries, err := s.top(storage.DefaultRemoteLimit); err == nil {
		if msg, err := json.Marshal(Message{Type: "top", Entries: entries}); err == nil {
			c.send <- msg
		}
	}
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
	s.hub.leave(c)
}

func (s *Server) top(limit int) ([]Entry, error) {
	rows, err := s.store.TopRemoteScores(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFrom(row))
	}
	return entries, nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return storage.DefaultRemoteLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
