package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
	"github.com/vovakirdan/tui-crossy/internal/config"
	"github.com/vovakirdan/tui-crossy/internal/core"
	"github.com/vovakirdan/tui-crossy/internal/leaderboard"
	"github.com/vovakirdan/tui-crossy/internal/registry"
	"github.com/vovakirdan/tui-crossy/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.crossy/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// BoardURL is the leaderboard server players submit to. Optional.
	BoardURL string

	// Game is the tuning every session plays with.
	Game config.CrossyConfig

	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		Game:        config.DefaultCrossyConfig(),
		TickRate:    60,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the game menu to SSH clients via Wish.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	board  *leaderboard.Client
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "crossy-ssh",
		})
	}

	// Players still get a game without a database.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		board:  leaderboard.NewClient(cfg.BoardURL, logger.WithPrefix("board")),
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".crossy", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	services := Services{
		Store:    s.store,
		Board:    s.board,
		Username: sess.User(),
		Bell:     true,
		BellOut:  sess,
		Logger:   s.logger.With("user", sess.User()),
	}
	if s.store != nil {
		services.Tracker = achievements.NewTracker(s.store)
	}

	return NewSessionModel(services, s.config.Game, cfg), []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr().String())
		next(sess)
		s.logger.Info("session ended", "user", sess.User(), "remote", sess.RemoteAddr().String())
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.closeStore()
			return err
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer s.closeStore()

	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// configurable is implemented by games that take injected tuning.
type configurable interface {
	SetConfig(config.CrossyConfig)
}

// NewGame creates a registered variant and applies cfg to it.
func NewGame(id string, cfg config.CrossyConfig) (registry.Game, error) {
	game, err := registry.Create(id)
	if err != nil {
		return nil, err
	}
	if c, ok := game.(configurable); ok {
		c.SetConfig(cfg)
	}
	return game, nil
}

// SessionModel is the top-level model for SSH sessions:
// menu -> game or scoreboard -> menu.
type SessionModel struct {
	services   Services
	gameConfig config.CrossyConfig
	config     core.RuntimeConfig
	menu       MenuModel
	scoreboard *ScoreboardModel
	gameModel  *Model
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(services Services, gameConfig config.CrossyConfig, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		services:   services,
		gameConfig: gameConfig,
		config:     cfg,
		menu:       NewMenuModel(services.Store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.gameModel != nil:
		return m.updateGame(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.gameModel = nil
	m.scoreboard = nil
	m.menu = NewMenuModel(m.services.Store, m.config)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode. The menu asks to quit
// whenever it is done; that command is dropped unless the player left.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.services.Store, m.services.Board, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		return m, sb.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := NewGame(selected.GameID, m.gameConfig)
		if err != nil {
			m.services.logger().Error("could not create game", "game", selected.GameID, "error", err)
			return m.backToMenu()
		}

		m.config = m.menu.Config()
		m.config.Seed = time.Now().UnixNano()
		gm := NewModel(game, m.services, m.config)
		m.gameModel = &gm
		return m, m.gameModel.Init()
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.gameModel.Update(msg)
	if gm, ok := next.(Model); ok {
		m.gameModel = &gm
		// Keep the name typed at a prompt for later runs.
		m.services.Username = gm.services.Username
	}

	switch {
	case m.gameModel.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.gameModel.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.gameModel != nil:
		return m.gameModel.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	}
	return m.menu.View()
}
