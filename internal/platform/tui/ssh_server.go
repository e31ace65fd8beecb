package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/playtest"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.playtest/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Levels is the pack offered in the menu.
	Levels []config.Level

	// FPS is the initial replay speed of every session.
	FPS int

	// Logger receives session and run logs. Nil creates a stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.playtest/runs.db",
		IdleTimeout: 30 * time.Minute,
		Levels:      config.DefaultLevels(),
		FPS:         core.DefaultConfig().TickRate,
	}
}

// SSHServer wraps a Wish SSH server that lets remote users watch replays.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "playtest-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".playtest", "host_key")
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
		TickRate: s.config.FPS,
	}
	runner := playtest.Runner{
		Logger: s.logger.With("user", sess.User()),
	}
	if s.store != nil {
		runner.Store = s.store
	}

	return NewSessionModel(s.config.Levels, s.store, runner, cfg), []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "levels", len(s.config.Levels))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenReplay
	screenHistory
)

// SessionModel drives a full session: menu -> replay or history -> menu.
// It is the top-level model for SSH sessions and for the local menu.
type SessionModel struct {
	levels   []config.Level
	store    *storage.Store
	runner   playtest.Runner
	config   core.RuntimeConfig
	screen   sessionScreen
	menu     MenuModel
	replay   ReplayModel
	history  HistoryModel
	quitting bool
}

// NewSessionModel creates a new session model. store may be nil.
func NewSessionModel(levels []config.Level, store *storage.Store, runner playtest.Runner, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		levels: levels,
		store:  store,
		runner: runner,
		config: cfg,
		menu:   NewMenuModel(levels, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenReplay:
		return m.updateReplay(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsHistory():
		m.history = NewHistoryModel(m.levels, m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenHistory
		return m, m.history.Init()

	case m.menu.Selected() != nil:
		cfg := m.config
		cfg.Seed = 0
		m.replay = NewReplayModel(*m.menu.Selected(), m.runner, cfg)
		m.screen = screenReplay
		return m, m.replay.Init()
	}

	return m, cmd
}

func (m SessionModel) updateReplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.replay.Update(msg)
	if rm, ok := next.(ReplayModel); ok {
		m.replay = rm
	}

	switch {
	case m.replay.BackToMenu():
		return m.backToMenu()
	case m.replay.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if hm, ok := next.(HistoryModel); ok {
		m.history = hm
	}

	switch {
	case m.history.IsGoingBack():
		return m.backToMenu()
	case m.history.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// backToMenu drops the active screen. Pending ticks of a closed replay
// reach the fresh menu, which ignores them.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.levels, m.config)
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenReplay:
		return m.replay.View()
	case screenHistory:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs a full menu session in the local terminal.
func RunSession(levels []config.Level, store *storage.Store, runner playtest.Runner, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewSessionModel(levels, store, runner, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
