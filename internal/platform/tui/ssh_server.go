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

	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.danmaku/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// NewSession builds a session for a menu selection.
	NewSession func(Selection) (*game.Session, error)

	// NewReplay builds a playback session for a stored replay ID.
	NewReplay func(id string) (*game.Session, error)
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server that serves the play screen.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. store may be nil; replays are
// then not saved.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if cfg.NewSession == nil {
		return nil, errors.New("tui: ssh server needs a session factory")
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "danmaku-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".danmaku", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
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
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a menu-driven session model for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := s.config
	if live, ok := sshSession.Context().Value(liveKey{}).(*liveSessions); ok {
		cfg.NewSession = func(sel Selection) (*game.Session, error) {
			return live.track(s.config.NewSession(sel))
		}
		if s.config.NewReplay != nil {
			cfg.NewReplay = func(id string) (*game.Session, error) {
				return live.track(s.config.NewReplay(id))
			}
		}
	}
	model := NewSessionModel(cfg, s.store, sshSession.User(), s.logger, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		live := &liveSessions{}
		sshSession.Context().SetValue(liveKey{}, live)
		next(sshSession)
		// The program has exited; a dropped connection may have left a game running.
		live.closeAll()
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

type liveKey struct{}

// liveSessions tracks the game sessions one connection created.
type liveSessions struct {
	list []*game.Session
}

func (l *liveSessions) track(s *game.Session, err error) (*game.Session, error) {
	if err != nil {
		return nil, err
	}
	kept := l.list[:0]
	for _, old := range l.list {
		if !old.Closed() {
			kept = append(kept, old)
		}
	}
	l.list = append(kept, s)
	return s, nil
}

func (l *liveSessions) closeAll() {
	for _, s := range l.list {
		s.Close()
	}
	l.list = nil
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// process receives an interrupt.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full remote flow: menu -> play or scores -> menu.
type SessionModel struct {
	config   SSHServerConfig
	store    *storage.Store
	username string
	logger   *log.Logger
	width    int
	height   int

	menu       MenuModel
	play       *Model
	scoreboard *ScoreboardModel
	status     string
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SSHServerConfig, store *storage.Store, username string, logger *log.Logger, width, height int) SessionModel {
	return SessionModel{
		config:   cfg,
		store:    store,
		username: username,
		logger:   logger.With("user", username),
		width:    width,
		height:   height,
		menu:     NewMenuModel(width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = wsm.Width, wsm.Height
	}

	switch {
	case m.play != nil:
		return m.updatePlay(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
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

	case m.menu.WantsScoreboard():
		sb := NewScoreboardModel(m.store, m.width, m.height)
		m.scoreboard = &sb
		m.menu = NewMenuModel(m.width, m.height)
		return m, nil

	case m.menu.Selected() != nil:
		sel := *m.menu.Selected()
		m.menu = NewMenuModel(m.width, m.height)
		return m.startPlay(func() (*game.Session, error) { return m.config.NewSession(sel) })
	}
	return m, cmd
}

func (m SessionModel) startPlay(newSession func() (*game.Session, error)) (tea.Model, tea.Cmd) {
	play, err := NewModel(Options{
		NewSession: newSession,
		Store:      m.store,
		Name:       m.username,
		Logger:     m.logger,
		Width:      m.width,
		Height:     m.height,
	})
	if err != nil {
		m.logger.Error("cannot start session", "error", err)
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.play = &play
	return m, play.Init()
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if pm, ok := next.(Model); ok {
		m.play = &pm
	}
	if m.play.quitting {
		m.play = nil
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scoreboard = &sm
	}

	switch {
	case m.scoreboard.quitting:
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.goingBack:
		m.scoreboard = nil
		return m, nil
	case m.scoreboard.watch != "":
		id := m.scoreboard.watch
		m.scoreboard = nil
		if m.config.NewReplay == nil {
			return m, nil
		}
		return m.startPlay(func() (*game.Session, error) { return m.config.NewReplay(id) })
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.play != nil:
		return m.play.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	}
	if m.status != "" {
		return m.menu.View() + "\n" + errorStyle.Render(m.status)
	}
	return m.menu.View()
}
