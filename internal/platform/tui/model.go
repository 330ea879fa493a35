package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/frame"
	"github.com/vovakirdan/tui-danmaku/internal/game"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

// Options configures a play screen.
type Options struct {
	// NewSession builds a fresh session. It is called at start and on restart.
	NewSession func() (*game.Session, error)
	// Store receives finished replays and scores. nil disables saving.
	Store *storage.Store
	// Name labels saved replays.
	Name   string
	Logger *log.Logger
	Width  int
	Height int
}

// savedMsg reports the outcome of a background replay save.
type savedMsg struct {
	id  string
	err error
}

// Model is the Bubble Tea model hosting one session.
type Model struct {
	opts    Options
	session *game.Session
	timing  config.TimingConfig
	sched   *frame.Scheduler
	keys    KeyMap
	held    *Held
	help    help.Model
	canvas  *Canvas
	logger  *log.Logger

	width  int
	height int
	alpha  float64

	pausePending bool
	finished     bool
	savedID      string
	saveErr      error
	err          error
	quitting     bool
}

// NewModel creates a play screen. The session is built immediately so
// configuration errors surface before the program starts.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		logger: logger,
		width:  max(opts.Width, 40),
		height: max(opts.Height, 12),
	}
	if err := m.start(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// start builds a new session and resets the host state around it.
func (m *Model) start() error {
	s, err := m.opts.NewSession()
	if err != nil {
		return err
	}
	if m.session != nil {
		m.session.Close()
	}
	m.session = s
	m.timing = s.Config().Timing
	m.sched = frame.New(m.timing.RenderMultiplier, m.timing.Speed)
	m.sched.SetSpeedUpMultiplier(m.timing.SpeedUpMultiplier)
	m.sched.SetMultiplex(m.timing.Multiplex)
	// A key stays held for about a third of a second without autorepeat.
	m.held = NewHeld(m.timing.TickRate / 3)
	world := s.Config().World
	cols, rows := m.fieldSize()
	m.canvas = NewCanvas(world.Width, world.Height, cols, rows)
	m.alpha = 1
	m.pausePending = false
	m.finished = false
	m.savedID = ""
	m.saveErr = nil
	m.err = nil
	return nil
}

// fieldSize returns the cells left for the playfield inside its border.
func (m *Model) fieldSize() (int, int) {
	return m.width - hudWidth - 6, m.height - 4
}

// renderRate is the render callbacks per second at speed 1.
func (m *Model) renderRate() int {
	return core.RuntimeConfig{TickRate: m.timing.TickRate, RenderMultiplier: m.timing.RenderMultiplier}.RenderRate()
}

// Init starts the render clock.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.renderRate())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 40)
		m.height = max(msg.Height, 12)
		m.canvas.Resize(m.fieldSize())
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()

	case savedMsg:
		m.savedID, m.saveErr = msg.id, msg.err
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Apply(msg, m.held) {
	case ControlQuit:
		m.quitting = true
		m.session.Close()
		return m, tea.Quit
	case ControlRestart:
		if m.finished || m.err != nil {
			if err := m.start(); err != nil {
				m.err = err
				return m, nil
			}
			return m, tickCmd(m.renderRate())
		}
	case ControlPause:
		m.pausePending = true
	}
	return m, nil
}

// handleTick runs one render callback: the scheduler's catch-up ticks,
// then the drawn tick if any.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.finished || m.err != nil {
		return m, nil
	}

	m.sched.SetSpeedUp(m.held.Mask().Has(core.SignalSpeedUp))
	f := m.sched.Next()
	for range f.Ticks() {
		if err := m.step(); err != nil {
			m.err = err
			m.logger.Error("simulation stopped", "frame", m.session.Frame(), "error", err)
			return m, nil
		}
		if m.done() {
			return m, m.finish()
		}
	}
	m.alpha = f.Alpha
	if m.session.Paused() {
		m.alpha = 1
	}
	return m, tickCmd(m.renderRate())
}

// step runs one logical tick. A pending pause toggle is only delivered at
// a tick boundary so the picture never freezes mid-interpolation.
func (m *Model) step() error {
	mask := m.held.Mask()
	if m.pausePending && (m.session.Paused() || m.sched.CanPause()) {
		mask = mask.With(core.SignalPause)
		m.pausePending = false
	}
	err := m.session.Tick(mask)
	m.held.Decay()
	return err
}

func (m *Model) done() bool {
	st := m.session.State()
	return st.GameOver || st.Cleared || m.session.PlaybackDone()
}

// finish snapshots the recording on the UI goroutine and hands the
// snapshot to a background save.
func (m *Model) finish() tea.Cmd {
	m.finished = true
	m.alpha = 1
	st := m.session.State()
	m.logger.Info("session finished",
		"mode", m.session.Mode(),
		"score", st.Score,
		"frames", st.Frame,
		"cleared", st.Cleared,
	)

	if !m.session.Recording() || m.opts.Store == nil {
		return nil
	}
	name := m.opts.Name
	if name == "" {
		name = defaultName(m.session.Mode(), m.session.Difficulty())
	}
	rec, err := m.session.Finish(name)
	if err != nil {
		m.saveErr = err
		return nil
	}
	return saveCmd(m.opts.Store, m.logger, rec)
}

func saveCmd(store *storage.Store, logger *log.Logger, rec *replay.Record) tea.Cmd {
	return func() tea.Msg {
		err := store.SaveReplay(rec)
		if err == nil {
			_, err = store.SaveScore(rec.Mode, rec.Difficulty, rec.Score, rec.ID)
		}
		if err != nil {
			logger.Error("could not save replay", "id", rec.ID, "error", err)
			return savedMsg{err: err}
		}
		logger.Info("replay saved", "id", rec.ID, "frames", rec.FrameCount, "score", rec.Score)
		return savedMsg{id: rec.ID}
	}
}

// View renders the playfield, the HUD and any banner.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.canvas.Clear()
	m.session.Draw(m.canvas, m.alpha)
	st := m.session.State()
	switch {
	case m.err != nil:
		overlay(m.canvas.Screen(), "STOPPED")
	case st.Cleared:
		overlay(m.canvas.Screen(), "ALL CLEAR")
	case st.GameOver:
		overlay(m.canvas.Screen(), "GAME OVER")
	case m.session.PlaybackDone():
		overlay(m.canvas.Screen(), "END OF REPLAY")
	case st.Paused:
		overlay(m.canvas.Screen(), "PAUSED")
	}

	field := fieldStyle.Render(RenderScreen(m.canvas.Screen()))
	hud := RenderHUD(m.session, HUDInfo{
		Speed:    m.sched.Effective(),
		Replay:   !m.session.Recording(),
		SavedID:  m.savedID,
		SaveErr:  m.saveErr,
		Finished: m.finished,
	})
	body := lipgloss.JoinHorizontal(lipgloss.Top, field, " ", hud)

	footer := m.help.View(m.keys)
	switch {
	case m.err != nil:
		footer = errorStyle.Render(m.err.Error())
	case m.finished:
		footer = bannerStyle.Render("r restart · q quit")
	case m.session.Dialog() != "":
		footer = dialogStyle.Render(m.session.Dialog())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// Close releases the hosted session. It is safe to call more than once.
func (m Model) Close() {
	if m.session != nil {
		m.session.Close()
	}
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

// Run starts the Bubble Tea program for a play screen.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	model.Close()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		fm.Close()
		if fm.Err() != nil && !errors.Is(fm.Err(), replay.ErrDesync) {
			return fmt.Errorf("tui: %w", fm.Err())
		}
	}
	return nil
}

// defaultName labels a replay when the caller gives no name.
func defaultName(mode, difficulty string) string {
	return fmt.Sprintf("%s %s %s", mode, difficulty, time.Now().Format("2006-01-02 15:04"))
}
