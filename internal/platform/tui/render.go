package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/game"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// brighter is the color an additive or screen blend lifts a tint to.
var brighter = map[core.Color]core.Color{
	core.ColorDefault: core.ColorBrightWhite,
	core.ColorRed:     core.ColorBrightRed,
	core.ColorGreen:   core.ColorBrightGreen,
	core.ColorYellow:  core.ColorBrightYellow,
	core.ColorBlue:    core.ColorBrightBlue,
	core.ColorMagenta: core.ColorBrightMagenta,
	core.ColorCyan:    core.ColorBrightCyan,
	core.ColorWhite:   core.ColorBrightWhite,
	core.ColorGray:    core.ColorWhite,
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Canvas is a core.Renderer that projects world-space sprites onto a cell
// grid. Terminal cells are about twice as tall as wide, so one world unit
// covers half as many rows as columns.
type Canvas struct {
	screen *core.Screen
	worldW float64
	worldH float64
	blend  core.BlendMode
}

// NewCanvas returns a canvas for a worldW × worldH playfield fitted into
// at most cols × rows cells.
func NewCanvas(worldW, worldH float64, cols, rows int) *Canvas {
	c := &Canvas{worldW: worldW, worldH: worldH}
	w, h := c.fit(cols, rows)
	c.screen = core.NewScreen(w, h)
	return c
}

// fit returns the largest grid with the playfield's aspect that fits.
func (c *Canvas) fit(cols, rows int) (int, int) {
	k := math.Min(float64(max(cols, 1))/c.worldW, 2*float64(max(rows, 1))/c.worldH)
	return max(int(c.worldW*k), 1), max(int(c.worldH*k/2), 1)
}

// Resize refits the canvas into cols × rows cells.
func (c *Canvas) Resize(cols, rows int) {
	w, h := c.fit(cols, rows)
	c.screen.Resize(w, h)
}

// Screen returns the cell grid drawn into.
func (c *Canvas) Screen() *core.Screen { return c.screen }

// Clear blanks the grid for the next frame.
func (c *Canvas) Clear() {
	c.screen.Clear()
	c.blend = core.BlendAlpha
}

// Cell returns the cell a world position falls in.
func (c *Canvas) Cell(p core.Vec2) (int, int) {
	x := math.Floor(p.X / c.worldW * float64(c.screen.Width()))
	y := math.Floor(p.Y / c.worldH * float64(c.screen.Height()))
	return int(x), int(y)
}

// SetBlend implements core.Renderer.
func (c *Canvas) SetBlend(b core.BlendMode) { c.blend = b }

// Enqueue implements core.Renderer. Sprites arrive in z-order, so later
// sprites cover earlier ones; multiply only tints what is already there.
func (c *Canvas) Enqueue(s core.Sprite) {
	x, y := c.Cell(s.Pos)
	switch c.blend {
	case core.BlendAdd, core.BlendScreen:
		col := s.Color
		if b, ok := brighter[col]; ok {
			col = b
		}
		c.screen.SetColored(x, y, s.Glyph, col)
	case core.BlendMultiply:
		if cur := c.screen.GetCell(x, y); cur.Rune != ' ' {
			c.screen.SetColored(x, y, cur.Rune, core.ColorGray)
		}
	default:
		c.screen.SetColored(x, y, s.Glyph, s.Color)
	}
}

var _ core.Renderer = (*Canvas)(nil)

// HUD styles
var (
	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(hudWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	lifeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bombStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)
	dialogStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("230")).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

const hudWidth = 24

// HUDInfo is the host-side state shown next to the playfield.
type HUDInfo struct {
	Speed    int
	Replay   bool
	SavedID  string
	SaveErr  error
	Finished bool
}

// RenderHUD renders the side panel for a session.
func RenderHUD(s *game.Session, info HUDInfo) string {
	c := s.Counters()
	pShots, eShots, enemies, items, _ := s.Counts()

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-7s", label)) + " " + value
	}
	pips := func(style lipgloss.Style, fc int, frag, factor int) string {
		return style.Render(strings.Repeat("*", fc)) + labelStyle.Render(fmt.Sprintf(" %d/%d", frag, factor))
	}

	lines := []string{
		row("HiScore", valueStyle.Render(fmt.Sprintf("%010d", max(c.HighScore, c.Score)))),
		row("Score", valueStyle.Render(fmt.Sprintf("%010d", c.Score))),
		"",
		row("Player", pips(lifeStyle, c.Life.Completed, c.Life.Fragment, c.Life.Factor)),
		row("Bomb", pips(bombStyle, c.Bomb.Completed, c.Bomb.Fragment, c.Bomb.Factor)),
		"",
		row("Power", fmt.Sprintf("%d/%d", c.Power, s.Config().Resources.MaxPower)),
		row("Graze", fmt.Sprintf("%d", c.Graze)),
		row("Point", fmt.Sprintf("%d", c.PointValue)),
		row("Credits", fmt.Sprintf("%d", c.Credits)),
		"",
		row("Stage", s.Stage().Title),
		row("Rank", fmt.Sprintf("%.2f", s.Level())),
		row("Frame", fmt.Sprintf("%d", s.Frame())),
		row("Speed", fmt.Sprintf("x%d", info.Speed)),
		row("Bullets", fmt.Sprintf("%d/%d", eShots, pShots)),
		row("Enemies", fmt.Sprintf("%d", enemies)),
		row("Items", fmt.Sprintf("%d", items)),
	}
	if info.Replay {
		lines = append(lines, "", valueStyle.Render("REPLAY"))
	}
	switch {
	case info.SaveErr != nil:
		lines = append(lines, "", errorStyle.Render("save failed"))
	case info.SavedID != "":
		lines = append(lines, "", labelStyle.Render("saved "+info.SavedID[:min(8, len(info.SavedID))]))
	}
	return hudStyle.Render(strings.Join(lines, "\n"))
}

// overlay centers a banner on one row of the grid.
func overlay(screen *core.Screen, text string) {
	screen.DrawTextCentered(screen.Height()/2, " "+text+" ")
}
