package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/model"
	"github.com/vanderheijden86/contribsnake/pkg/render"
)

const (
	cellGlyph  = "■ "
	emptyGlyph = "  "

	minFrameDuration = 10 * time.Millisecond
	maxFrameDuration = 2 * time.Second
)

type previewKeys struct {
	Quit    key.Binding
	Pause   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Restart key.Binding
	Help    key.Binding
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Restart, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Restart}, {k.Faster, k.Slower}, {k.Help, k.Quit}}
}

func defaultPreviewKeys() previewKeys {
	return previewKeys{
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Faster:  key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "slower")),
		Restart: key.NewBinding(key.WithKeys("r", "home"), key.WithHelp("r", "restart")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// frameTickMsg advances the preview. Ticks from an older generation are
// dropped so pausing and restarting never leave two tick chains running.
type frameTickMsg struct{ gen int }

// PreviewModel replays the snake animation in the terminal.
type PreviewModel struct {
	grid     model.Grid
	path     model.Path
	theme    config.Theme
	snakeLen int
	eaten    map[model.Coord]int

	frame    int
	frames   int
	duration time.Duration
	paused   bool
	gen      int

	title    string
	keys     previewKeys
	help     help.Model
	showHelp bool
	width    int
}

// NewPreview builds a preview of path over grid in the given theme.
func NewPreview(title string, grid model.Grid, path model.Path, theme config.Theme, rc config.RenderConfig) PreviewModel {
	eaten := make(map[model.Coord]int, len(path))
	for i, v := range path {
		if _, ok := eaten[v.Coord()]; !ok {
			eaten[v.Coord()] = i
		}
	}
	d := rc.FrameDuration
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	snakeLen := max(1, rc.SnakeLength)
	return PreviewModel{
		grid:     grid,
		path:     path,
		theme:    theme,
		snakeLen: snakeLen,
		eaten:    eaten,
		frames:   render.FrameCount(path, snakeLen),
		duration: d,
		title:    title,
		keys:     defaultPreviewKeys(),
		help:     help.New(),
	}
}

// Frame returns the index of the frame on screen.
func (m PreviewModel) Frame() int { return m.frame }

// Paused reports whether playback is paused.
func (m PreviewModel) Paused() bool { return m.paused }

// FrameDuration returns the current playback speed.
func (m PreviewModel) FrameDuration() time.Duration { return m.duration }

func (m PreviewModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.duration, func(time.Time) tea.Msg {
		return frameTickMsg{gen: gen}
	})
}

func (m PreviewModel) Init() tea.Cmd {
	return m.tick()
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameTickMsg:
		if msg.gen != m.gen || m.paused {
			return m, nil
		}
		m.frame = (m.frame + 1) % max(1, m.frames)
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			m.gen++
			if m.paused {
				return m, nil
			}
			return m, m.tick()
		case key.Matches(msg, m.keys.Faster):
			m.duration = max(minFrameDuration, m.duration/2)
		case key.Matches(msg, m.keys.Slower):
			m.duration = min(maxFrameDuration, m.duration*2)
		case key.Matches(msg, m.keys.Restart):
			m.frame = 0
			m.gen++
			if m.paused {
				return m, nil
			}
			return m, m.tick()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	f := render.FrameAt(m.path, m.snakeLen, m.frame)

	segment := make(map[model.Coord]int, len(f.Snake))
	for i, v := range f.Snake {
		segment[v.Coord()] = i
	}

	levelStyles := make([]lipgloss.Style, len(m.theme.Levels))
	for i, hex := range m.theme.Levels {
		levelStyles[i] = lipgloss.NewStyle().Foreground(ThemeFg(hex))
	}
	bodyStyle := lipgloss.NewStyle().Foreground(ThemeFg(m.theme.Snake))
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(ThemeFg(m.theme.SnakeHead))

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(m.title))
	sb.WriteString("\n\n")
	for row := range m.grid.Rows() {
		for col := range m.grid.Columns() {
			cell, ok := m.grid.At(col, row)
			if !ok {
				sb.WriteString(emptyGlyph)
				continue
			}
			c := model.Coord{Col: col, Row: row}
			if i, on := segment[c]; on {
				if i == 0 {
					sb.WriteString(headStyle.Render(cellGlyph))
				} else {
					sb.WriteString(bodyStyle.Render(cellGlyph))
				}
				continue
			}
			level := cell.Level
			if at, ok := m.eaten[c]; ok && at < f.Eaten {
				level = 0
			}
			if level >= 0 && level < len(levelStyles) {
				sb.WriteString(levelStyles[level].Render(cellGlyph))
			} else {
				sb.WriteString(cellGlyph)
			}
		}
		sb.WriteString("\n")
	}

	state := "playing"
	if m.paused {
		state = "paused"
	}
	sb.WriteString("\n")
	sb.WriteString(MutedStyle.Render(fmt.Sprintf("frame %d/%d  %s  %v per frame", m.frame+1, m.frames, state, m.duration)))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}
