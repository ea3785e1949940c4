package panelkit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TeaHost embeds the engine in a Bubble Tea program. The in-memory
// window model does the bookkeeping; Update translates key messages
// into buffer-scoped bindings and View renders the composite grid
// through lipgloss.
type TeaHost struct {
	*MemHost

	keys teaKeyMap
	// textSink receives printable keys nothing else claimed, typically
	// feeding the materialized input's Insert.
	textSink func(string) bool
	onQuit   func()
}

type teaKeyMap struct {
	Quit key.Binding
}

// NewTeaHost creates a host with the given initial dimensions. Bubble
// Tea reports the real size on the first WindowSizeMsg.
func NewTeaHost(width, height int) *TeaHost {
	return &TeaHost{
		MemHost: NewMemHost(width, height),
		keys: teaKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c", "q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// OnText registers the sink for printable keys no binding claimed.
func (h *TeaHost) OnText(fn func(string) bool) {
	h.textSink = fn
}

// OnQuit registers a callback fired before the program quits.
func (h *TeaHost) OnQuit(fn func()) {
	h.onQuit = fn
}

// QuitKeys overrides the quit binding.
func (h *TeaHost) QuitKeys(keys ...string) {
	h.keys.Quit = key.NewBinding(key.WithKeys(keys...))
}

// Model returns the tea.Model driving this host.
func (h *TeaHost) Model() tea.Model {
	return teaModel{host: h}
}

type teaModel struct {
	host *TeaHost
}

func (m teaModel) Init() tea.Cmd {
	return tea.ClearScreen
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	h := m.host
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, h.keys.Quit) {
			if h.onQuit != nil {
				h.onQuit()
			}
			return m, tea.Quit
		}
		if pattern, ok := teaKeyPattern(msg); ok && h.Press(pattern) {
			return m, nil
		}
		if msg.Type == tea.KeyRunes && !msg.Alt && h.textSink != nil {
			h.textSink(string(msg.Runes))
			h.Tick()
		}

	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m teaModel) View() string {
	return renderLipgloss(m.host.Render())
}

// teaKeyPattern maps a Bubble Tea key message onto the riffkey-style
// pattern names the binding helpers use.
func teaKeyPattern(msg tea.KeyMsg) (string, bool) {
	switch msg.String() {
	case "tab":
		return "<Tab>", true
	case "shift+tab":
		return "<S-Tab>", true
	case "enter":
		return "<CR>", true
	case "esc":
		return "<Esc>", true
	case "up":
		return "<Up>", true
	case "down":
		return "<Down>", true
	case "left":
		return "<Left>", true
	case "right":
		return "<Right>", true
	case "backspace":
		return "<BS>", true
	case " ":
		return "<Space>", true
	case "ctrl+u":
		return "<C-u>", true
	case "ctrl+d":
		return "<C-d>", true
	}
	return "", false
}

// renderLipgloss converts a composite cell grid into a styled string,
// batching runs of identically styled cells per row.
func renderLipgloss(buf *Buffer) string {
	var out strings.Builder
	for y := 0; y < buf.Height(); y++ {
		var run strings.Builder
		var runStyle Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(lipglossStyle(runStyle).Render(run.String()))
			run.Reset()
		}
		started := false
		for x := 0; x < buf.Width(); x++ {
			c := buf.Get(x, y)
			if c.Rune == 0 {
				continue // placeholder half of a wide rune
			}
			if !started || !c.Style.Equal(runStyle) {
				flush()
				runStyle = c.Style
				started = true
			}
			run.WriteRune(c.Rune)
		}
		flush()
		if y < buf.Height()-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func lipglossStyle(s Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := lipglossColor(s.FG); ok {
		st = st.Foreground(c)
	}
	if c, ok := lipglossColor(s.BG); ok {
		st = st.Background(c)
	}
	if s.Attr.Has(AttrBold) {
		st = st.Bold(true)
	}
	if s.Attr.Has(AttrDim) {
		st = st.Faint(true)
	}
	if s.Attr.Has(AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attr.Has(AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attr.Has(AttrInverse) {
		st = st.Reverse(true)
	}
	if s.Attr.Has(AttrStrikethrough) {
		st = st.Strikethrough(true)
	}
	return st
}

func lipglossColor(c Color) (lipgloss.TerminalColor, bool) {
	switch c.Mode {
	case Color16, Color256:
		return lipgloss.Color(fmt.Sprintf("%d", c.Index)), true
	case ColorRGB:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)), true
	}
	return nil, false
}
