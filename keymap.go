package panelkit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keymap names the key patterns (riffkey syntax) the binding helpers
// wire up. Hosts that run their own input loop can ignore it entirely
// and drive Router/Controller directly.
type Keymap struct {
	Next     string `yaml:"next"`
	Prev     string `yaml:"prev"`
	Activate string `yaml:"activate"`
	Exit     string `yaml:"exit"`

	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`

	Toggle     string `yaml:"toggle"`
	ScrollUp   string `yaml:"scroll_up"`
	ScrollDown string `yaml:"scroll_down"`
}

// DefaultKeymap is the stock binding set.
var DefaultKeymap = Keymap{
	Next:       "<Tab>",
	Prev:       "<S-Tab>",
	Activate:   "<CR>",
	Exit:       "<Esc>",
	Up:         "<Up>",
	Down:       "<Down>",
	Left:       "<Left>",
	Right:      "<Right>",
	Toggle:     "<Space>",
	ScrollUp:   "<C-u>",
	ScrollDown: "<C-d>",
}

// LoadKeymap reads YAML keymap overrides from path, applied over base.
func LoadKeymap(path string, base Keymap) (Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read keymap: %w", err)
	}
	return ParseKeymap(data, base)
}

// ParseKeymap applies YAML keymap overrides to base. Absent entries
// keep the base binding.
func ParseKeymap(data []byte, base Keymap) (Keymap, error) {
	km := base
	if err := yaml.Unmarshal(data, &km); err != nil {
		return base, fmt.Errorf("parse keymap: %w", err)
	}
	return km, nil
}

// BindPanel wires the traversal keys onto the panel buffer: they fire
// while the panel window itself has focus, between field activations.
func BindPanel(host Host, p *Panel, km Keymap) {
	buf := p.Buffer()
	host.Bind(buf, km.Next, p.Router().Next)
	host.Bind(buf, km.Prev, p.Router().Prev)
}

// BindInput wires editing and exit keys onto a text input's sub-window
// buffer. The buffer is fresh on every activation, so call this from
// the controller's OnActivate hook; character insertion itself comes
// from the host's input loop.
func BindInput(host Host, p *Panel, km Keymap, w *InputW) {
	buf := w.window().Buffer()
	host.Bind(buf, km.Next, p.Router().Next)
	host.Bind(buf, km.Prev, p.Router().Prev)
	host.Bind(buf, km.Left, func() {
		if w.AtLeftEdge() {
			p.Router().ExitFrom(w, DirLeft)
			return
		}
		w.CursorLeft()
	})
	host.Bind(buf, km.Right, func() {
		if w.AtRightEdge() {
			p.Router().ExitFrom(w, DirRight)
			return
		}
		w.CursorRight()
	})
	host.Bind(buf, km.Up, func() {
		if !p.Router().Move(DirUp) {
			p.Router().ExitFrom(w, DirUp)
		}
	})
	host.Bind(buf, km.Down, func() {
		if !p.Router().Move(DirDown) {
			p.Router().ExitFrom(w, DirDown)
		}
	})
	host.Bind(buf, "<BS>", w.Backspace)
	host.Bind(buf, km.Exit, p.Controller().Deactivate)
}

// BindSelect wires overlay keys onto a single-select's sub-window
// buffer.
func BindSelect(host Host, p *Panel, km Keymap, w *SelectW) {
	buf := w.window().Buffer()
	host.Bind(buf, km.Next, p.Router().Next)
	host.Bind(buf, km.Prev, p.Router().Prev)
	host.Bind(buf, km.Activate, func() {
		if w.overlayVisible() {
			w.Confirm()
			return
		}
		w.OpenOptions()
	})
	host.Bind(buf, km.Up, func() {
		if w.overlayVisible() {
			w.MoveSelection(-1)
			return
		}
		p.Router().Move(DirUp)
	})
	host.Bind(buf, km.Down, func() {
		if w.overlayVisible() {
			w.MoveSelection(1)
			return
		}
		p.Router().Move(DirDown)
	})
	host.Bind(buf, km.Exit, func() {
		if w.overlayVisible() {
			w.Cancel()
			return
		}
		p.Controller().Deactivate()
	})
}

// BindMultiSelect wires overlay and toggle keys onto a multi-select's
// sub-window buffer.
func BindMultiSelect(host Host, p *Panel, km Keymap, w *MultiSelectW) {
	buf := w.window().Buffer()
	host.Bind(buf, km.Next, p.Router().Next)
	host.Bind(buf, km.Prev, p.Router().Prev)
	host.Bind(buf, km.Activate, func() {
		if w.overlayVisible() {
			w.Confirm()
			return
		}
		w.OpenOptions()
	})
	host.Bind(buf, km.Toggle, func() {
		if w.overlayVisible() {
			w.Toggle()
		}
	})
	host.Bind(buf, km.Up, func() {
		if w.overlayVisible() {
			w.MoveSelection(-1)
			return
		}
		p.Router().Move(DirUp)
	})
	host.Bind(buf, km.Down, func() {
		if w.overlayVisible() {
			w.MoveSelection(1)
			return
		}
		p.Router().Move(DirDown)
	})
	host.Bind(buf, km.Exit, func() {
		if w.overlayVisible() {
			w.Cancel()
			return
		}
		p.Controller().Deactivate()
	})
}

// BindSubPanel wires scrolling keys onto a sub-panel's display buffer.
func BindSubPanel(host Host, p *Panel, km Keymap, w *SubPanelW) {
	buf := w.displayWindow().Buffer()
	host.Bind(buf, km.Next, p.Router().Next)
	host.Bind(buf, km.Prev, p.Router().Prev)
	host.Bind(buf, km.Up, func() { w.ScrollBy(-1) })
	host.Bind(buf, km.Down, func() { w.ScrollBy(1) })
	host.Bind(buf, km.ScrollUp, func() { w.ScrollBy(-w.innerHeight() / 2) })
	host.Bind(buf, km.ScrollDown, func() { w.ScrollBy(w.innerHeight() / 2) })
	host.Bind(buf, km.Exit, p.Controller().Deactivate)
}
