package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kungfusheep/riffkey"
	"github.com/mattn/go-isatty"

	"panelkit"
)

// scrolldemo puts a tall form behind a short viewport: scrolling the
// panel clips widgets at the edges, hides bordered ones whole, and
// drags the materialized field's window along with its region.
func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "scrolldemo requires a terminal")
		os.Exit(1)
	}

	host, err := panelkit.NewTermHost()
	if err != nil {
		log.Fatal(err)
	}

	ctrl := panelkit.NewController(host)
	size := host.Screen().Size()

	panel, err := panelkit.NewPanel(ctrl, panelkit.PanelConfig{
		Rect:     panelkit.Rect{Row: 2, Col: 4, Width: 60, Height: min(16, size.Height-4)},
		Bordered: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	body := panelkit.NewContent().Styled("title", "Long Form").Blank()
	for i := 1; i <= 12; i++ {
		body.Line(fmt.Sprintf("  Field %02d:", i)).Blank()
	}
	body.Line("  Log:").
		Blank().Blank().Blank().Blank().Blank().Blank().Blank().Blank().
		Styled("hint", "j/k scroll the panel · Tab cycles fields · Ctrl-C quits")
	panel.SetContent(body)

	for i := 1; i <= 12; i++ {
		in := panelkit.Input(fmt.Sprintf("field%02d", i),
			panelkit.Rect{Row: 1 + 2*i, Col: 14, Width: 30}).
			Placeholder(fmt.Sprintf("value %d", i))
		if err := panel.AddWidget(in); err != nil {
			log.Fatal(err)
		}
	}

	logPane := panelkit.SubPanel("log", panelkit.Rect{Row: 27, Col: 14, Width: 40, Height: 8}).
		Bordered(panelkit.BorderSingle)
	logBody := panelkit.NewContent()
	for i := 1; i <= 40; i++ {
		logBody.Line(fmt.Sprintf("%3d | window resize handled", i))
	}
	logPane.WithContent(logBody)
	if err := panel.AddWidget(logPane); err != nil {
		log.Fatal(err)
	}

	km := panelkit.DefaultKeymap
	panelkit.BindPanel(host, panel, km)
	ctrl.OnActivate(func(w panelkit.Widget) {
		switch w := w.(type) {
		case *panelkit.InputW:
			panelkit.BindInput(host, panel, km, w)
		case *panelkit.SubPanelW:
			panelkit.BindSubPanel(host, panel, km, w)
		}
	})

	host.HandleUnmatched(func(k riffkey.Key) bool {
		in, ok := ctrl.Current().(*panelkit.InputW)
		if !ok {
			return false
		}
		value, cursor := in.TextBinding()
		h := riffkey.NewTextHandler(value, cursor)
		h.OnChange = func(string) { in.Refresh() }
		return h.HandleKey(k)
	})

	// panel-level scrolling while no field is focused
	win := panel.Window()
	host.Bind(panel.Buffer(), "j", func() { win.SetTopLine(win.TopLine() + 1) })
	host.Bind(panel.Buffer(), "k", func() { win.SetTopLine(win.TopLine() - 1) })
	host.Router().Handle("<C-c>", func(_ riffkey.Match) {
		host.Stop()
	})

	if err := host.Run(); err != nil {
		log.Fatal(err)
	}
}
