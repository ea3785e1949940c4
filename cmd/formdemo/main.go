package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kungfusheep/riffkey"
	"github.com/mattn/go-isatty"

	"panelkit"
)

// formdemo shows a settings form: text inputs, selects and a preview
// sub-panel rendered as virtual text in one panel, with one field at a
// time materialized for editing.
func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "formdemo requires a terminal")
		os.Exit(1)
	}

	host, err := panelkit.NewTermHost()
	if err != nil {
		log.Fatal(err)
	}

	ctrl := panelkit.NewController(host)
	size := host.Screen().Size()

	panel, err := panelkit.NewPanel(ctrl, panelkit.PanelConfig{
		Rect:     panelkit.Rect{Row: 1, Col: 2, Width: size.Width - 4, Height: size.Height - 2},
		Bordered: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	panel.SetContent(panelkit.NewContent().
		Styled("title", "Project Settings").
		Blank().
		Line("  Name:").
		Blank().
		Line("  Plan:").
		Blank().
		Line("  Features:").
		Blank().
		Line("  Preview:").
		Blank().Blank().Blank().Blank().Blank().Blank().
		Styled("hint", "Tab/S-Tab move · Enter opens lists · Esc leaves a field · Ctrl-C quits"))

	name := panelkit.Input("name", panelkit.Rect{Row: 2, Col: 10, Width: 32}).
		Placeholder("project name")
	plan := panelkit.Select("plan", panelkit.Rect{Row: 4, Col: 10, Width: 24},
		panelkit.Option{ID: "free", Label: "Free"},
		panelkit.Option{ID: "pro", Label: "Pro"},
		panelkit.Option{ID: "enterprise", Label: "Enterprise"},
	)
	features := panelkit.MultiSelect("features", panelkit.Rect{Row: 6, Col: 10, Width: 24},
		panelkit.Option{ID: "ci", Label: "CI pipelines"},
		panelkit.Option{ID: "pages", Label: "Static pages"},
		panelkit.Option{ID: "alerts", Label: "Alerting"},
	).Display(panelkit.CountSummary)
	preview := panelkit.SubPanel("preview", panelkit.Rect{Row: 8, Col: 10, Width: 40, Height: 6}).
		Bordered(panelkit.BorderSingle)

	for _, w := range []panelkit.Widget{name, plan, features, preview} {
		if err := panel.AddWidget(w); err != nil {
			log.Fatal(err)
		}
	}

	refreshPreview := func() {
		c := panelkit.NewContent().
			Line("name:     " + asText(name.Value())).
			Line("plan:     " + asText(plan.Value())).
			Line(fmt.Sprintf("features: %v", features.Value()))
		preview.SetContent(c)
	}
	refreshPreview()

	km := panelkit.DefaultKeymap
	panelkit.BindPanel(host, panel, km)

	ctrl.OnActivate(func(w panelkit.Widget) {
		switch w := w.(type) {
		case *panelkit.InputW:
			panelkit.BindInput(host, panel, km, w)
		case *panelkit.SelectW:
			panelkit.BindSelect(host, panel, km, w)
		case *panelkit.MultiSelectW:
			panelkit.BindMultiSelect(host, panel, km, w)
		case *panelkit.SubPanelW:
			panelkit.BindSubPanel(host, panel, km, w)
		}
	})

	// printable keys feed the materialized text input
	host.HandleUnmatched(func(k riffkey.Key) bool {
		in, ok := ctrl.Current().(*panelkit.InputW)
		if !ok {
			return false
		}
		value, cursor := in.TextBinding()
		h := riffkey.NewTextHandler(value, cursor)
		h.OnChange = func(string) { in.Refresh(); refreshPreview() }
		return h.HandleKey(k)
	})

	host.Router().Handle("<C-c>", func(_ riffkey.Match) {
		host.Stop()
	})

	panel.Router().Next() // start on the first field

	if err := host.Run(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("name=%q plan=%q features=%v\n",
		asText(name.Value()), asText(plan.Value()), features.Value())
}

func asText(v panelkit.Value) string {
	switch v := v.(type) {
	case panelkit.Text:
		return string(v)
	case panelkit.Choice:
		return string(v)
	}
	return ""
}
