package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/scene"
)

var sceneInfo = map[string]string{
	"water":     "spheres in a height-field pool",
	"particles": "emitter playground",
}

type menuItem struct {
	scene, preset string
}

func (i menuItem) label() string {
	if i.preset == "" {
		return i.scene
	}
	return i.scene + "/" + i.preset
}

// Menu picks a scene and preset, then hands over to the live view.
type Menu struct {
	base     config.Config
	registry *scene.Registry
	log      *log.Logger

	items  []menuItem
	cursor int
	live   *Model
	err    error
}

func NewMenu(base config.Config, registry *scene.Registry, logger *log.Logger) *Menu {
	m := &Menu{base: base, registry: registry, log: logger}
	for _, name := range registry.List() {
		m.items = append(m.items, menuItem{scene: name})
		for _, p := range config.ListPresets(name) {
			m.items = append(m.items, menuItem{scene: name, preset: p})
		}
	}
	return m
}

func (m *Menu) Init() tea.Cmd { return nil }

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.start(m.items[m.cursor])
		}
	}
	return m, nil
}

func (m *Menu) start(item menuItem) tea.Cmd {
	cfg := m.base.Clone()
	if item.preset != "" {
		cfg = config.GetPreset(item.scene, item.preset)
	}
	cfg.Scene = item.scene

	live, err := NewModel(*cfg, m.registry, m.log)
	if err != nil {
		m.err = err
		return nil
	}
	m.log.Info("starting", "scene", item.scene, "preset", item.preset)
	m.live = &live
	return m.live.Init()
}

func (m *Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("SPLASHSIM", CurrentTheme.Water, CurrentTheme.Accent) + "\n")
	b.WriteString("    " + Subtle.Render("fluid sandbox") + "\n")
	b.WriteString("    " + Subtle.Render("─────────────────────────") + "\n\n")

	cursor := lipgloss.NewStyle().Foreground(CurrentTheme.Water).Bold(true)
	selected := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(CurrentTheme.Accent)
	muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)

	for i, item := range m.items {
		info := ""
		if item.preset == "" {
			info = sceneInfo[item.scene]
		}
		name := fmt.Sprintf("%-20s", item.label())
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), selected.Render(name), desc.Render(info)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", muted.Render(name), muted.Render(info)))
		}
	}

	if m.err != nil {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

// RunMenu shows the scene picker before the live view.
func RunMenu(base config.Config, registry *scene.Registry, logger *log.Logger) error {
	_, err := tea.NewProgram(NewMenu(base, registry, logger), tea.WithAltScreen()).Run()
	return err
}
