package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/experiment"
)

const (
	stateMenu = iota
	stateConfig
	stateLive
)

type presetEntry struct {
	controller, preset string
}

func (p presetEntry) String() string { return p.controller + "/" + p.preset }

// picker lets the user choose a preset and profile, then hands over to the
// live view.
type picker struct {
	registry *experiment.Registry
	state    int
	cursor   int
	entries  []presetEntry
	profiles []string

	cfg     *config.Config
	profile int
	err     error

	live Model
}

func newPicker(reg *experiment.Registry) picker {
	p := picker{registry: reg, profiles: config.ListProfiles()}
	for _, ctrl := range reg.ListControllers() {
		for _, preset := range config.ListPresets(ctrl) {
			p.entries = append(p.entries, presetEntry{ctrl, preset})
		}
	}
	return p
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if p.state == stateConfig {
		return p.configKey(key)
	}
	return p.menuKey(key)
}

func (p picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		p.cursor = max(p.cursor-1, 0)
	case "down", "j":
		p.cursor = min(p.cursor+1, len(p.entries)-1)
	case "enter", " ":
		if len(p.entries) == 0 {
			return p, nil
		}
		e := p.entries[p.cursor]
		p.cfg = config.GetPreset(e.controller, e.preset)
		p.profile = 0
		for i, name := range p.profiles {
			if name == p.cfg.Profile {
				p.profile = i
			}
		}
		p.state, p.err = stateConfig, nil
	}
	return p, nil
}

func (p picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		p.state = stateMenu
	case "left", "h":
		p.profile = (p.profile + len(p.profiles) - 1) % len(p.profiles)
	case "right", "l":
		p.profile = (p.profile + 1) % len(p.profiles)
	case "r":
		p.cfg.Reverse = !p.cfg.Reverse
	case "w":
		p.cfg.SwapDirection = !p.cfg.SwapDirection
	case "enter", "s":
		p.cfg.Profile = p.profiles[p.profile]
		exp, err := experiment.New(p.registry, p.cfg)
		if err != nil {
			p.err = err
			return p, nil
		}
		live, err := NewModel(exp, p.entries[p.cursor].String())
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.state = live, stateLive
		return p, live.Init()
	}
	return p, nil
}

func (p picker) View() string {
	switch p.state {
	case stateConfig:
		return p.viewConfig()
	case stateLive:
		return p.live.View()
	}
	return p.viewMenu()
}

func (p picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n  " + TitleStyle.Render("SERVOM8") + "\n  " + KeyHint.Render("servo control bench") + "\n  " + Separator(24) + "\n\n")
	for i, e := range p.entries {
		desc := p.registry.Describe(e.controller)
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("  %s  %s\n", SelectedStyle.Render(fmt.Sprintf("▸ %-18s", e)), desc))
		} else {
			b.WriteString(fmt.Sprintf("  %s  %s\n", KeyHint.Render(fmt.Sprintf("  %-18s", e)), KeyHint.Render(desc)))
		}
	}
	b.WriteString("\n  " + KeyHint.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

func (p picker) viewConfig() string {
	var b strings.Builder
	e := p.entries[p.cursor]
	b.WriteString("\n  " + TitleStyle.Render(strings.ToUpper(e.String())) + "\n  " + Separator(24) + "\n\n")

	profile := p.profiles[p.profile]
	desc := ""
	if pr, ok := config.GetProfile(profile); ok {
		desc = pr.Description
	}
	b.WriteString("  " + LabelStyle.Render("profile") + SelectedStyle.Render("◂ "+profile+" ▸") + "  " + KeyHint.Render(desc) + "\n")
	b.WriteString("  " + LabelStyle.Render("reverse") + ValueStyle.Render(fmt.Sprintf("%v", p.cfg.Reverse)) + "\n")
	b.WriteString("  " + LabelStyle.Render("swap leads") + ValueStyle.Render(fmt.Sprintf("%v", p.cfg.SwapDirection)) + "\n")
	b.WriteString("  " + LabelStyle.Render("start") + ValueStyle.Render(fmt.Sprintf("%.0f", p.cfg.Start)) + "\n")

	if p.err != nil {
		b.WriteString("\n  " + StatusFault.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n  " + KeyHint.Render("h/l profile  r reverse  w swap  enter start  esc back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive(reg *experiment.Registry) error {
	_, err := tea.NewProgram(newPicker(reg), tea.WithAltScreen()).Run()
	return err
}
