package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/songsen/servoM8/internal/experiment"
)

func TestPickerStartsLiveView(t *testing.T) {
	var m tea.Model = newPicker(experiment.NewRegistry())
	if !strings.Contains(m.View(), "hold/idle") {
		t.Fatalf("menu missing presets:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p := m.(picker)
	if p.state != stateConfig {
		t.Fatalf("state = %d, want config", p.state)
	}
	if p.profiles[p.profile] != p.cfg.Profile {
		t.Errorf("profile cursor on %s, preset uses %s", p.profiles[p.profile], p.cfg.Profile)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !m.(picker).cfg.Reverse {
		t.Error("r should toggle reverse")
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = m.(picker)
	if p.err != nil {
		t.Fatalf("start failed: %v", p.err)
	}
	if p.state != stateLive || cmd == nil {
		t.Fatalf("expected live view with a tick, state=%d", p.state)
	}
	if !p.live.reversed() {
		t.Error("live view should inherit the reverse sense")
	}
}

func TestPickerNavigationBounds(t *testing.T) {
	var m tea.Model = newPicker(experiment.NewRegistry())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.(picker).cursor != 0 {
		t.Error("cursor moved above the first entry")
	}
	n := len(m.(picker).entries)
	for i := 0; i < n+5; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.(picker).cursor != n-1 {
		t.Errorf("cursor = %d, want %d", m.(picker).cursor, n-1)
	}
}
