package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// ResultsModel represents the detection results screen.
type ResultsModel struct {
	width, height int

	result          *types.DetectionResult
	threats         []types.Threat
	score           int
	recommendations []string
	duration        time.Duration
	errMsg          string

	// selection & scrolling over the threat list
	selected int
	listTop  int

	// filtering
	filter types.Severity // "" for all

	exportPath string

	scoreProg progress.Model
}

// Fixed layout: header block above the list, detail panel below.
const (
	resultHeaderLines = 7
	resultDetailLines = 5
)

func NewResultsModel() ResultsModel {
	sp := progress.New(
		progress.WithScaledGradient(string(ColorError), string(ColorSuccess)),
		progress.WithoutPercentage(),
	)
	sp.Width = 24
	return ResultsModel{scoreProg: sp}
}

func (m ResultsModel) Init() tea.Cmd {
	return nil
}

func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		filtered := m.filteredThreats()
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.ensureVisible()
			}
		case "down", "j":
			if m.selected < len(filtered)-1 {
				m.selected++
				m.ensureVisible()
			}
		case "1":
			m.setFilter(types.SeverityCritical)
		case "2":
			m.setFilter(types.SeverityHigh)
		case "3":
			m.setFilter(types.SeverityMedium)
		case "4":
			m.setFilter(types.SeverityLow)
		case "a":
			m.setFilter("")
		}

	case exportDoneMsg:
		m.exportPath = string(msg)
	}

	return m, nil
}

func (m *ResultsModel) setFilter(f types.Severity) {
	m.filter = f
	m.selected = 0
	m.listTop = 0
}

func (m *ResultsModel) listHeight() int {
	lh := m.height - resultHeaderLines - resultDetailLines
	if lh < 1 {
		lh = 1
	}
	return lh
}

func (m *ResultsModel) ensureVisible() {
	lh := m.listHeight()
	if m.selected < m.listTop {
		m.listTop = m.selected
	} else if m.selected >= m.listTop+lh {
		m.listTop = m.selected - lh + 1
	}
}

func (m ResultsModel) filteredThreats() []types.Threat {
	if m.filter == "" {
		return m.threats
	}
	var filtered []types.Threat
	for _, t := range m.threats {
		if t.Severity == m.filter {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func (m ResultsModel) View() string {
	w := m.width
	if w < 40 {
		w = 80
	}

	var b strings.Builder

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, AlertStyle.Render("Detection failed: "+m.errMsg)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, HintStyle.Render("R to retry  •  Q to quit")))
		return b.String()
	}
	if m.result == nil {
		return HintStyle.Render("\n  No result.")
	}

	// Header: verdict + score bar
	verdict := PassStyle.Render("  NOT COMPROMISED")
	if m.result.Compromised {
		verdict = FlagStyle.Render("  COMPROMISED")
	}
	elapsed := HintStyle.Render(fmt.Sprintf("%.1fs  ", m.duration.Seconds()))
	spacerW := w - lipgloss.Width(verdict) - lipgloss.Width(elapsed)
	if spacerW < 1 {
		spacerW = 1
	}
	b.WriteString(verdict + strings.Repeat(" ", spacerW) + elapsed + "\n")
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", w)) + "\n")

	scoreBar := m.scoreProg.ViewAs(float64(m.score) / 100.0)
	b.WriteString(fmt.Sprintf("  Score: %3d/100  %s\n", m.score, scoreBar))

	counts := types.CountThreats(m.threats)
	b.WriteString(fmt.Sprintf("  %s %d  %s %d  %s %d  %s %d   %s\n",
		CriticalStyle.Render("CRIT"), counts.Critical,
		HighStyle.Render("HIGH"), counts.High,
		MediumStyle.Render("MED"), counts.Medium,
		LowStyle.Render("LOW"), counts.Low,
		HintStyle.Render(fmt.Sprintf("probes: %d", len(m.result.Outcomes))),
	))

	filterLabel := "all"
	if m.filter != "" {
		filterLabel = string(m.filter)
	}
	b.WriteString(HintStyle.Render(fmt.Sprintf("  filter: %s  •  1-4/A filter  •  ↑↓ select  •  E export  •  R rescan  •  Q quit", filterLabel)) + "\n")
	if m.exportPath != "" {
		b.WriteString(HintStyle.Render("  exported: "+Truncate(m.exportPath, w-14)) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", w)) + "\n")

	// Threat list
	filtered := m.filteredThreats()
	lh := m.listHeight()
	if len(filtered) == 0 {
		b.WriteString(PassStyle.Render("  No threats classified.") + "\n")
	}
	end := m.listTop + lh
	if end > len(filtered) {
		end = len(filtered)
	}
	for i := m.listTop; i < end; i++ {
		t := filtered[i]
		badge := SeverityStyle(t.Severity).Render(strings.ToUpper(string(t.Severity)))
		line := fmt.Sprintf(" %s %s", badge, Truncate(string(t.Kind), 24))
		if i == m.selected {
			b.WriteString(SelectedStyle.Render("▸") + line + "\n")
		} else {
			b.WriteString(" " + line + "\n")
		}
	}
	b.WriteString("\n")

	// Detail panel for the selected threat
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", w)) + "\n")
	if m.selected < len(filtered) {
		t := filtered[m.selected]
		b.WriteString(ProbeStyle.Render("  "+Truncate(t.Description, w-4)) + "\n")
		b.WriteString(HintStyle.Render(fmt.Sprintf("  kind: %s  severity: %s  at: %s",
			t.Kind, t.Severity, t.Timestamp.Format("15:04:05"))) + "\n")
	} else if len(m.recommendations) > 0 {
		b.WriteString(HintStyle.Render("  "+Truncate(m.recommendations[0], w-4)) + "\n")
	}

	return b.String()
}
