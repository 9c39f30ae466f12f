package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HomeModel represents the home/start screen.
type HomeModel struct {
	width, height int

	hostName        string
	osVersion       string
	ipAddresses     []string
	baselineLoaded  bool
	baselineVersion string
	baselineSource  string
	probeCount      int

	errorMsg string
}

func NewHomeModel() HomeModel {
	return HomeModel{}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	if sized, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sized.Width
		m.height = sized.Height
	}
	return m, nil
}

func (m HomeModel) View() string {
	w := m.width
	if w < 40 {
		w = 60
	}

	var b strings.Builder

	title := TitleStyle.Render("██▓▒░  SECUSCOPE  ░▒▓██")
	subtitle := SubtitleStyle.Render("Device Integrity Engine v1.0.0")
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, title))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, subtitle))
	b.WriteString("\n\n")

	baselineStr := "Not loaded"
	baselineColor := ColorError
	if m.baselineLoaded {
		baselineStr = fmt.Sprintf("%s (%s)", m.baselineVersion, m.baselineSource)
		baselineColor = ColorSuccess
	}

	ip := "N/A"
	if len(m.ipAddresses) > 0 {
		ip = m.ipAddresses[0]
	}

	valueStyle := lipgloss.NewStyle().Foreground(ColorText)
	info := fmt.Sprintf(
		"  Host:     %s\n"+
			"  OS:       %s\n"+
			"  IP:       %s\n"+
			"  Probes:   %s\n"+
			"  Baseline: %s",
		valueStyle.Render(m.hostName),
		valueStyle.Render(m.osVersion),
		valueStyle.Render(ip),
		valueStyle.Render(fmt.Sprintf("%d in catalog", m.probeCount)),
		lipgloss.NewStyle().Foreground(baselineColor).Render(Truncate(baselineStr, 40)),
	)

	infoBox := InfoBoxStyle.Width(60).Render(info)
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, infoBox))
	b.WriteString("\n\n")

	categories := fmt.Sprintf("Checks: %s  %s  %s  %s  %s  %s",
		lipgloss.NewStyle().Foreground(ColorAccent).Render("FS"),
		lipgloss.NewStyle().Foreground(ColorAccent).Render("LOADER"),
		lipgloss.NewStyle().Foreground(ColorAccent).Render("ENV"),
		lipgloss.NewStyle().Foreground(ColorAccent).Render("DEBUG"),
		lipgloss.NewStyle().Foreground(ColorAccent).Render("BINARY"),
		lipgloss.NewStyle().Foreground(ColorAccent).Render("NET"),
	)
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, categories))
	b.WriteString("\n\n")

	btn := ButtonStyle.Render("[ ▶  RUN DETECTION ]")
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, btn))
	b.WriteString("\n\n")

	if m.errorMsg != "" {
		b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, AlertStyle.Render(m.errorMsg)))
		b.WriteString("\n\n")
	}

	hint := HintStyle.Render("Press ENTER to start  •  Q to quit")
	b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, hint))

	return b.String()
}
