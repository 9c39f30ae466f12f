package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheng-ren/SecuScope/internal/scan"
)

// probeRow is one completed probe shown on the scanning page.
type probeRow struct {
	name     string
	detail   string
	detected bool
}

// ScanningModel represents the detection-in-progress screen.
type ScanningModel struct {
	width, height int

	progress  scan.Progress
	total     int
	startTime time.Time
	completed []probeRow
	flagged   int
	done      bool

	spinnerFrame int
	tickCount    int

	progressBar progress.Model
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func NewScanningModel() ScanningModel {
	prog := progress.New(
		progress.WithGradient(string(ColorAccentDim), string(ColorAccent)),
		progress.WithoutPercentage(),
	)
	return ScanningModel{
		startTime:   time.Now(),
		progressBar: prog,
		progress: scan.Progress{
			StepName: "Initializing...",
		},
	}
}

func (m ScanningModel) Init() tea.Cmd {
	return nil
}

func (m ScanningModel) Update(msg tea.Msg) (ScanningModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.tickCount++
		if m.tickCount%2 == 0 {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		}

	case progressMsg:
		p := scan.Progress(msg)
		m.progress = p
		if p.Done {
			m.done = true
		} else {
			m.completed = append(m.completed, probeRow{
				name:     strings.TrimPrefix(p.StepName, "Probe "),
				detail:   p.Detail,
				detected: p.Detected,
			})
			if p.Detected {
				m.flagged++
			}
		}
	}

	// Forward to progress bar for animation
	var cmd tea.Cmd
	var progModel tea.Model
	progModel, cmd = m.progressBar.Update(msg)
	m.progressBar = progModel.(progress.Model)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View builds a fixed-height output that never exceeds m.height lines.
func (m ScanningModel) View() string {
	w := m.width
	if w < 40 {
		w = 80
	}
	h := m.height
	if h < 14 {
		h = 20
	}

	lines := make([]string, 0, h)

	// Header: title left, elapsed right
	elapsed := formatDuration(time.Since(m.startTime))
	left := TitleStyle.Render("  PROBING HOST  " + spinnerFrames[m.spinnerFrame])
	right := HintStyle.Render("Elapsed: " + elapsed + "  ")
	spacerW := w - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerW < 1 {
		spacerW = 1
	}
	lines = append(lines, left+strings.Repeat(" ", spacerW)+right)
	lines = append(lines, SeparatorStyle.Render(strings.Repeat("─", w)))
	lines = append(lines, "")

	// Progress
	stepInfo := fmt.Sprintf("  Probe %d/%d: %s", m.progress.Step, m.progress.Total, m.progress.StepName)
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorText).Render(stepInfo))

	barWidth := w - 16
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 60 {
		barWidth = 60
	}
	m.progressBar.Width = barWidth
	pct := float64(m.progress.Percent) / 100.0
	if pct > 1 {
		pct = 1
	}
	lines = append(lines, "  "+m.progressBar.ViewAs(pct)+fmt.Sprintf("  %d%%", m.progress.Percent))
	lines = append(lines, "")

	// Completed probe rows, newest last, cropped to remaining height
	rowsAvail := h - len(lines) - 2
	rows := m.completed
	if rowsAvail > 0 && len(rows) > rowsAvail {
		rows = rows[len(rows)-rowsAvail:]
	}
	for _, row := range rows {
		marker := PassStyle.Render("✓")
		if row.detected {
			marker = FlagStyle.Render("✗")
		}
		text := fmt.Sprintf(" %-18s %s", row.name, Truncate(row.detail, w-26))
		lines = append(lines, "  "+marker+ProbeStyle.Render(text))
	}
	lines = append(lines, "")

	// Footer: flagged count
	if m.flagged > 0 {
		lines = append(lines, AlertStyle.Render(fmt.Sprintf("  ! %d probe(s) flagged", m.flagged)))
	} else {
		lines = append(lines, HintStyle.Render("  no findings yet"))
	}

	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
