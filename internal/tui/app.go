// Package tui is the interactive consumer of the detection engine: a home
// page with host and baseline info, a live scanning page fed by the engine's
// progress channel, and a results page with the classified threat list.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cheng-ren/SecuScope/internal/baseline"
	"github.com/cheng-ren/SecuScope/internal/detector"
	"github.com/cheng-ren/SecuScope/internal/probe"
	"github.com/cheng-ren/SecuScope/internal/scan"
	"github.com/cheng-ren/SecuScope/pkg/types"
)

// ── Page enum ──

type page int

const (
	pageHome page = iota
	pageScanning
	pageResults
)

// ── Custom messages ──

type tickMsg time.Time

type progressMsg scan.Progress

type scanDoneMsg struct {
	result *types.DetectionResult
	err    string
}

type exportDoneMsg string

// ── Main App Model ──

type AppModel struct {
	page   page
	width  int
	height int

	home     HomeModel
	scanning ScanningModel
	results  ResultsModel

	store        *baseline.Store
	config       scan.Config
	engine       *scan.Engine
	progressChan chan scan.Progress

	lastResult *types.DetectionResult
	quitting   bool
}

func NewAppModel(store *baseline.Store, cfg scan.Config) AppModel {
	home := NewHomeModel()
	hostInfo := scan.GetHostInfo()
	home.hostName = hostInfo.Hostname
	home.osVersion = fmt.Sprintf("%s/%s", hostInfo.OS, hostInfo.Arch)
	home.ipAddresses = hostInfo.IPAddresses
	home.baselineLoaded = store.IsLoaded()
	home.baselineVersion = store.Version()
	home.baselineSource = store.Source()
	if bundle := store.GetBundle(); bundle != nil {
		home.probeCount = len(probe.NewCatalog(bundle.CatalogOptions()))
	}

	return AppModel{
		page:     pageHome,
		home:     home,
		scanning: NewScanningModel(),
		results:  NewResultsModel(),
		store:    store,
		config:   cfg,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenProgress creates a command that reads from the progress channel.
func listenProgress(ch chan scan.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

// beginScan wires a fresh engine with a fresh progress channel and switches
// to the scanning page.
func (m *AppModel) beginScan() []tea.Cmd {
	bundle := m.store.GetBundle()
	if bundle == nil {
		m.home.errorMsg = "baseline not loaded"
		return nil
	}
	catalog := probe.NewCatalog(bundle.CatalogOptions())
	m.progressChan = make(chan scan.Progress, 16)
	m.engine = scan.NewWithChannel(m.config, catalog, m.progressChan)

	m.page = pageScanning
	m.scanning = NewScanningModel()
	m.scanning.width = m.width - 4
	m.scanning.height = m.height - 2
	m.scanning.total = len(catalog)

	return []tea.Cmd{m.startScan(), listenProgress(m.progressChan)}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cw := m.width - 4  // frame border (2) + padding (2)
		ch := m.height - 2 // frame border (2)
		m.home.width = cw
		m.home.height = ch
		m.scanning.width = cw
		m.scanning.height = ch
		m.results.width = cw
		m.results.height = ch

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.page == pageHome {
				if !m.store.IsLoaded() {
					m.home.errorMsg = "baseline not loaded; place baseline.json next to the binary"
					break
				}
				cmds = append(cmds, m.beginScan()...)
			}

		case "r":
			if m.page == pageResults {
				cmds = append(cmds, m.beginScan()...)
			}

		case "e":
			if m.page == pageResults && m.lastResult != nil {
				cmds = append(cmds, m.exportJSON())
			}
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())

	case progressMsg:
		p := scan.Progress(msg)
		if !p.Done {
			cmds = append(cmds, listenProgress(m.progressChan))
		}

	case scanDoneMsg:
		m.lastResult = msg.result
		m.results = NewResultsModel()
		m.results.result = msg.result
		m.results.errMsg = msg.err
		if msg.result != nil {
			m.results.threats = detector.Classify(msg.result.Outcomes, msg.result.StartedAt)
			m.results.score = detector.DefaultScoringPolicy().Score(m.results.threats)
			m.results.recommendations = detector.Recommendations(m.results.threats)
			m.results.duration = time.Duration(msg.result.DurationMs) * time.Millisecond
		}
		m.results.width = m.width - 4
		m.results.height = m.height - 2
		m.page = pageResults
	}

	// Forward to active page
	switch m.page {
	case pageHome:
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case pageScanning:
		var cmd tea.Cmd
		m.scanning, cmd = m.scanning.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case pageResults:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m AppModel) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	var content string
	switch m.page {
	case pageHome:
		content = m.home.View()
	case pageScanning:
		content = m.scanning.View()
	case pageResults:
		content = m.results.View()
	}

	w := m.width
	h := m.height
	if w < 40 {
		w = 80
	}
	if h < 10 {
		h = 20
	}

	// Content area: inside border(2 cols) + horizontal padding(2 cols)
	cw := w - 4
	ch := h - 2

	// Hard-crop content to exact frame dimensions — no lipgloss wrapping
	srcLines := strings.Split(content, "\n")
	capStyle := lipgloss.NewStyle().MaxWidth(cw)
	cropped := make([]string, ch)
	for i := 0; i < ch; i++ {
		if i < len(srcLines) {
			cropped[i] = capStyle.Render(srcLines[i])
		}
		// Right-pad to exact content width so every row is identical width
		if vis := lipgloss.Width(cropped[i]); vis < cw {
			cropped[i] += strings.Repeat(" ", cw-vis)
		}
	}

	// Build frame manually — guarantees exactly h lines × w visual chars
	borderFg := lipgloss.NewStyle().Foreground(ColorBorder)
	hBar := strings.Repeat("─", w-2)
	vBar := borderFg.Render("│")

	out := make([]string, 0, h)
	out = append(out, borderFg.Render("╭"+hBar+"╮"))
	for _, line := range cropped {
		out = append(out, vBar+" "+line+" "+vBar)
	}
	out = append(out, borderFg.Render("╰"+hBar+"╯"))

	return strings.Join(out, "\n")
}

// startScan runs the detection in a goroutine and sends a scanDoneMsg when
// complete.
func (m AppModel) startScan() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		result, err := engine.RunFullDetection(context.Background())
		if err != nil {
			return scanDoneMsg{result: nil, err: err.Error()}
		}
		return scanDoneMsg{result: result}
	}
}

// exportJSON exports the last detection result to a JSON file.
func (m AppModel) exportJSON() tea.Cmd {
	result := m.lastResult
	threats := m.results.threats
	score := m.results.score
	recs := m.results.recommendations
	return func() tea.Msg {
		if result == nil {
			return exportDoneMsg("No result to export")
		}
		doc := struct {
			Result          *types.DetectionResult `json:"result"`
			Threats         []types.Threat         `json:"threats"`
			Score           int                    `json:"score"`
			Recommendations []string               `json:"recommendations"`
		}{result, threats, score, recs}

		filename := fmt.Sprintf("secuscope_%s.json", time.Now().Format("2006-01-02_150405"))
		savePath := filename
		if home, err := os.UserHomeDir(); err == nil {
			savePath = filepath.Join(home, filename)
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return exportDoneMsg(fmt.Sprintf("Error: %v", err))
		}
		if err := os.WriteFile(savePath, data, 0o644); err != nil {
			return exportDoneMsg(fmt.Sprintf("Error: %v", err))
		}
		return exportDoneMsg(savePath)
	}
}

// Run starts the Bubble Tea program.
func Run(store *baseline.Store, cfg scan.Config) error {
	model := NewAppModel(store, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ── Title Banner ──

func TitleBanner() string {
	banner := `
 ███████╗███████╗ ██████╗██╗   ██╗███████╗ ██████╗ ██████╗ ██████╗ ███████╗
 ██╔════╝██╔════╝██╔════╝██║   ██║██╔════╝██╔════╝██╔═══██╗██╔══██╗██╔════╝
 ███████╗█████╗  ██║     ██║   ██║███████╗██║     ██║   ██║██████╔╝█████╗
 ╚════██║██╔══╝  ██║     ██║   ██║╚════██║██║     ██║   ██║██╔═══╝ ██╔══╝
 ███████║███████╗╚██████╗╚██████╔╝███████║╚██████╗╚██████╔╝██║     ███████╗
 ╚══════╝╚══════╝ ╚═════╝ ╚═════╝ ╚══════╝ ╚═════╝ ╚═════╝ ╚═╝     ╚══════╝`
	return lipgloss.NewStyle().Foreground(ColorAccent).Render(banner)
}
