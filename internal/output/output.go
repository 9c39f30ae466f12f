// Package output handles headless CLI output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// Options for the output handler.
type Options struct {
	Quiet bool
	JSON  bool
}

// Handler manages CLI output.
type Handler struct {
	opts Options
}

// New creates a new output handler.
func New(opts Options) *Handler {
	return &Handler{opts: opts}
}

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	passColor     = color.New(color.FgGreen)
	flagColor     = color.New(color.FgRed, color.Bold)
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgYellow, color.Bold)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgGreen)
	dimColor      = color.New(color.Faint)
)

// PrintHeader prints the run header.
func (h *Handler) PrintHeader(version string) {
	if h.opts.Quiet || h.opts.JSON {
		return
	}
	hostname, _ := os.Hostname()
	fmt.Println()
	headerColor.Printf("SecuScope v%s — device integrity check\n", version)
	dimColor.Printf("Host: %s  Time: %s\n\n", hostname, time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
}

// PrintOutcomes prints the per-probe pass/flag lines in catalog order.
func (h *Handler) PrintOutcomes(result *types.DetectionResult) {
	if h.opts.Quiet || h.opts.JSON {
		return
	}
	for _, o := range result.Outcomes {
		if o.Detected {
			flagColor.Printf("  [FLAG] ")
		} else {
			passColor.Printf("  [PASS] ")
		}
		fmt.Printf("%-18s ", o.ProbeID)
		dimColor.Println(o.Detail)
	}
	fmt.Println()
}

// PrintVerdict prints the verdict line, threat tally and score.
func (h *Handler) PrintVerdict(result *types.DetectionResult, threats []types.Threat, score int) {
	if h.opts.JSON {
		return
	}
	if result.Compromised {
		flagColor.Printf("Verdict: COMPROMISED")
	} else {
		passColor.Printf("Verdict: not compromised")
	}
	fmt.Printf("  (score %d/100, %.1fs)\n", score, float64(result.DurationMs)/1000.0)

	counts := types.CountThreats(threats)
	if counts.Total() == 0 {
		return
	}
	fmt.Print("Threats: ")
	criticalColor.Printf("critical %d  ", counts.Critical)
	highColor.Printf("high %d  ", counts.High)
	mediumColor.Printf("medium %d  ", counts.Medium)
	lowColor.Printf("low %d\n", counts.Low)
}

// PrintError prints an error line (suppressed in JSON mode; errors there are
// the caller's exit code).
func (h *Handler) PrintError(format string, args ...interface{}) {
	if h.opts.JSON {
		return
	}
	flagColor.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

// PrintJSON emits the machine-readable result document and nothing else.
func (h *Handler) PrintJSON(result *types.DetectionResult, threats []types.Threat, score int, recommendations []string) error {
	doc := struct {
		Result          *types.DetectionResult `json:"result"`
		Threats         []types.Threat         `json:"threats"`
		Score           int                    `json:"score"`
		Recommendations []string               `json:"recommendations"`
	}{result, threats, score, recommendations}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// PrintInfo prints an informational line.
func (h *Handler) PrintInfo(format string, args ...interface{}) {
	if h.opts.Quiet || h.opts.JSON {
		return
	}
	dimColor.Printf(format+"\n", args...)
}
