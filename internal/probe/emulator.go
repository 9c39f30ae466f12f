package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

var emulatorMarkers = []string{"qemu", "kvm", "virtualbox", "vmware", "bochs", "bhyve", "parallels"}

// EmulatorProbe applies execution-environment heuristics: hypervisor markers
// in the DMI product name and CPU flags, container sentinels, and the kernel
// machine string from uname. Emulated execution is informational — it is the
// norm for CI and test fleets, not proof of compromise.
type EmulatorProbe struct {
	// DMIProductPath overrides /sys/class/dmi/id/product_name for tests.
	DMIProductPath string
	// CPUInfoPath overrides /proc/cpuinfo for tests.
	CPUInfoPath string
	// ContainerSentinel overrides /.dockerenv for tests.
	ContainerSentinel string
}

func (p *EmulatorProbe) ID() string                    { return "emulator" }
func (p *EmulatorProbe) Category() types.ProbeCategory { return types.CategoryEmulatorHeuristic }

func (p *EmulatorProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	dmiPath := p.DMIProductPath
	if dmiPath == "" {
		dmiPath = "/sys/class/dmi/id/product_name"
	}
	cpuPath := p.CPUInfoPath
	if cpuPath == "" {
		cpuPath = "/proc/cpuinfo"
	}
	sentinel := p.ContainerSentinel
	if sentinel == "" {
		sentinel = "/.dockerenv"
	}

	var indicators []string
	checked := 0

	if data, err := os.ReadFile(dmiPath); err == nil {
		checked++
		product := strings.TrimSpace(string(data))
		for _, marker := range emulatorMarkers {
			if strings.Contains(strings.ToLower(product), marker) {
				indicators = append(indicators, fmt.Sprintf("DMI product %q", product))
				break
			}
		}
	}

	if data, err := os.ReadFile(cpuPath); err == nil {
		checked++
		if cpuinfoHasHypervisorFlag(string(data)) {
			indicators = append(indicators, "hypervisor CPU flag set")
		}
	}

	if _, err := os.Stat(sentinel); err == nil {
		indicators = append(indicators, fmt.Sprintf("container sentinel %s present", sentinel))
	}
	checked++

	machine, err := unameMachine()
	if err == nil {
		checked++
	}

	if checked == 0 {
		return types.ProbeOutcome{}, fmt.Errorf("no execution-environment source readable on this host")
	}
	if len(indicators) > 0 {
		detail := strings.Join(indicators, ", ")
		if machine != "" {
			detail += fmt.Sprintf(" (machine %s)", machine)
		}
		return outcome(p, true, "emulated or virtualized execution: "+detail), nil
	}
	detail := "no emulation markers found"
	if machine != "" {
		detail += fmt.Sprintf(" (machine %s)", machine)
	}
	return outcome(p, false, detail), nil
}

// cpuinfoHasHypervisorFlag reports whether any flags line lists the
// hypervisor CPUID bit.
func cpuinfoHasHypervisorFlag(cpuinfo string) bool {
	for _, line := range strings.Split(cpuinfo, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) != "flags" {
			continue
		}
		for _, flag := range strings.Fields(value) {
			if flag == "hypervisor" {
				return true
			}
		}
	}
	return false
}
