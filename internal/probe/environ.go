package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// InjectionEnvProbe inspects the process environment for variables used to
// force-load shared libraries into a process (DYLD_INSERT_LIBRARIES,
// LD_PRELOAD and friends). Any such variable set non-empty is detected.
type InjectionEnvProbe struct {
	Vars []string
	// Getenv overrides os.Getenv for tests.
	Getenv func(string) string
}

func (p *InjectionEnvProbe) ID() string                    { return "injection-env" }
func (p *InjectionEnvProbe) Category() types.ProbeCategory { return types.CategoryEnvironmentVar }

func (p *InjectionEnvProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	var set []string
	for _, name := range p.Vars {
		if value := getenv(name); value != "" {
			set = append(set, fmt.Sprintf("%s=%s", name, value))
		}
	}
	if len(set) > 0 {
		return outcome(p, true, fmt.Sprintf("library-injection variable(s) set: %s", strings.Join(set, ", "))), nil
	}
	return outcome(p, false, fmt.Sprintf("none of %d loader-override variables set", len(p.Vars))), nil
}
