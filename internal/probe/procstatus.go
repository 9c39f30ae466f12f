package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

const defaultStatusPath = "/proc/self/status"

// statusField reads one "Key:\tvalue" field from a /proc/<pid>/status file.
func statusField(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name, value, ok := strings.Cut(scanner.Text(), ":")
		if ok && name == key {
			return strings.TrimSpace(value), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("field %s not present in %s", key, path)
}

// TraceFlagProbe reads the kernel-maintained trace flag for the current
// process: a non-zero TracerPid means a debugger attached via ptrace.
type TraceFlagProbe struct {
	// StatusPath overrides /proc/self/status for tests.
	StatusPath string
}

func (p *TraceFlagProbe) ID() string                    { return "trace-flag" }
func (p *TraceFlagProbe) Category() types.ProbeCategory { return types.CategoryProcessTraceFlag }

func (p *TraceFlagProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	path := p.StatusPath
	if path == "" {
		path = defaultStatusPath
	}
	value, err := statusField(path, "TracerPid")
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("process trace flag unavailable: %w", err)
	}
	pid, err := strconv.Atoi(value)
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("unparseable TracerPid %q: %w", value, err)
	}
	if pid != 0 {
		return outcome(p, true, fmt.Sprintf("debugger attached: TracerPid=%d", pid)), nil
	}
	return outcome(p, false, "no tracer attached (TracerPid=0)"), nil
}

// sigtrap is signal 5; its bit in the Sig* masks is 1<<(5-1).
const sigtrapMask = uint64(1) << 4

// The runtime of the host process catches SIGTRAP itself (along with most
// other signals) before user code runs, so a caught SIGTRAP alone proves
// nothing. The mask is sampled once at process start; only bits that become
// caught after that point indicate fault interception installed from outside.
var startupSigCgt, startupSigCgtErr = readSigCgtMask(defaultStatusPath)

func readSigCgtMask(path string) (uint64, error) {
	value, err := statusField(path, "SigCgt")
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(value, 16, 64)
}

// ExceptionHandlerProbe checks whether a handler for SIGTRAP, the
// fault-interception point debuggers and instrumentation tools register on
// unix hosts, was installed after process start. The caught-signal mask is
// read from the SigCgt field of the process status entry and compared
// against the startup-time mask.
type ExceptionHandlerProbe struct {
	// StatusPath overrides /proc/self/status for tests.
	StatusPath string
	// BaselineMask overrides the startup-time SigCgt mask for tests.
	BaselineMask *uint64
}

func (p *ExceptionHandlerProbe) ID() string                    { return "exception-handler" }
func (p *ExceptionHandlerProbe) Category() types.ProbeCategory { return types.CategoryExceptionPort }

func (p *ExceptionHandlerProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	path := p.StatusPath
	if path == "" {
		path = defaultStatusPath
	}
	value, err := statusField(path, "SigCgt")
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("signal mask unavailable: %w", err)
	}
	mask, err := strconv.ParseUint(value, 16, 64)
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("unparseable SigCgt mask %q: %w", value, err)
	}

	var baseline uint64
	switch {
	case p.BaselineMask != nil:
		baseline = *p.BaselineMask
	case startupSigCgtErr != nil:
		return types.ProbeOutcome{}, fmt.Errorf("startup signal mask unavailable: %w", startupSigCgtErr)
	default:
		baseline = startupSigCgt
	}

	if (mask&^baseline)&sigtrapMask != 0 {
		return outcome(p, true, fmt.Sprintf("SIGTRAP handler installed after process start (SigCgt=%s)", value)), nil
	}
	if mask&sigtrapMask != 0 {
		return outcome(p, false, "SIGTRAP caught since process start (runtime default handling)"), nil
	}
	return outcome(p, false, "default fault handling in place (SIGTRAP not caught)"), nil
}
