package probe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// BinaryHashProbe recomputes a SHA-256 digest over the running executable
// and compares it to the digest recorded in the baseline bundle. A mismatch
// means the binary on disk is not the one that was attested. With no
// baseline digest configured the probe is inconclusive.
type BinaryHashProbe struct {
	// ExpectedDigest is the hex-encoded SHA-256 of the pristine executable.
	ExpectedDigest string
	// ExecutablePath overrides os.Executable for tests.
	ExecutablePath func() (string, error)
}

func (p *BinaryHashProbe) ID() string                    { return "binary-hash" }
func (p *BinaryHashProbe) Category() types.ProbeCategory { return types.CategoryBinaryIntegrity }

func (p *BinaryHashProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.ProbeOutcome{}, err
	}
	if p.ExpectedDigest == "" {
		return types.ProbeOutcome{}, fmt.Errorf("no baseline digest configured")
	}

	exePath := os.Executable
	if p.ExecutablePath != nil {
		exePath = p.ExecutablePath
	}
	path, err := exePath()
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("resolving executable path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("opening executable: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("hashing executable: %w", err)
	}
	actual := hex.EncodeToString(h.Sum(nil))

	if !strings.EqualFold(actual, p.ExpectedDigest) {
		return outcome(p, true, fmt.Sprintf("executable digest mismatch: have %s, want %s", actual, strings.ToLower(p.ExpectedDigest))), nil
	}
	return outcome(p, false, "executable digest matches baseline"), nil
}
