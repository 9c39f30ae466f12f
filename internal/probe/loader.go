package probe

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

const defaultMapsPath = "/proc/self/maps"

// LoaderImageProbe enumerates the shared libraries currently mapped into the
// process and matches their names against a denylist of hooking/injection
// frameworks. The map list is read live on every call, not cached, since
// injection can occur after process start.
type LoaderImageProbe struct {
	// MapsPath overrides /proc/self/maps for tests.
	MapsPath string
	Denylist []string
}

func (p *LoaderImageProbe) ID() string                    { return "loader-images" }
func (p *LoaderImageProbe) Category() types.ProbeCategory { return types.CategoryDynamicLoaderImage }

func (p *LoaderImageProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	mapsPath := p.MapsPath
	if mapsPath == "" {
		mapsPath = defaultMapsPath
	}
	f, err := os.Open(mapsPath)
	if err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("loader image list unavailable: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var matched []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		image := fields[len(fields)-1]
		if !strings.HasPrefix(image, "/") {
			continue
		}
		name := strings.ToLower(filepath.Base(image))
		for _, deny := range p.Denylist {
			if strings.Contains(name, strings.ToLower(deny)) && !seen[image] {
				seen[image] = true
				matched = append(matched, image)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return types.ProbeOutcome{}, fmt.Errorf("reading loader image list: %w", err)
	}

	if len(matched) > 0 {
		return outcome(p, true, fmt.Sprintf("injected image(s) mapped: %s", strings.Join(matched, ", "))), nil
	}
	return outcome(p, false, "no denylisted images in the live map list"), nil
}
