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

// URLSchemeProbe asks the desktop environment whether a handler is
// registered for custom URL schemes used exclusively by jailbreak-management
// applications (cydia://, sileo://, ...). Registration is read from the XDG
// mimeapps.list files; a registered handler for any scheme is detected.
type URLSchemeProbe struct {
	Schemes []string
	// MimeappsPaths overrides the XDG candidate list for tests.
	MimeappsPaths []string
}

func (p *URLSchemeProbe) ID() string                    { return "url-schemes" }
func (p *URLSchemeProbe) Category() types.ProbeCategory { return types.CategoryURLSchemeCapable }

func (p *URLSchemeProbe) Evaluate(ctx context.Context) (types.ProbeOutcome, error) {
	paths := p.MimeappsPaths
	if len(paths) == 0 {
		paths = defaultMimeappsPaths()
	}

	var registered []string
	seen := make(map[string]bool)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return types.ProbeOutcome{}, err
		}
		handlers, err := parseSchemeHandlers(path)
		if err != nil {
			continue
		}
		for _, scheme := range p.Schemes {
			if handler, ok := handlers[scheme]; ok && !seen[scheme] {
				seen[scheme] = true
				registered = append(registered, fmt.Sprintf("%s:// -> %s", scheme, handler))
			}
		}
	}

	if len(registered) > 0 {
		return outcome(p, true, fmt.Sprintf("jailbreak-app URL scheme(s) registered: %s", strings.Join(registered, ", "))), nil
	}
	return outcome(p, false, fmt.Sprintf("no handler registered for %d jailbreak-app schemes", len(p.Schemes))), nil
}

// parseSchemeHandlers extracts x-scheme-handler entries from one
// mimeapps.list file, keyed by scheme name.
func parseSchemeHandlers(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	handlers := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "x-scheme-handler/") {
			continue
		}
		rest := strings.TrimPrefix(line, "x-scheme-handler/")
		scheme, handler, ok := strings.Cut(rest, "=")
		if !ok {
			continue
		}
		handler = strings.TrimSuffix(strings.TrimSpace(handler), ";")
		if handler != "" {
			handlers[strings.TrimSpace(scheme)] = handler
		}
	}
	return handlers, scanner.Err()
}

func defaultMimeappsPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mimeapps.list"))
	}
	paths = append(paths,
		"/etc/xdg/mimeapps.list",
		"/usr/share/applications/mimeapps.list",
		"/usr/local/share/applications/mimeapps.list",
	)
	return paths
}
