// Package defaults embeds the default baseline bundle so the binary works
// standalone, without a baseline.json next to the executable.
package defaults

import _ "embed"

// Baseline is the compiled-in default bundle.
//
//go:embed baseline.json
var Baseline []byte
