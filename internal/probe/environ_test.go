package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

func TestInjectionEnvProbe(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantDetected bool
		wantInDetail string
	}{
		{
			name:         "clean environment",
			env:          map[string]string{},
			wantDetected: false,
		},
		{
			name:         "dyld insert set",
			env:          map[string]string{"DYLD_INSERT_LIBRARIES": "/usr/lib/evil.dylib"},
			wantDetected: true,
			wantInDetail: "DYLD_INSERT_LIBRARIES=/usr/lib/evil.dylib",
		},
		{
			name:         "ld preload set",
			env:          map[string]string{"LD_PRELOAD": "/tmp/hook.so"},
			wantDetected: true,
			wantInDetail: "LD_PRELOAD=/tmp/hook.so",
		},
		{
			name:         "empty value is not detected",
			env:          map[string]string{"LD_PRELOAD": ""},
			wantDetected: false,
		},
	}

	vars := []string{"DYLD_INSERT_LIBRARIES", "DYLD_FORCE_FLAT_NAMESPACE", "LD_PRELOAD", "LD_AUDIT"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &InjectionEnvProbe{
				Vars:   vars,
				Getenv: func(k string) string { return tt.env[k] },
			}
			out, err := p.Evaluate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDetected, out.Detected)
			assert.Equal(t, types.CategoryEnvironmentVar, out.Category)
			if tt.wantInDetail != "" {
				assert.Contains(t, out.Detail, tt.wantInDetail)
			}
		})
	}
}
