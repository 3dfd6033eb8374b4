// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteTree creates a temporary directory holding files, keyed by their
// slash-separated relative path, and returns its root.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return root
}

// ShippedModulesPath returns the modules directory of this repository.
func ShippedModulesPath(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok, "cannot locate testutil source")
	return filepath.Join(filepath.Dir(file), "..", "..", "modules")
}

// DumpLogs prints logs when AECGRID_TEST_LOGS is "true".
func DumpLogs(t *testing.T, logs *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("AECGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
}

// ReadShippedDescriptor returns the module.hcl of a shipped module.
func ReadShippedDescriptor(t *testing.T, module string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(ShippedModulesPath(t), module, "module.hcl"))
	require.NoError(t, err)
	return string(data)
}
