package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBatch writes a manifest plus one entity-laden file, one clean file,
// and lists one path that does not exist. It returns the configured app
// alongside the paths of the dirty and clean files.
func setupBatch(t *testing.T) (*App, *SafeBuffer, string, string) {
	t.Helper()

	root := t.TempDir()
	dirty := filepath.Join(root, "dirty.tsx")
	clean := filepath.Join(root, "clean.ts")
	require.NoError(t, os.WriteFile(dirty, []byte("He said &quot;hi&apos; &amp; left&lt;now&gt;"), 0600))
	require.NoError(t, os.WriteFile(clean, []byte("already fine\n"), 0600))

	manifestPath := filepath.Join(root, "fix.hcl")
	src := fmt.Sprintf("files = [%q, %q, %q]\n", "dirty.tsx", "clean.ts", "missing.ts")
	require.NoError(t, os.WriteFile(manifestPath, []byte(src), 0600))

	config, err := NewConfig(Config{ManifestPath: manifestPath, Root: root})
	require.NoError(t, err)

	testApp, out := SetupAppTest(t, config)
	return testApp, out, dirty, clean
}

func TestRun_ReportsEachFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	testApp, out, dirty, clean := setupBatch(t)

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Starting HTML entity replacement...")
	assert.Contains(t, output, strings.Repeat("=", 60))
	assert.Contains(t, output, "✓ Fixed: "+dirty)
	assert.Contains(t, output, "- No changes needed: "+clean)
	assert.Contains(t, output, "✗ File not found: ")
	assert.Contains(t, output, "Completed! Fixed 1 files.")

	// Status lines appear in manifest order.
	assert.Less(t, strings.Index(output, "✓ Fixed:"), strings.Index(output, "- No changes needed:"))
	assert.Less(t, strings.Index(output, "- No changes needed:"), strings.Index(output, "✗ File not found:"))
}

func TestRun_RewritesOnlyChangedContent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	testApp, _, dirty, clean := setupBatch(t)

	// --- Act ---
	require.NoError(t, testApp.Run(context.Background()))

	// --- Assert ---
	data, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, `He said "hi' & left<now>`, string(data))

	data, err = os.ReadFile(clean)
	require.NoError(t, err)
	assert.Equal(t, "already fine\n", string(data))
}

func TestRun_SecondRunFixesNothing(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	testApp, out, _, _ := setupBatch(t)
	require.NoError(t, testApp.Run(context.Background()))

	// --- Act ---
	require.NoError(t, testApp.Run(context.Background()))

	// --- Assert ---
	output := out.String()
	assert.Contains(t, output, "Completed! Fixed 1 files.")
	assert.Contains(t, output, "Completed! Fixed 0 files.")
	assert.Equal(t, 1, strings.Count(output, "✓ Fixed:"))
}

func TestRun_ErrorsDoNotAbortTheBatch(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	// --- Arrange ---
	root := t.TempDir()
	unreadable := filepath.Join(root, "locked.ts")
	require.NoError(t, os.WriteFile(unreadable, []byte("&amp;"), 0000))
	after := filepath.Join(root, "after.ts")
	require.NoError(t, os.WriteFile(after, []byte("&gt;"), 0600))

	manifestPath := filepath.Join(root, "fix.hcl")
	src := fmt.Sprintf("files = [%q, %q]\n", "locked.ts", "after.ts")
	require.NoError(t, os.WriteFile(manifestPath, []byte(src), 0600))

	config, err := NewConfig(Config{ManifestPath: manifestPath, Root: root})
	require.NoError(t, err)
	testApp, out := SetupAppTest(t, config)

	// --- Act ---
	err = testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err, "per-file failures must not fail the batch")
	output := out.String()
	assert.Contains(t, output, "✗ Error processing "+unreadable)
	assert.Contains(t, output, "✓ Fixed: "+after)
	assert.Contains(t, output, "Completed! Fixed 1 files.")
}
