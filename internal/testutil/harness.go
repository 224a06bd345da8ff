// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
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

// WriteWorkspace creates a temporary directory holding files and returns its
// path. Keys are slash-separated paths relative to the directory; parent
// directories are created as needed. The directory is removed when the test
// ends.
func WriteWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// ToyConfigHCL is a configuration with one CSV mapfile dataset named "toy"
// backed by ToyMapfile.
const ToyConfigHCL = `
pairnames = ["R1", "R2"]

directories = {
  scratch = "/scratch"
  reports = "/reports"
}

dataset "toy" {
  type     = "CSV"
  file     = "toy.csv"
  name_col = "id"
  fq_cols  = ["fq1", "fq2"]
}
`

// ToyMapfile is the table behind the "toy" dataset.
const ToyMapfile = "id,host,dose,fq1,fq2\n" +
	"r1,A,10,r1_1.fq.gz,r1_2.fq.gz\n" +
	"r2,A,20,r2_1.fq.gz,r2_2.fq.gz\n" +
	"r3,B,10,r3_1.fq.gz,r3_2.fq.gz\n"

// ToyWorkspace writes the toy configuration and its mapfile and returns the
// configuration path.
func ToyWorkspace(t *testing.T) string {
	t.Helper()
	dir := WriteWorkspace(t, map[string]string{
		"config.hcl": ToyConfigHCL,
		"toy.csv":    ToyMapfile,
	})
	return filepath.Join(dir, "config.hcl")
}
