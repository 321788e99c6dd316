//go:build integration
// +build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "veil")
	cmd := exec.Command("go", "build", "-o", binary, "../../cmd/veil")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build binary: %s", string(output))
	return binary
}

// runCmd runs the binary and returns combined stdout+stderr, failing the
// test on a non-zero exit.
func runCmd(t *testing.T, binary, workDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "command '%s %s' failed: %s", binary, strings.Join(args, " "), string(out))
	return string(out)
}

// runCmdStdout returns only stdout, keeping log output on stderr out of
// JSON that the test wants to parse.
func runCmdStdout(t *testing.T, binary, workDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()

	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	require.NoError(t, err, "command '%s %s' failed: %s", binary, strings.Join(args, " "), stderr.String())
	return string(out)
}

func runCmdExpectError(t *testing.T, binary, workDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()
	out, _ := cmd.CombinedOutput()
	return string(out)
}
