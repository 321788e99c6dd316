package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veil-io/veil/internal/anonymizer"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	expected := []string{
		"version",
		"anonymize",
		"deanonymize",
		"operators",
		"audit",
		"serve",
	}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "subcommand %q should be registered", name)
	}
}

func TestRootCommand_HelpOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "detected sensitive entities")
	assert.Contains(t, output, "anonymize")
	assert.Contains(t, output, "serve")
}

func TestVersionVars_HaveDefaults(t *testing.T) {
	assert.Equal(t, "dev", Version)
	assert.Equal(t, "none", Commit)
	assert.Equal(t, "unknown", BuildDate)
}

func TestVersionCmd_Output(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Veil dev")
}

func TestOperatorsCmd_ListsCatalog(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"operators"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	for _, name := range []string{"hash", "mask", "redact", "replace", "encrypt", "decrypt"} {
		assert.Contains(t, output, name)
	}
	assert.Contains(t, output, "reversible")
	assert.Contains(t, output, "irreversible")
}

func TestAnonymizeCmd_EndToEnd(t *testing.T) {
	spansPath := filepath.Join(t.TempDir(), "spans.json")
	spans := []anonymizer.Span{{Start: 7, End: 17, EntityType: "SSN", Score: 0.8}}
	data, err := json.Marshal(spans)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(spansPath, data, 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"anonymize", "please REPLACE ME.", "--spans", spansPath, "--no-audit"})

	err = rootCmd.Execute()
	require.NoError(t, err)

	var result anonymizer.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "please <SSN>.", result.Text)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "replace", result.Items[0].Operator)
}

func TestAnonymizeCmd_MissingSpansFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"anonymize", "some text", "--spans", "/does/not/exist.json", "--no-audit"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestReadInputText(t *testing.T) {
	// positional argument wins over stdin
	text, err := readInputText([]string{"from arg"}, "", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, "from arg", text)

	// file flag wins over everything
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))
	text, err = readInputText([]string{"from arg"}, path, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, "from file", text)

	// stdin as last resort, trailing newline stripped
	text, err = readInputText(nil, "", bytes.NewReader([]byte("from stdin\n")))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)
}
