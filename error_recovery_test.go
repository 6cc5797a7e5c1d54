package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/heshanpadmasiri/csvb/convert"
)

const eventSource = `class TestEvents
{
    int validField1 = 5;
    public int GetField1()
    {
        return validField1;
    }
    // Events are not supported
    public event System.EventHandler Changed;
    int validField2 = 10;
    public int GetField2()
    {
        return validField2;
    }
}
`

func writeSource(t *testing.T, name, source string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644))
	return dir
}

func testRunner(t *testing.T, cfg config) (*runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cfg.Jobs = 2
	return &runner{cfg: cfg, log: zaptest.NewLogger(t), stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}

func TestErrorRecovery(t *testing.T) {
	dir := writeSource(t, "Events.cs", eventSource)

	t.Run("non-strict mode continues on error", func(t *testing.T) {
		r, stdout, stderr := testRunner(t, defaultConfig())
		require.NoError(t, r.run(context.Background(), []string{dir}))

		out := stdout.String()
		assert.Equal(t, 1, strings.Count(out, "' CONVERSION ERROR:"))
		assert.Contains(t, out, "event_field_declaration")
		assert.Contains(t, out, "'     public event System.EventHandler Changed;")
		assert.Contains(t, out, "' Events are not supported")

		// Siblings on both sides of the failure still convert
		assert.Contains(t, out, "Private validField1 As Integer = 5")
		assert.Contains(t, out, "Private validField2 As Integer = 10")
		assert.Contains(t, out, "Public Function GetField1() As Integer")
		assert.Contains(t, out, "Public Function GetField2() As Integer")

		diags := strings.Split(strings.TrimSpace(stderr.String()), "\n")
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0], "Events.cs:9:5: warning: unsupported construct: event_field_declaration")
	})

	t.Run("strict mode stops at the first failure", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Strict = true
		r, stdout, _ := testRunner(t, cfg)
		err := r.run(context.Background(), []string{dir})
		require.Error(t, err)
		kind, ok := convert.ErrorKindOf(err)
		require.True(t, ok)
		assert.Equal(t, convert.UnsupportedConstruct, kind)
		assert.Contains(t, err.Error(), "event_field_declaration")
		assert.Empty(t, stdout.String())
	})
}

func TestSyntaxErrorsAreReported(t *testing.T) {
	dir := writeSource(t, "Broken.cs", `class Broken
{
    void M() { int x = ; }
}
`)
	r, _, stderr := testRunner(t, defaultConfig())
	require.NoError(t, r.run(context.Background(), []string{dir}))
	assert.Contains(t, stderr.String(), "Broken.cs:1:1: warning: parser recovered from")
}

func TestConversionLogsNameTheFileOnce(t *testing.T) {
	dir := writeSource(t, "Events.cs", eventSource)
	path := filepath.Join(dir, "Events.cs")
	core, logs := observer.New(zap.DebugLevel)

	_, err := convertFile(sourceFile{path: path, rel: "Events.cs"}, defaultConfig(), zap.New(core))
	require.NoError(t, err)

	failures := logs.FilterMessage("conversion failed").All()
	require.NotEmpty(t, failures)
	for _, entry := range logs.All() {
		count := 0
		for _, f := range entry.Context {
			if f.Key == "file" {
				count++
				assert.Equal(t, path, f.String)
			}
		}
		assert.Equal(t, 1, count, entry.Message)
	}
}
