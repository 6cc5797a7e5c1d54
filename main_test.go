package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var update = flag.Bool("update", false, "update expected VB files")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

func getVBFilePath(csFile string) string {
	baseName := strings.TrimSuffix(filepath.Base(csFile), ".cs")
	return filepath.Join("testdata", "vb", baseName+".vb")
}

func updateExpectedFile(vbFile string, content string) error {
	if err := os.MkdirAll(filepath.Dir(vbFile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(vbFile, []byte(content), 0o644)
}

func TestConversion(t *testing.T) {
	csDir := filepath.Join("testdata", "cs")
	entries, err := os.ReadDir(csDir)
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".cs") {
			continue
		}
		csFile := filepath.Join(csDir, entry.Name())
		testName := strings.TrimSuffix(entry.Name(), ".cs")

		t.Run(testName, func(t *testing.T) {
			res, err := convertFile(sourceFile{path: csFile, rel: entry.Name()}, defaultConfig(), zaptest.NewLogger(t))
			require.NoError(t, err)
			assert.Empty(t, res.diagnostics)

			vbFile := getVBFilePath(csFile)
			expected, err := os.ReadFile(vbFile)
			if *update && (err != nil || string(expected) != res.text) {
				require.NoError(t, updateExpectedFile(vbFile, res.text))
				t.Logf("Updated expected file: %s", vbFile)
				return
			}
			require.NoError(t, err)

			if string(expected) != res.text {
				diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(string(expected)),
					B:        difflib.SplitLines(res.text),
					FromFile: "expected",
					ToFile:   "actual",
					Context:  3,
				})
				t.Errorf("Output does not match %s:\n%s", vbFile, diff)
			}
		})
	}
}

func TestConversionWithConfig(t *testing.T) {
	source := `using System.Text;
namespace Contoso.App.Shapes
{
    public class Square
    {
    }
}
`
	tests := []struct {
		name          string
		configContent string
		createConfig  bool
		contains      []string
		notContains   []string
	}{
		{
			name: "license_and_root_namespace",
			configContent: `root_namespace = "Contoso.App"
license_header = """Copyright 2024 Test Company
Licensed under Apache 2.0
"""
`,
			createConfig: true,
			contains: []string{
				"' Copyright 2024 Test Company\n' Licensed under Apache 2.0\n",
				"Namespace Shapes\n",
				"Imports System.Text\n",
			},
			notContains: []string{"Contoso"},
		},
		{
			name: "ambient_imports",
			configContent: `ambient_imports = ["System.Text"]
`,
			createConfig: true,
			contains:     []string{"Namespace Contoso.App.Shapes\n", "    Public Class Square\n"},
			notContains:  []string{"Imports"},
		},
		{
			name:         "no_config_file",
			createConfig: false,
			contains:     []string{"Imports System.Text\n", "Namespace Contoso.App.Shapes\n"},
			notContains:  []string{"'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.createConfig {
				require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Config.toml"), []byte(tt.configContent), 0o644))
			}
			csFile := filepath.Join(tmpDir, "Square.cs")
			require.NoError(t, os.WriteFile(csFile, []byte(source), 0o644))

			cfg := loadConfig(tmpDir)
			res, err := convertFile(sourceFile{path: csFile, rel: "Square.cs"}, cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, res.text, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, res.text, unwanted)
			}
		})
	}
}
