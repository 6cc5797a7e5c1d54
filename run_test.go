package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func touch(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("class A { }\n"), 0o644))
	}
}

func rels(files []sourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.rel
	}
	sort.Strings(out)
	return out
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"A.cs",
		"src/B.cs",
		"src/Notes.txt",
		"src/bin/Generated.cs",
		"obj/Debug/Temp.cs",
		"tests/BTests.cs",
	)
	cfg := defaultConfig()

	files, err := discover([]string{root}, cfg.Include, cfg.Exclude)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.cs", "src/B.cs", "tests/BTests.cs"}, rels(files))

	files, err = discover([]string{root}, cfg.Include, append(cfg.Exclude, "tests"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.cs", "src/B.cs"}, rels(files))

	files, err = discover([]string{root}, []string{"src/*.cs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/B.cs"}, rels(files))

	// Files named directly skip the globs
	direct := filepath.Join(root, "src", "Notes.txt")
	files, err = discover([]string{direct}, cfg.Include, cfg.Exclude)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, direct, files[0].path)
	assert.Equal(t, "Notes.txt", files[0].rel)

	_, err = discover([]string{filepath.Join(root, "missing")}, cfg.Include, cfg.Exclude)
	assert.Error(t, err)
}

func TestMatchAny(t *testing.T) {
	assert.True(t, matchAny([]string{"**/*.cs"}, "a/b/C.cs"))
	assert.True(t, matchAny([]string{"*.cs"}, "a/b/C.cs"))
	assert.False(t, matchAny([]string{"src/*.cs"}, "lib/C.cs"))
	assert.False(t, matchAny(nil, "C.cs"))
}

func TestTarget(t *testing.T) {
	file := sourceFile{path: filepath.Join("proj", "src", "Shape.cs"), rel: "src/Shape.cs"}
	r := &runner{}
	assert.Equal(t, filepath.Join("proj", "src", "Shape.vb"), r.target(file))
	r.out = "out"
	assert.Equal(t, filepath.Join("out", "src", "Shape.vb"), r.target(file))
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := unifiedDiff("a\nb\n", "a\nb\n", "X.vb")
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = unifiedDiff("a\nb\n", "a\nc\n", "X.vb")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- X.vb\n")
	assert.Contains(t, diff, "+++ X.vb (converted)\n")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")
}

func TestWriteToOutputDirectory(t *testing.T) {
	src := t.TempDir()
	touch(t, src, "nested/A.cs")
	out := t.TempDir()

	r, stdout, stderr := testRunner(t, defaultConfig())
	r.out = out
	require.NoError(t, r.run(context.Background(), []string{src}))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	written, err := os.ReadFile(filepath.Join(out, "nested", "A.vb"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "Class A\nEnd Class\n")
}

func TestDiffAgainstExisting(t *testing.T) {
	src := t.TempDir()
	touch(t, src, "A.cs")
	require.NoError(t, os.WriteFile(filepath.Join(src, "A.vb"), []byte("Friend Class B\nEnd Class\n"), 0o644))

	r, stdout, _ := testRunner(t, defaultConfig())
	r.diff = true
	require.NoError(t, r.run(context.Background(), []string{filepath.Join(src, "A.cs")}))
	assert.Contains(t, stdout.String(), "-Friend Class B\n")
	assert.Contains(t, stdout.String(), "Class A\n")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("INFO"))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel(""))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("verbose"))
}
