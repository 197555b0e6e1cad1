package main

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetCommandState restores flag values and the global viper instance
// so every execution starts from defaults.
func resetCommandState() {
	viper.Reset()
	bindFlags()
	cfgFile = ""
	verbose = false

	for _, fs := range []*pflag.FlagSet{rootCmd.Flags(), rootCmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	resetCommandState()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetCommandState()
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.txt":      "hello\n",
		"demo/hello.go":   "package demo\n\nfunc Hello() string {\n\treturn \"hi\"\n}\n",
		"vendor/skip.txt": "skipped\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

type codebase struct {
	Files []struct {
		Path    string `xml:"path,attr"`
		Content string `xml:",chardata"`
	} `xml:"file"`
}

func TestRun_WritesDocumentToStdout(t *testing.T) {
	root := sampleTree(t)

	stdout, _, err := execute(t, "-i", root, "--exclude", "vendor", "--no-progress")
	require.NoError(t, err)

	var doc codebase
	require.NoError(t, xml.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "README.txt", doc.Files[0].Path)
	assert.Equal(t, "hello\n", doc.Files[0].Content)
	assert.Equal(t, "demo/hello.go", doc.Files[1].Path)
	assert.Contains(t, doc.Files[1].Content, "func Hello() string")
	assert.NotContains(t, doc.Files[1].Content, "return")
}

func TestRun_WritesDocumentToFile(t *testing.T) {
	root := sampleTree(t)
	out := filepath.Join(t.TempDir(), "nested", "codebase.xml")

	stdout, _, err := execute(t, "-i", root, "-o", out, "--exclude", "vendor", "--raw", "--no-progress")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc codebase
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Files, 2)
	assert.Contains(t, doc.Files[1].Content, "return \"hi\"")
}

func TestRun_ExcludeIsLiteral(t *testing.T) {
	root := sampleTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a,b.txt"), []byte("comma\n"), 0644))

	stdout, _, err := execute(t, "-i", root, "--exclude", "a,b", "--exclude", "READ,ME", "--exclude", "vendor", "--no-progress")
	require.NoError(t, err)

	var doc codebase
	require.NoError(t, xml.Unmarshal([]byte(stdout), &doc))
	paths := make([]string, 0, len(doc.Files))
	for _, f := range doc.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"README.txt", "demo/hello.go"}, paths)
}

func TestRun_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	root := sampleTree(t)

	_, _, err := execute(t, "-i", root, "--exclude", "vendor", "--raw", "--no-progress")
	require.NoError(t, err)

	stdout, _, err := execute(t, "-i", root, "--no-progress")
	require.NoError(t, err)

	var doc codebase
	require.NoError(t, xml.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Files, 3)
	assert.Equal(t, "vendor/skip.txt", doc.Files[2].Path)
	assert.NotContains(t, doc.Files[1].Content, "return")
}

func TestRun_WriteFailureKeepsExitStatus(t *testing.T) {
	root := sampleTree(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, stderr, err := execute(t, "-i", root, "-o", filepath.Join(blocker, "out.xml"), "--exclude", "vendor", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, stderr, "write error")
}

func TestRun_RejectsPositionalArgs(t *testing.T) {
	_, _, err := execute(t, "somewhere")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "smashy ")
}

func TestConfigCmd(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "smashy.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  format: json\n"), 0644))

	stdout, _, err := execute(t, "config", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "format: json")
	assert.Contains(t, stdout, "task_timeout:")
	assert.Contains(t, stdout, "exclude: []")
	assert.Contains(t, stdout, "raw: false")
}

func TestConfigCmd_DefaultsWithoutFile(t *testing.T) {
	stdout, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "format: pretty")
}

func TestCacheCmd_StatsAndClear(t *testing.T) {
	root := sampleTree(t)
	t.Setenv("SMASHY_CACHE_DIRECTORY", filepath.Join(t.TempDir(), "cache"))

	_, _, err := execute(t, "-i", root, "-o", filepath.Join(t.TempDir(), "out.xml"), "--cache", "--exclude", "vendor", "--no-progress")
	require.NoError(t, err)

	stdout, _, err := execute(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skeletons: 1\n")

	stdout, _, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 cached skeletons\n", stdout)

	stdout, _, err = execute(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skeletons: 0\n")
}
