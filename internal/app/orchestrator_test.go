package app

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/smashy/internal/config"
	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/mocks"
	"github.com/quantmind-br/smashy/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type codebase struct {
	Files []struct {
		Path    string `xml:"path,attr"`
		Content string `xml:",chardata"`
	} `xml:"file"`
}

func parseDocument(t *testing.T, doc string) map[string]string {
	t.Helper()
	var cb codebase
	require.NoError(t, xml.Unmarshal([]byte(doc), &cb), doc)
	out := make(map[string]string, len(cb.Files))
	for _, f := range cb.Files {
		out[f.Path] = f.Content
	}
	return out
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func newTestOrchestrator(t *testing.T, cfg *config.Config) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(OrchestratorOptions{Config: cfg, Logger: utils.NewNopLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Input = root
	cfg.Progress = false
	return cfg
}

func TestNewOrchestrator_RequiresConfig(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorOptions{})
	assert.Error(t, err)
}

func TestNewOrchestrator_Defaults(t *testing.T) {
	o, err := NewOrchestrator(OrchestratorOptions{Config: testConfig(t.TempDir())})
	require.NoError(t, err)
	defer o.Close()

	assert.NotNil(t, o.logger)
	assert.NotNil(t, o.registry)
	assert.Nil(t, o.cache)
	assert.Nil(t, o.progressOutput)
}

func TestNewOrchestrator_CacheEnabled(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Cache.Enabled = true
	cfg.Cache.Directory = filepath.Join(t.TempDir(), "cache")

	o := newTestOrchestrator(t, cfg)
	assert.NotNil(t, o.cache)
	assert.DirExists(t, cfg.Cache.Directory)
}

func TestNewOrchestrator_CacheSkippedInRawMode(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Raw = true
	cfg.Cache.Enabled = true
	cfg.Cache.Directory = filepath.Join(t.TempDir(), "cache")

	o := newTestOrchestrator(t, cfg)
	assert.Nil(t, o.cache)
}

func TestOrchestrator_Run_GitignoreFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":  "ignore.txt\n",
		"include.txt": "included",
		"ignore.txt":  "ignored",
	})

	doc, summary := newTestOrchestrator(t, testConfig(root)).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Equal(t, "included", files["include.txt"])
	assert.NotContains(t, files, "ignore.txt")
	assert.Equal(t, 1, summary.Files)
	assert.NoError(t, summary.WalkErr)
}

func TestOrchestrator_Run_GitignoreDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":        "subdir/\n",
		"subdir/nested.txt": "hidden",
		"subdir/deep/x.txt": "hidden",
		"visible.txt":       "shown",
	})

	doc, _ := newTestOrchestrator(t, testConfig(root)).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Len(t, files, 1)
	assert.Contains(t, files, "visible.txt")
}

func TestOrchestrator_Run_GitDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".git/config": "[core]\n",
		"code.java":   "class Code {}",
	})

	cfg := testConfig(root)
	cfg.Exclude = []string{"unrelated"}
	doc, _ := newTestOrchestrator(t, cfg).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Contains(t, files, "code.java")
	for path := range files {
		assert.NotContains(t, path, ".git/")
	}
}

func TestOrchestrator_Run_Skeletons(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Test.java": "public class Test { public void method() { System.out.println(1); } }",
		"app.py":    "class A:\n    def f(self):\n        return 1\n\ndef top():\n    return 2\n",
		"notes.md":  "# Notes\n",
	})

	doc, summary := newTestOrchestrator(t, testConfig(root)).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Contains(t, files["Test.java"], "public class Test")
	assert.Contains(t, files["Test.java"], "public void method() ;")
	assert.NotContains(t, files["Test.java"], "System.out.println")
	assert.Contains(t, files["app.py"], "def f(self): ...")
	assert.Contains(t, files["app.py"], "def top(): ...")
	assert.NotContains(t, files["app.py"], "return")
	assert.Equal(t, "# Notes\n", files["notes.md"])
	assert.Equal(t, 3, summary.Files)
}

func TestOrchestrator_Run_RawMode(t *testing.T) {
	root := t.TempDir()
	src := "public class Test { public void method() { System.out.println(1); } }"
	writeTree(t, root, map[string]string{"Test.java": src})

	cfg := testConfig(root)
	cfg.Raw = true
	doc, _ := newTestOrchestrator(t, cfg).Run(context.Background())

	assert.Equal(t, src, parseDocument(t, doc)["Test.java"])
}

func TestOrchestrator_Run_CDATATerminator(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"term.txt": "]]>"})

	doc, _ := newTestOrchestrator(t, testConfig(root)).Run(context.Background())
	assert.Equal(t, "]]>", parseDocument(t, doc)["term.txt"])
}

func TestOrchestrator_Run_DropsBrokenFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Broken.java": "class Broken {",
		"binary.bin":  "\x00\x01\x02",
		"ok.txt":      "fine",
	})

	doc, summary := newTestOrchestrator(t, testConfig(root)).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Equal(t, map[string]string{"ok.txt": "fine"}, files)
	assert.Equal(t, 3, summary.Candidates)
	assert.Equal(t, 2, summary.Dropped)
}

func TestOrchestrator_Run_MissingInput(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))
	doc, summary := newTestOrchestrator(t, cfg).Run(context.Background())

	assert.Equal(t, "<codebase>\n</codebase>\n", doc)
	require.Error(t, summary.WalkErr)
	assert.True(t, errors.Is(summary.WalkErr, domain.ErrWalkFailed))
}

func TestOrchestrator_Run_UserExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":                 "package main\n",
		"generated/models.go":     "package generated\n",
		"node_modules/x/index.js": "x",
	})

	cfg := testConfig(root)
	cfg.Exclude = []string{"generated"}
	doc, _ := newTestOrchestrator(t, cfg).Run(context.Background())
	files := parseDocument(t, doc)

	assert.Len(t, files, 1)
	assert.Equal(t, "package main\n", files["main.go"])
}

func TestOrchestrator_Run_Progress(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a", "b.txt": "b"})

	var progress bytes.Buffer
	o, err := NewOrchestrator(OrchestratorOptions{
		Config:         testConfig(root),
		Logger:         utils.NewNopLogger(),
		ProgressOutput: &progress,
	})
	require.NoError(t, err)
	defer o.Close()

	_, summary := o.Run(context.Background())
	assert.Equal(t, 2, summary.Files)
	assert.NotEmpty(t, progress.String())
}

func TestOrchestrator_Run_WithCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"A.java": "class A { void f() { g(); } }"})

	ctrl := gomock.NewController(t)
	c := mocks.NewMockCache(ctrl)
	c.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte("class A { void f(); }"), nil)
	c.EXPECT().Close().Return(nil)

	o, err := NewOrchestrator(OrchestratorOptions{
		Config: testConfig(root),
		Logger: utils.NewNopLogger(),
		Cache:  c,
	})
	require.NoError(t, err)

	doc, _ := o.Run(context.Background())
	assert.Equal(t, "class A { void f(); }", parseDocument(t, doc)["A.java"])
	assert.NoError(t, o.Close())
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, summary := newTestOrchestrator(t, testConfig(root)).Run(ctx)
	assert.Equal(t, "<codebase>\n</codebase>\n", doc)
	assert.Error(t, summary.WalkErr)
}

func TestOrchestrator_Close_NoCache(t *testing.T) {
	o := &Orchestrator{}
	assert.NoError(t, o.Close())
}
