package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it. The subcommands write directly to os.Stdout in
// the teacher's style, so tests intercept at the file-descriptor level
// rather than through an injected writer.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// resetFlags restores the persistent flags to their defaults between
// tests, since cobra flag state otherwise bleeds across Execute calls on
// the shared rootCmd.
func resetFlags(t *testing.T) {
	t.Helper()
	require.NoError(t, rootCmd.PersistentFlags().Set("ignore-errors", "false"))
	require.NoError(t, rootCmd.PersistentFlags().Set("scripting-enabled", "false"))
	require.NoError(t, rootCmd.PersistentFlags().Set("match-values", "false"))
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestHTMLCommandPrintsHtml5LibDump(t *testing.T) {
	resetFlags(t)
	path := writeTempFile(t, "<!doctype html><html><body><p>hi</p></body></html>")
	rootCmd.SetArgs([]string{"html", path})
	var err error
	out := captureStdout(t, func() { err = rootCmd.Execute() })
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `"hi"`)
}

func TestHTMLCommandReportsUnrecoveredErrors(t *testing.T) {
	resetFlags(t)
	path := writeTempFile(t, `<a href="x"/>`)
	rootCmd.SetArgs([]string{"html", path})
	var err error
	captureStdout(t, func() { err = rootCmd.Execute() })
	assert.Error(t, err, "a recovered tokenizer error should still fail the exit code")
}

func TestHTMLCommandIgnoreErrorsSuppressesExitCode(t *testing.T) {
	resetFlags(t)
	path := writeTempFile(t, `<a href="x"/>`)
	rootCmd.SetArgs([]string{"html", path, "--ignore-errors"})
	var err error
	captureStdout(t, func() { err = rootCmd.Execute() })
	assert.NoError(t, err)
}

func TestCSSTokensCommandPrintsTokenStream(t *testing.T) {
	resetFlags(t)
	path := writeTempFile(t, "h3, h4 { border: 1px solid black; }")
	rootCmd.SetArgs([]string{"css-tokens", path})
	var err error
	out := captureStdout(t, func() { err = rootCmd.Execute() })
	require.NoError(t, err)
	assert.Contains(t, out, "Ident")
	assert.Contains(t, out, "1px")
}

func TestCSSASTCommandPrintsRuleTree(t *testing.T) {
	resetFlags(t)
	path := writeTempFile(t, "h3, h4 { border: 1px solid black; }")
	rootCmd.SetArgs([]string{"css-ast", path})
	var err error
	out := captureStdout(t, func() { err = rootCmd.Execute() })
	require.NoError(t, err)
	assert.Contains(t, out, "h3, h4")
	assert.Contains(t, out, "border:")
}
