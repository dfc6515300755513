package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"memory\"\n"), 0644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", path}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestWordArgs(t *testing.T) {
	got := wordArgs([]string{"xe hơi, máy bay", " tàu hỏa ", ","})
	assert.Equal(t, []string{"xe hơi", "máy bay", "tàu hỏa"}, got)
}

func TestCheckCommand(t *testing.T) {
	assert.Equal(t, "\"mì quảng\" can follow \"bánh mì\"\n", run(t, "check", "bánh mì", "mì quảng"))
	assert.Equal(t, "\"quảng nam\" cannot follow \"bánh mì\"\n", run(t, "check", "bánh mì", "quảng nam"))
}

func TestCheckCommandJSON(t *testing.T) {
	var ok bool
	require.NoError(t, json.Unmarshal([]byte(run(t, "--json", "-l", "en", "check", "cat", "tiger")), &ok))
	assert.True(t, ok)
}

func TestValidateCommand(t *testing.T) {
	assert.Equal(t, "valid: cat → tiger → rabbit\n", run(t, "-l", "en", "validate", "cat, tiger", "rabbit"))
	assert.Equal(t, "invalid\n", run(t, "-l", "en", "validate", "cat", "rabbit"))
}

func TestAddCommandRejectsMalformed(t *testing.T) {
	out := run(t, "add", "xyz")
	assert.Contains(t, out, "added 0 words")
	assert.Contains(t, out, "rejected: xyz")
}

func TestUnknownOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"memory\"\n"), 0644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", path, "next", "cat", "--order", "sideways"})
	assert.ErrorContains(t, root.Execute(), "unknown order")
}
