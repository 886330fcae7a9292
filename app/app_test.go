package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dumpJSON = false
	})

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestConfigDump(t *testing.T) {
	out := run(t, "config", "dump", "--config", "../etc/")

	assert.Contains(t, out, "[Webserver]")
	assert.Contains(t, out, "Auth Starter")
}

func TestConfigDumpJSON(t *testing.T) {
	out := run(t, "config", "dump", "--json", "--config", "../etc/")

	assert.Contains(t, out, `"Title": "Auth Starter"`)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["start"])
	assert.True(t, names["seed"])
	assert.True(t, names["config"])
}
