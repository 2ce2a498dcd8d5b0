package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KagemniKarimu/nyota/internal/platform/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Get().String()+"\n", out)
}

func TestModelsCommand(t *testing.T) {
	out, err := execute(t, "models")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4o-mini\n")
	assert.Contains(t, out, "ollama/<model>\n")
}

func TestModeFlagsAreExclusive(t *testing.T) {
	_, err := execute(t, "-i", "-t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"interactive", "dev", "task", "model"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "i", cmd.Flags().Lookup("interactive").Shorthand)
	assert.Equal(t, "d", cmd.Flags().Lookup("dev").Shorthand)
	assert.Equal(t, "t", cmd.Flags().Lookup("task").Shorthand)
}
