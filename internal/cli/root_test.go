package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersEverySubcommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"concat", "count", "filter", "hash", "invalid",
		"print", "sample", "split", "build-completion", "build-man",
	} {
		assert.Contains(t, names, want)
	}
}

func TestConcatCommandHasCatAlias(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := NewRootCommand()
	cmd, _, err := root.Find([]string{"cat"})
	assert.NoError(t, err)
	assert.Equal(t, "concat", cmd.Name())
}

func TestFilterRejectsMissingExpressionArg(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := NewRootCommand()
	cmd, _, err := root.Find([]string{"filter"})
	assert.NoError(t, err)
	assert.Error(t, cmd.Args(cmd, nil))
}
