package builtin

import (
	"bytes"
	"testing"

	"github.com/prestocli/presto/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range Shells {
		t.Run(shell, func(t *testing.T) {
			root := &cobra.Command{Use: "presto"}
			out := &bytes.Buffer{}
			cmd := NewCompletionCommand(out, root)
			root.AddCommand(cmd)

			root.SetArgs([]string{"completion", shell})
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "presto")
		})
	}
}

func TestCompletionCommand_KeepsShellOrder(t *testing.T) {
	want := append([]string(nil), Shells...)
	root := &cobra.Command{Use: "presto"}
	root.AddCommand(NewCompletionCommand(&bytes.Buffer{}, root))

	for _, shell := range []string{"bash", "zsh", "fish"} {
		root.SetArgs([]string{"completion", shell})
		require.NoError(t, root.Execute())
	}
	assert.Equal(t, want, Shells)
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, Shells)
}

func TestCompletionCommand_UnknownShell(t *testing.T) {
	root := &cobra.Command{Use: "presto"}
	err := runCompletion(root, "tcsh", &bytes.Buffer{})
	assert.EqualError(t, err, "unsupported shell: tcsh (choose from bash, zsh, fish, powershell)")
}

func TestProviderCompletion(t *testing.T) {
	env := newEnv(t, testConfig("http://example.com"), "")
	complete := ProviderCompletion(env.opts)

	names, directive := complete(nil, nil, "")
	assert.Equal(t, []string{"alpha", "beta"}, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	names, _ = complete(nil, nil, "b")
	assert.Equal(t, []string{"beta"}, names)

	require.NoError(t, writeRaw(env.path, "{broken"))
	_, directive = complete(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveError, directive)
}

func TestProviderNames_Empty(t *testing.T) {
	assert.Empty(t, providerNames(&config.Configuration{}, ""))
}

func TestFixedCompletion(t *testing.T) {
	values, directive := FixedCompletion("json", "yaml")(nil, nil, "")
	assert.Equal(t, []string{"json", "yaml"}, values)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
