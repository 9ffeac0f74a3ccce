// Package completion provides the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/internal/cmd/completion"
)

// AppContext defines what the completion command needs from the app.
type AppContext interface {
	UseColor() bool
}

// NewCommand creates the completion command. It replaces cobra's default
// completion command with one that can also install the scripts.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate or install shell completions",
		Long: `Completion prints the completion script for a shell to stdout, or installs
it to the shell's completion directory.

  source <(haccp completion bash)
  haccp completion install zsh`,
		ValidArgs:             []string{completion.ShellBash, completion.ShellZsh, completion.ShellFish, completion.ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return completion.Generate(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newInstallCommand(app), newUninstallCommand(app))
	return cmd
}

func newInstallCommand(app AppContext) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:       "install <bash|zsh|fish>",
		Short:     "Install the completion script for a shell",
		ValidArgs: completion.Installable,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := target(cmd, args[0], path)
			if err != nil {
				return err
			}
			w := alerts.NewWriterTo(cmd.ErrOrStderr(), app.UseColor())
			return completion.Install(cmd.Root(), args[0], target, w)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "install to this file instead of the shell's default location")
	return cmd
}

func newUninstallCommand(app AppContext) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:       "uninstall <bash|zsh|fish>",
		Short:     "Remove an installed completion script",
		ValidArgs: completion.Installable,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := target(cmd, args[0], path)
			if err != nil {
				return err
			}
			return completion.Uninstall(args[0], target, alerts.NewWriterTo(cmd.ErrOrStderr(), app.UseColor()))
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "remove this file instead of the shell's default location")
	return cmd
}

func target(cmd *cobra.Command, shell, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return completion.DefaultPath(shell, cmd.Root().Name())
}
