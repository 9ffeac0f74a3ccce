// Package completion installs and removes shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Installable lists the shells Install can place a script for.
var Installable = []string{ShellBash, ShellZsh, ShellFish}

// Generate writes the completion script of root for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return unsupported(shell)
}

// Path returns where the completion script for shell is installed. A
// non-empty brewPrefix selects the Homebrew locations.
func Path(shell, name, home, brewPrefix string) (string, error) {
	if brewPrefix != "" {
		switch shell {
		case ShellBash:
			return filepath.Join(brewPrefix, "etc", "bash_completion.d", name), nil
		case ShellZsh:
			return filepath.Join(brewPrefix, "share", "zsh", "site-functions", "_"+name), nil
		case ShellFish:
			return filepath.Join(brewPrefix, "share", "fish", "vendor_completions.d", name+".fish"), nil
		}
		return "", unsupported(shell)
	}
	switch shell {
	case ShellBash:
		return filepath.Join(home, ".bash_completion.d", name), nil
	case ShellZsh:
		return filepath.Join(home, ".zsh", "completions", "_"+name), nil
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "completions", name+".fish"), nil
	}
	return "", unsupported(shell)
}

// DefaultPath resolves Path from the environment.
func DefaultPath(shell, name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("completion", "cannot determine home directory", err)
	}
	return Path(shell, name, home, brewPrefix())
}

// Install writes the completion script of root for shell to path.
func Install(root *cobra.Command, shell, path string, w alerts.Writer) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := Generate(root, shell, file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return w.WriteAlert(alerts.NewSuccess(fmt.Sprintf("Installed %s completions to %s", shell, path)).
		WithDetails("Start a new shell session to enable them"))
}

// Uninstall removes the completion script at path if present.
func Uninstall(shell, path string, w alerts.Writer) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return w.WriteAlert(alerts.NewInfo(fmt.Sprintf("No %s completions found at %s", shell, path)))
	}
	if err := os.Remove(path); err != nil {
		return errors.WrapIO("remove", path, err)
	}
	return w.WriteAlert(alerts.NewSuccess(fmt.Sprintf("Removed %s completions from %s", shell, path)))
}

func brewPrefix() string {
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return prefix
	}
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(prefix, "bin", "brew")); err == nil {
			return prefix
		}
	}
	return ""
}

func unsupported(shell string) error {
	return errors.NewValidationError("shell", shell, "must be one of: bash, zsh, fish, powershell")
}
