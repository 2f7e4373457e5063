package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/application/services"
	"fyrxlab.net/solvermotd/internal/infrastructure/permissions"
	"fyrxlab.net/solvermotd/internal/infrastructure/terminal"
)

// NewPluginCommand creates the smotd command, which runs the plugin's own
// command as the console.
func NewPluginCommand(container *CLIContainer) *cobra.Command {
	var (
		grants []string
		ansi   bool
	)

	cmd := &cobra.Command{
		Use:   services.CommandLabel + " [args...]",
		Short: "Run the /" + services.CommandLabel + " plugin command as the console",
		Long: `Dispatch the plugin's /smotd command with the given arguments and print the
messages it sends back.

The console holds only the permissions passed with --grant. Grants may be
exact (solvermotd.reload), prefix wildcards (solvermotd.*) or *.

Examples:
  solvermotd smotd help
  solvermotd smotd reload
  solvermotd smotd reload --grant solvermotd.reload`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Plugin.Enable()
			defer container.Plugin.Disable()

			var out io.Writer = cmd.OutOrStdout()
			if ansi {
				out = &renderingWriter{w: out, r: terminal.NewRenderer(out)}
			}
			sender := permissions.NewConsoleSender("CONSOLE", out, grants...)

			if !container.Plugin.HandleCommand(sender, services.CommandLabel, args) {
				return fmt.Errorf("command /%s was not handled", services.CommandLabel)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&grants, "grant", nil, "Permission held by the console (repeatable)")
	cmd.Flags().BoolVar(&ansi, "ansi", false, "Render colour codes as ANSI")

	return cmd
}

// renderingWriter renders each write through a terminal renderer.
type renderingWriter struct {
	w io.Writer
	r *terminal.Renderer
}

func (rw *renderingWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(rw.w, rw.r.Render(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
