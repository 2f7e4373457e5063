package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/infrastructure/watcher"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(container *CLIContainer) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload automatically when a managed document is edited",
		Long: `Enable the plugin and watch the data directory. Every edit to config.yml or
messages.yml triggers a reload, and the new banner is printed. Runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			container.Plugin.Enable()
			defer container.Plugin.Disable()
			printBanner(out, container.Plugin.ReplyText())

			w, err := newDocumentWatcher(container, debounce, func(files []string) {
				fmt.Fprintf(out, "reloaded after edit to %v\n", files)
				container.Plugin.Reload()
				printBanner(out, container.Plugin.ReplyText())
			})
			if err != nil {
				return err
			}
			if err := w.Start(cmd.Context()); err != nil {
				return err
			}
			defer w.Stop()

			select {
			case <-cmd.Context().Done():
			case <-w.Done():
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before an edit is reloaded")

	return cmd
}

func newDocumentWatcher(container *CLIContainer, debounce time.Duration, onChange watcher.ChangeFunc) (*watcher.Watcher, error) {
	var files []string
	for _, d := range container.Reconciler.Documents() {
		files = append(files, filepath.Base(d.Path))
	}
	return watcher.New(watcher.Options{
		Dir:      container.Options.DataDir,
		Files:    files,
		Debounce: debounce,
		OnChange: onChange,
	}, container.Logger)
}

func printBanner(w io.Writer, motd string) {
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w, motd)
}
