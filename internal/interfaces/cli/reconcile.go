package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/application/services"
	"fyrxlab.net/solvermotd/internal/core/document"
)

// NewReconcileCommand creates the reconcile command
func NewReconcileCommand(container *CLIContainer) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "reconcile [document...]",
		Short: "Heal managed documents from the bundled defaults",
		Long: `Reconcile regenerates missing documents from the bundled templates, adds
missing keys and rewrites each file with its comment header preserved.

Documents default to all managed documents (config, messages).

--set writes a value after the defaults are merged. The first path segment
names the document; true and false are stored as booleans, anything else
as a string.

Examples:
  solvermotd reconcile
  solvermotd reconcile config
  solvermotd reconcile --set config.motd.line1='&aWelcome' --set config.use_papi=false
  solvermotd --header-mode leading reconcile messages`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := resolveDocuments(container, args)
			if err != nil {
				return err
			}
			edits, err := parseEdits(names, sets)
			if err != nil {
				return err
			}

			var setErrs []error
			results := container.Plugin.ReconcileDocuments(func(name string, doc *document.Document) {
				for _, e := range edits[name] {
					if err := doc.Set(e.path, e.value); err != nil {
						setErrs = append(setErrs, err)
					}
				}
			}, names...)
			printResults(cmd.OutOrStdout(), results)
			if len(setErrs) > 0 {
				return fmt.Errorf("failed to apply --set: %v", setErrs[0])
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set document.path=value after merging defaults (repeatable)")

	return cmd
}

type edit struct {
	path  string
	value any
}

// parseEdits groups --set assignments by document. Every target must be one
// of the documents being reconciled.
func parseEdits(names, sets []string) (map[string][]edit, error) {
	edits := make(map[string][]edit)
	for _, set := range sets {
		target, raw, ok := strings.Cut(set, "=")
		name, path, hasPath := strings.Cut(target, ".")
		if !ok || !hasPath || name == "" || path == "" {
			return nil, fmt.Errorf("invalid --set %q (want document.path=value)", set)
		}
		if !slices.Contains(names, name) {
			return nil, fmt.Errorf("--set %q targets document %q, which is not being reconciled", set, name)
		}
		var value any = raw
		switch raw {
		case "true":
			value = true
		case "false":
			value = false
		}
		edits[name] = append(edits[name], edit{path: path, value: value})
	}
	return edits, nil
}

func resolveDocuments(container *CLIContainer, args []string) ([]string, error) {
	if len(args) == 0 {
		var names []string
		for _, d := range container.Reconciler.Documents() {
			names = append(names, d.Name)
		}
		return names, nil
	}
	for _, name := range args {
		if _, ok := container.Reconciler.Document(name); !ok {
			return nil, fmt.Errorf("unknown document %q", name)
		}
	}
	return args, nil
}

func printResults(w io.Writer, results []services.ReconcileResult) {
	for _, r := range results {
		state := "reconciled"
		switch {
		case r.Regenerated:
			state = "regenerated"
		case !r.Persisted:
			state = "not saved"
		}
		fmt.Fprintf(w, "%-9s %-11s %s (%d keys)\n", r.Name, state, r.Path, r.Document.Len())
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  warning: %v\n", warning)
		}
	}
}
