package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/infrastructure/terminal"
)

// PingFlags holds command-line flags for the ping command
type PingFlags struct {
	Address    string
	Online     int
	MaxPlayers int
	ANSI       bool
	Plain      bool
}

// NewPingCommand creates the ping command
func NewPingCommand(container *CLIContainer) *cobra.Command {
	flags := &PingFlags{}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Answer a simulated server list ping",
		Long: `Enable the plugin, raise one server list ping and print the banner it
replies with.

By default the banner is printed with section-sign codes as sent to clients.
Use --ansi to render the colours in the terminal or --plain to strip them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ANSI && flags.Plain {
				return fmt.Errorf("--ansi and --plain are mutually exclusive")
			}

			container.Plugin.Enable()
			defer container.Plugin.Disable()

			ping := &ports.ServerPing{
				Address:    flags.Address,
				MOTD:       "A Minecraft Server",
				Online:     flags.Online,
				MaxPlayers: flags.MaxPlayers,
			}
			container.Plugin.OnServerPing(ping)

			out := cmd.OutOrStdout()
			switch {
			case flags.ANSI:
				fmt.Fprintln(out, terminal.NewRenderer(out).Render(ping.MOTD))
			case flags.Plain:
				fmt.Fprintln(out, terminal.Plain(ping.MOTD))
			default:
				fmt.Fprintln(out, ping.MOTD)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Address, "address", "127.0.0.1", "Address of the pinging client")
	cmd.Flags().IntVar(&flags.Online, "online", 0, "Online player count reported by the host")
	cmd.Flags().IntVar(&flags.MaxPlayers, "max-players", 20, "Player limit reported by the host")
	cmd.Flags().BoolVar(&flags.ANSI, "ansi", false, "Render colour codes as ANSI")
	cmd.Flags().BoolVar(&flags.Plain, "plain", false, "Strip colour codes")

	return cmd
}
