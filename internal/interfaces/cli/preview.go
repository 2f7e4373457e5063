package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/application/services"
	"fyrxlab.net/solvermotd/internal/infrastructure/terminal"
)

// NewPreviewCommand creates the preview command
func NewPreviewCommand(container *CLIContainer) *cobra.Command {
	var altScreen bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactive preview of the server list banner",
		Long: `Show the banner as a client would see it. Edit config.yml in another window
and press r to reload it.

Controls:
  r      reload config.yml and messages.yml
  q      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Plugin.Enable()
			defer container.Plugin.Disable()

			out := cmd.OutOrStdout()
			model := newPreviewModel(container.Plugin, terminal.NewRenderer(out), container.Options.DataDir)

			opts := []tea.ProgramOption{
				tea.WithContext(cmd.Context()),
				tea.WithOutput(out),
				tea.WithInput(cmd.InOrStdin()),
			}
			if altScreen {
				opts = append(opts, tea.WithAltScreen())
			}

			if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
				if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
					return nil
				}
				return fmt.Errorf("preview failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "Use the terminal's alternate screen")

	return cmd
}

// previewModel holds the state for the Bubble Tea preview
type previewModel struct {
	plugin     *services.PluginService
	renderer   *terminal.Renderer
	dataDir    string
	motd       string
	warnings   []string
	reloads    int
	lastReload time.Time
	width      int
}

// reloadedMsg carries the outcome of a reload
type reloadedMsg struct {
	motd     string
	warnings []string
	at       time.Time
}

func newPreviewModel(plugin *services.PluginService, renderer *terminal.Renderer, dataDir string) previewModel {
	return previewModel{
		plugin:     plugin,
		renderer:   renderer,
		dataDir:    dataDir,
		motd:       plugin.ReplyText(),
		lastReload: time.Now(),
	}
}

// Init implements the Bubble Tea init method
func (m previewModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.reloadCmd()
		}

	case reloadedMsg:
		m.motd = msg.motd
		m.warnings = msg.warnings
		m.reloads++
		m.lastReload = msg.at
		return m, nil
	}

	return m, nil
}

func (m previewModel) reloadCmd() tea.Cmd {
	plugin := m.plugin
	return func() tea.Msg {
		var warnings []string
		for _, r := range plugin.Reload() {
			for _, w := range r.Warnings {
				warnings = append(warnings, fmt.Sprintf("%s: %v", r.Name, w))
			}
		}
		return reloadedMsg{motd: plugin.ReplyText(), warnings: warnings, at: time.Now()}
	}
}

// View implements the Bubble Tea view method
func (m previewModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("SolverMOTD preview")

	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(m.renderer.Render(m.motd))

	status := fmt.Sprintf("%s  reloads: %d  last: %s", m.dataDir, m.reloads, m.lastReload.Format("15:04:05"))

	sections := []string{title, banner, lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(status)}
	if len(m.warnings) > 0 {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		sections = append(sections, warn.Render("warnings:\n  "+strings.Join(m.warnings, "\n  ")))
	}
	sections = append(sections, lipgloss.NewStyle().Faint(true).Render("r reload • q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}
