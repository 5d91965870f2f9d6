package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/bsptile/internal/action"
	"github.com/1broseidon/bsptile/internal/ipc"
	"github.com/1broseidon/bsptile/internal/tui"
	"github.com/1broseidon/bsptile/internal/wm"
)

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action <name>",
		Short: "Run a tiling action in the daemon",
		Long: `Run a tiling action in the running daemon, for example:

  bsptile action focus-left
  bsptile action send-to-workspace-3

Run 'bsptile actions' for the full list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := action.Parse(args[0])
			if err != nil {
				return err
			}
			return ipc.NewClient().RunAction(a.String())
		},
	}
}

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List every action name",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, a := range action.All() {
				fmt.Fprintln(cmd.OutOrStdout(), a.String())
			}
		},
	}
}

func newStateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show monitors, workspaces and windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ipc.NewClient().GetState()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			fmt.Fprintln(out, renderState(snap))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the state as JSON")
	return cmd
}

func renderState(snap *wm.Snapshot) string {
	var rows [][]string
	for _, mon := range snap.Monitors {
		name := mon.Name
		if name == "" {
			name = strconv.Itoa(mon.ID)
		}
		if mon.ID == snap.FocusedMonitor {
			name += " *"
		}
		area := fmt.Sprintf("%dx%d+%d+%d", mon.Area.Width, mon.Area.Height, mon.Area.X, mon.Area.Y)
		for _, ws := range mon.Workspaces {
			wsLabel := strconv.Itoa(ws.Number)
			if ws.Number == mon.ActiveWorkspace {
				wsLabel += " (active)"
			}
			if ws.Monocle {
				wsLabel += " monocle"
			}
			rows = append(rows, []string{name, area, wsLabel, formatWindows(ws, snap)})
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("MONITOR", "AREA", "WORKSPACE", "WINDOWS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	summary := fmt.Sprintf("%d managed windows, hiding: %s", snap.Managed, snap.Hiding)
	return t.Render() + "\n" + summary
}

func formatWindows(ws wm.WorkspaceSnapshot, snap *wm.Snapshot) string {
	if len(ws.Windows) == 0 {
		return "-"
	}
	ids := make([]string, 0, len(ws.Windows))
	for _, id := range ws.Windows {
		s := fmt.Sprintf("0x%x", uint32(id))
		if id == snap.FocusedWindow {
			s = "[" + s + "]"
		}
		ids = append(ids, s)
	}
	return strings.Join(ids, " ")
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ipc.NewClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reloaded")
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon and restore hidden windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().Stop()
		},
	}
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"ping"},
		Short:   "Check whether the daemon is running",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().Ping()
			if err != nil {
				return fmt.Errorf("daemon is not running: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "running (pid %d, up %ds)\n", data.PID, data.UptimeSeconds)
			return nil
		},
	}
}

func newTUICmd() *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Live dashboard of the daemon state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(ipc.NewClient(), refresh)
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", tui.DefaultRefresh, "state polling interval")
	return cmd
}
