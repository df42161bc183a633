package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/settings"
)

var stateStyles = map[settings.State]lipgloss.Style{
	settings.StateInSync:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	settings.StateRemoteAhead: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	settings.StateLocalAhead:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	settings.StateDiverged:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [index...]",
		Short: "Show which side changed since the last sync",
		Long: `Analyse the drift between the local settings files and the remote indices.

Without arguments, every watched index and every index synced before is analysed.
Analysing never modifies anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			showDiff, err := cmd.Flags().GetBool("diff")
			if err != nil {
				return fmt.Errorf("failed to get diff flag: %w", err)
			}
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *syncapp.Components) error {
				return printStatus(ctx, c, cmd.OutOrStdout(), args, showDiff)
			})
		},
	}
	cmd.Flags().Bool("diff", false, "Print the settings diff of indices that are not in sync")
	return cmd
}

// printStatus analyses indices, or the known ones when none is given, and
// renders the result as a table
func printStatus(ctx context.Context, c *syncapp.Components, out io.Writer, indices []string, showDiff bool) error {
	if len(indices) == 0 {
		known, err := knownIndices(ctx, c)
		if err != nil {
			return err
		}
		indices = known
	}
	if len(indices) == 0 {
		_, err := fmt.Fprintln(out, "No index to analyse. Pass index names or list them under watch.indices.")
		return err
	}

	statuses := make([]*settings.Status, 0, len(indices))
	for _, index := range indices {
		st, err := c.Synchronizer.Analyse(ctx, index)
		if err != nil {
			return fmt.Errorf("failed to analyse index %s: %w", index, err)
		}
		statuses = append(statuses, st)
	}

	if err := renderStatusTable(out, statuses); err != nil {
		return err
	}

	if !showDiff {
		return nil
	}
	for _, st := range statuses {
		if st.InSync() {
			continue
		}
		if err := printDiff(ctx, c, out, st.Index); err != nil {
			return err
		}
	}
	return nil
}

// knownIndices merges the watched indices with those synced before
func knownIndices(ctx context.Context, c *syncapp.Components) ([]string, error) {
	seen := map[string]struct{}{}
	for _, index := range c.Config.GetWatchedIndices() {
		seen[index] = struct{}{}
	}

	records, err := c.UserData.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list synced indices: %w", err)
	}
	for _, record := range records {
		seen[record.Index] = struct{}{}
	}

	indices := make([]string, 0, len(seen))
	for index := range seen {
		indices = append(indices, index)
	}
	sort.Strings(indices)
	logger.Debugf("Analysing %d known indices", len(indices))
	return indices, nil
}

func renderStatusTable(out io.Writer, statuses []*settings.Status) error {
	table := tablewriter.NewWriter(out)
	table.Header("Index", "State", "Local", "Remote", "Changed keys", "Summary")
	for _, st := range statuses {
		local := st.LocalHash.Short()
		if !st.LocalExists {
			local += " (defaults)"
		}
		if err := table.Append(
			st.Index,
			styleState(st.State),
			local,
			st.RemoteHash.Short(),
			strings.Join(st.ChangedKeys, ", "),
			st.String(),
		); err != nil {
			return fmt.Errorf("failed to render status of index %s: %w", st.Index, err)
		}
	}
	return table.Render()
}

func styleState(state settings.State) string {
	style, ok := stateStyles[state]
	if !ok {
		return string(state)
	}
	return style.Render(string(state))
}

// printDiff prints the changes an upload would apply to the remote index
func printDiff(ctx context.Context, c *syncapp.Components, out io.Writer, index string) error {
	remote, err := c.Remote.Find(ctx, index)
	if err != nil {
		return err
	}
	local, err := c.Local.Find(ctx, index)
	if err != nil {
		return err
	}

	diff, err := settings.Diff(remote, local)
	if err != nil {
		return fmt.Errorf("failed to diff settings of index %s: %w", index, err)
	}

	_, err = fmt.Fprintf(out, "\n--- remote %s\n+++ local %s\n%s", index, index, diff)
	return err
}
