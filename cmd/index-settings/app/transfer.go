package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
	"github.com/stacklok/index-settings-sync/internal/logger"
)

// direction is one of the two transfer commands
type direction struct {
	name     string
	download bool
	run      func(c *syncapp.Components) func(ctx context.Context, index string) error
}

var (
	downloadDirection = direction{
		name:     "download",
		download: true,
		run: func(c *syncapp.Components) func(ctx context.Context, index string) error {
			return c.Synchronizer.Download
		},
	}
	uploadDirection = direction{
		name: "upload",
		run: func(c *syncapp.Components) func(ctx context.Context, index string) error {
			return c.Synchronizer.Upload
		},
	}
)

func newDownloadCmd(opts *rootOptions) *cobra.Command {
	return newTransferCmd(opts, downloadDirection,
		"Write the remote settings to the local settings files",
		`Download the settings of each index from the search service and write them
to the local settings file, creating it when missing. The sync record is updated
so that later analyses report in-sync.`)
}

func newUploadCmd(opts *rootOptions) *cobra.Command {
	return newTransferCmd(opts, uploadDirection,
		"Push the local settings files to the remote indices",
		`Upload the local settings of each index, merged over the search service
defaults, replacing the remote settings. The sync record is updated so that
later analyses report in-sync.`)
}

func newTransferCmd(opts *rootOptions, dir direction, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   dir.name + " <index>...",
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *syncapp.Components) error {
				return transfer(ctx, c, cmd.OutOrStdout(), dir, args, force)
			})
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite indices whose local and remote settings both changed")
	return cmd
}

// transfer moves the settings of every index in dir. Diverged indices are
// refused unless force is set or there is no local file to overwrite; the remaining indices are still processed.
func transfer(ctx context.Context, c *syncapp.Components, out io.Writer, dir direction, indices []string, force bool) error {
	run := dir.run(c)
	var refused []string

	for _, index := range indices {
		st, err := c.Synchronizer.Analyse(ctx, index)
		if err != nil {
			return fmt.Errorf("failed to analyse index %s: %w", index, err)
		}
		if st.Conflicts(dir.download) && !force {
			logger.Warnf("Skipping %s of index %s: %s", dir.name, index, st.String())
			refused = append(refused, index)
			continue
		}

		if err := run(ctx, index); err != nil {
			return fmt.Errorf("failed to %s index %s: %w", dir.name, index, err)
		}
		if _, err := fmt.Fprintf(out, "%s: %s done (was %s)\n", index, dir.name, st.State); err != nil {
			return err
		}
	}

	if len(refused) > 0 {
		return fmt.Errorf("refused to %s diverged indices %v, rerun with --force to overwrite", dir.name, refused)
	}
	return nil
}
