package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
)

func newSearchKeyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search-key <index>",
		Short: "Print a secured search-only key restricted to one index",
		Long: `Print a secured API key that can only search the given index and expires
after 25 hours. Generated keys are cached in the metadata store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *syncapp.Components) error {
				key, err := c.Keys.SearchKey(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to issue search key for index %s: %w", args[0], err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
				return err
			})
		},
	}
}
