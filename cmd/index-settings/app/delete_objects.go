package app

import (
	"context"

	"github.com/spf13/cobra"

	syncapp "github.com/stacklok/index-settings-sync/internal/app"
	"github.com/stacklok/index-settings-sync/internal/jobs"
	"github.com/stacklok/index-settings-sync/internal/logger"
)

func newDeleteObjectsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-objects <index> <type::id>...",
		Short: "Remove every record tagged with the given object ids",
		Long: `Delete all records of an index tagged with one of the given object ids.
Object ids have the form <type>::<id>, for example "post::42".
With --synchronous the command waits until the deletion is applied.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := parseDeleteJob(args[0], args[1:])
			if err != nil {
				return err
			}

			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *syncapp.Components) error {
				return deleteObjects(ctx, c, job)
			})
		},
	}
}

func parseDeleteJob(index string, ids []string) (jobs.DeleteJob, error) {
	job := jobs.DeleteJob{Index: index}
	for _, id := range ids {
		ref, err := jobs.ParseObjectID(id)
		if err != nil {
			return jobs.DeleteJob{}, err
		}
		job.Objects = append(job.Objects, ref)
	}
	return job, nil
}

func deleteObjects(ctx context.Context, c *syncapp.Components, job jobs.DeleteJob) error {
	if err := job.Handle(ctx, c.Client, c.Config.Synchronous); err != nil {
		return err
	}
	logger.Infof("Deleted %d object(s) from index %s", len(job.Objects), job.Index)
	return nil
}
