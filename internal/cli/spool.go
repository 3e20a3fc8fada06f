package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/aiops/internal/config"
	"github.com/fastygo/aiops/internal/infrastructure/buffer"
)

type spoolOptions struct {
	path      string
	bucket    string
	limit     int
	olderThan time.Duration
}

func newSpoolCmd() *cobra.Command {
	opts := &spoolOptions{}
	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Inspect or purge the offline audit spool",
		Long: `Show audit entries that are waiting for PostgreSQL in the local spool.
The server holds the spool open while it runs; stop it first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSpool(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.path, "path", "", "spool file (default BOLTDB_PATH)")
	cmd.Flags().StringVar(&opts.bucket, "bucket", "audit", "spool bucket")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "entries to show")
	cmd.Flags().DurationVar(&opts.olderThan, "purge-older-than", 0, "delete entries queued before now minus this duration")
	return cmd
}

func runSpool(cmd *cobra.Command, opts *spoolOptions) error {
	if opts.path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		opts.path = cfg.Buffer.Path
	}

	store, err := buffer.Open(opts.path, opts.bucket)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if opts.olderThan > 0 {
		purged, err := store.Purge(time.Now().Add(-opts.olderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "purged %d entries\n", purged)
	}

	size, err := store.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d entries queued\n", size)
	if size == 0 {
		return nil
	}

	items, err := store.Peek(opts.limit)
	if err != nil {
		return err
	}
	w := table(out)
	row(w, "ID", "KIND", "ATTEMPTS", "QUEUED")
	for _, item := range items {
		row(w, item.ID, item.Kind, item.Attempts, item.QueuedAt.Format(time.RFC3339))
	}
	return w.Flush()
}
