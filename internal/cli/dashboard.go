package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastygo/aiops/internal/config"
	"github.com/fastygo/aiops/internal/infrastructure/incidents"
	"github.com/fastygo/aiops/repository/memory"
	"github.com/fastygo/aiops/usecase/dashboard"
)

type dashboardOptions struct {
	url     string
	seed    uint64
	timeout time.Duration
	offline bool
	asJSON  bool
}

func newDashboardCmd() *cobra.Command {
	opts := &dashboardOptions{}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard headline metrics",
		Long: `Compute the four dashboard KPIs the way the console does: from the
incidents feed when it answers, otherwise from the seeded mock store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", "", "incidents feed URL (default INCIDENTS_URL)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "mock store seed (default MOCK_SEED)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "feed request timeout")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "skip the feed and use the mock store only")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the metrics as JSON")
	return cmd
}

func runDashboard(cmd *cobra.Command, opts *dashboardOptions) error {
	if opts.url == "" || opts.seed == 0 {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if opts.url == "" {
			opts.url = cfg.Incidents.URL
		}
		if opts.seed == 0 {
			opts.seed = cfg.Mock.Seed
		}
	}

	var feed dashboard.FeedFetcher
	if !opts.offline {
		feed = incidents.NewClient(opts.url, nil, nil)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	view, err := dashboard.New(memory.NewOpsStore(opts.seed, time.Now().UTC()), feed, nil).Build(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Source  string            `json:"source"`
			Error   string            `json:"error,omitempty"`
			Metrics dashboard.Metrics `json:"metrics"`
		}{view.Source, view.Error, view.Metrics})
	}

	fmt.Fprintf(out, "source: %s\n", view.Source)
	if view.Error != "" {
		fmt.Fprintf(out, "feed error: %s\n", view.Error)
	}
	w := table(out)
	row(w, "KPI", "VALUE", "DELTA")
	for _, kpi := range view.KPIs {
		row(w, kpi.Label, kpi.Value, kpi.Delta)
	}
	return w.Flush()
}
