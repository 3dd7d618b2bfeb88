package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/tracker"
)

func newUsageCmd() *cobra.Command {
	var (
		configPath string
		recent     bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show translation usage and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			tk, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tk.Close() }()

			ctx := context.Background()

			if recent {
				records, err := tk.Recent(ctx, limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No usage data found.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tMODEL\tINPUT\tOUTPUT\tCOST\tCACHED")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t$%.6f\t%v\n",
						r.CreatedAt.Format("2006-01-02T15:04:05"), r.Model,
						r.InputTokens, r.OutputTokens, r.CostUSD, r.Cached)
				}
				return w.Flush()
			}

			summaries, err := tk.Summary(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No usage data found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tREQUESTS\tCACHE HITS\tINPUT\tOUTPUT\tCOST")
			var total float64
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t$%.6f\n",
					s.Model, s.RequestCount, s.CacheHits, s.InputTokens, s.OutputTokens, s.CostUSD)
				total += s.CostUSD
			}
			if err := w.Flush(); err != nil {
				return err
			}

			monthStart := beginningOfMonth()
			monthCost, err := tk.TotalCost(ctx, monthStart)
			if err != nil {
				return err
			}
			fmt.Printf("\nTotal: $%.6f (this month: $%.6f)\n", total, monthCost)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&recent, "recent", false, "list individual translations instead of the summary")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of recent translations to show")
	return cmd
}

func beginningOfMonth() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
