package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/cache"
	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/store"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the translation cache",
	}

	openCache := func() (*cache.Cache, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return cache.New(st, cfg.Cache), nil
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			stats := c.Stats()
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.EntryCount, stats.Hits, stats.Misses)
			return nil
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			if expiredOnly {
				n, err := c.PurgeExpired()
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d expired entries.\n", n)
				return nil
			}
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Println("All cache entries cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
