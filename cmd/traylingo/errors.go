package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/diag"
	"github.com/traylingo/traylingo/pkg/store"
)

func newErrorsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Inspect recorded translation errors",
	}

	openRecorder := func() (*diag.Recorder, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return diag.New(st, cfg.Telemetry.Enabled), nil
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the error history, newest last",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRecorder()
			if err != nil {
				return err
			}
			history := r.History()
			if len(history) == 0 {
				fmt.Println("No errors recorded.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTYPE\tMODEL\tINPUT LEN\tMESSAGE")
			for _, rec := range history {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					time.Unix(rec.Timestamp, 0).UTC().Format("2006-01-02T15:04:05"),
					rec.Kind, rec.Model, rec.InputLength, rec.Message)
			}
			return w.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the error history",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRecorder()
			if err != nil {
				return err
			}
			if err := r.Clear(); err != nil {
				return err
			}
			fmt.Println("Error history cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}
