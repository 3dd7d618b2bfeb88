package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/traylingo/traylingo/pkg/config"
)

func newSetupCmd() *cobra.Command {
	var (
		configPath string
		remove     bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the API key in the encrypted key file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			sf := secretFile(cfg)

			if remove {
				if err := sf.Delete(); err != nil {
					return err
				}
				fmt.Println("Stored API key removed.")
				return nil
			}

			fmt.Print("API key: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			key := strings.TrimSpace(string(raw))
			if key == "" {
				return fmt.Errorf("empty key")
			}

			if err := sf.Set(key); err != nil {
				return err
			}
			fmt.Println("API key stored.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&remove, "remove", false, "delete the stored key")
	return cmd
}
