package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "traylingo",
		Short:   "traylingo — Japanese/English translation daemon and CLI",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newTranslateCmd(),
		newCacheCmd(),
		newErrorsCmd(),
		newUsageCmd(),
		newModelsCmd(),
		newSetupCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
