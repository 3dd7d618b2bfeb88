package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/cache"
	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/diag"
	"github.com/traylingo/traylingo/pkg/models"
	"github.com/traylingo/traylingo/pkg/store"
	"github.com/traylingo/traylingo/pkg/translate"
)

// stdoutEmitter streams chunks to stdout as they arrive and keeps the
// usage summary for the footer.
type stdoutEmitter struct {
	out   io.Writer
	usage models.UsagePayload
}

func (e *stdoutEmitter) Chunk(sessionID, text string) {
	fmt.Fprint(e.out, text)
}

func (e *stdoutEmitter) Usage(usage models.UsagePayload) {
	e.usage = usage
}

func (e *stdoutEmitter) Done(sessionID string) {
	fmt.Fprintln(e.out)
}

func newTranslateCmd() *cobra.Command {
	var (
		configPath string
		model      string
		showUsage  bool
		noStream   bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text between Japanese and English",
		Long:  "Translate the given text, or stdin when no argument is provided.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			text := ""
			if len(args) == 1 {
				text = args[0]
			} else {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(raw))
			}
			if text == "" {
				return fmt.Errorf("nothing to translate")
			}

			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			c := cache.New(st, cfg.Cache)
			d := diag.New(st, cfg.Telemetry.Enabled)
			tr := translate.New(cfg, c, d, nil, secretProvider(cfg))

			em := &stdoutEmitter{out: cmd.OutOrStdout()}
			err = tr.Translate(context.Background(), translate.Request{
				Text:      text,
				SessionID: uuid.NewString(),
				Model:     model,
				Stream:    !noStream,
			}, em)
			if err != nil {
				return err
			}

			if showUsage {
				fmt.Fprintf(cmd.ErrOrStderr(), "tokens: %d in / %d out, cost: $%.6f, cached: %v\n",
					em.usage.InputTokens, em.usage.OutputTokens, em.usage.EstimatedCost, em.usage.Cached)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to use (default from config)")
	cmd.Flags().BoolVar(&showUsage, "usage", false, "print token usage and cost to stderr")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "request a single complete response instead of streaming")
	return cmd
}
