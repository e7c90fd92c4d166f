package main

import (
	"fmt"
	"io"
	"os"

	"github.com/danmuck/pktdecode/internal/pipeline"
	"github.com/danmuck/pktdecode/internal/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Decode every line of a file (or stdin) and print both answers per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(cfg.Output)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			source := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				source = args[0]
			}

			inputs, err := pipeline.ReadInputs(in)
			if err != nil {
				return err
			}
			log.Debug().Str("source", source).Int("lines", len(inputs)).Int("workers", cfg.Workers).Msg("decoding input")

			proc := pipeline.New(pipeline.Config{Workers: cfg.Workers, Options: cfg.DecodeOptions()})
			results, err := proc.Batch(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}

			if failed := pipeline.Failed(results); failed > 0 {
				return fmt.Errorf("%w: %d of %d", errLinesFailed, failed, len(results))
			}
			return nil
		},
	}
}
