package main

import (
	"errors"
	"fmt"

	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/logging"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/spf13/cobra"
)

// errLinesFailed marks a run where at least one line was reported as failed.
var errLinesFailed = errors.New("transmissions failed")

type rootOptions struct {
	configPath    string
	output        string
	workers       int
	maxDepth      int
	strictPadding bool
	logLevel      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "pktctl",
		Short:         "Decode and evaluate hex-encoded packet transmissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			observability.InitLogger(appName(cmd))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file")
	flags.StringVarP(&opts.output, "output", "o", config.OutputText, "output format: text|json|yaml")
	flags.IntVarP(&opts.workers, "workers", "w", config.Default().Workers, "worker goroutines for multi-line input")
	flags.IntVar(&opts.maxDepth, "max-depth", config.Default().MaxDepth, "operator nesting limit, 0 disables")
	flags.BoolVar(&opts.strictPadding, "strict-padding", false, "reject set bits after the outermost packet")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override")

	root.AddCommand(
		newRunCmd(opts),
		newInspectCmd(opts),
		newServeCmd(opts),
		newConfigCmd(),
	)
	return root
}

// load resolves the effective config: defaults, then the config file, then
// any flag set on the command line.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if flags.Changed("strict-padding") {
		cfg.StrictPadding = o.strictPadding
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid options: %w", err)
	}
	logging.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// appName is the log tag for cmd: "pktctl" for the root, "pktctl-<sub>"
// for the top-level subcommand that was run.
func appName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	if !cmd.HasParent() {
		return cmd.Name()
	}
	return cmd.Root().Name() + "-" + cmd.Name()
}
