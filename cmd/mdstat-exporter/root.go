package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mdstat-exporter/internal/config"
	"mdstat-exporter/internal/logging"
)

const appName = "mdstat-exporter"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	logLevel   string
	mdstatPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Linux software RAID (md) status exporter",
		Long: `mdstat-exporter reads the kernel's md status file and publishes it as
Prometheus metrics, JSON health reports, MCP tools and command line tables.

Configuration is read from defaults, then the --config YAML file, then
environment variables, then command line flags.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.mdstatPath, "mdstat-path", config.Default().MDStatPath, "path of the md status file")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newArraysCmd(opts))
	cmd.AddCommand(newDrivesCmd(opts))
	cmd.AddCommand(newPersonalitiesCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load builds the configuration for cmd and installs the default logger.
// Flags win over the file and environment only when set explicitly.
func (o *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("mdstat-path") {
		cfg.MDStatPath = o.mdstatPath
	}

	logging.SetDefaultStructuredLoggerWithLevel(appName, version, cfg.LogLevel)
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, versionString())
		},
	}
}
