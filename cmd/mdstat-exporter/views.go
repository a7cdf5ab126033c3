package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mdstat-exporter/internal/mdstat"
	"mdstat-exporter/internal/output"
)

// viewOptions are the flags of the arrays, drives and personalities commands.
type viewOptions struct {
	format    string
	noHeaders bool
}

func (v *viewOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&v.format, "format", "o", string(output.FormatTable), "output format (table, yaml, json)")
	cmd.Flags().BoolVar(&v.noHeaders, "no-headers", false, "omit the header row in table output")
}

// render reads the md status file once and prints the chosen view.
func (v *viewOptions) render(cmd *cobra.Command, g *globalOptions, view func(output.Formatter, mdstat.Snapshot, mdstat.Sink) (string, error)) error {
	if err := output.ValidateFormat(v.format); err != nil {
		return err
	}

	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.Options{
		Format:    output.Format(v.format),
		NoHeaders: v.noHeaders,
	})
	if err != nil {
		return err
	}

	sink := mdstat.LogSink{Logger: slog.Default()}
	snap, err := mdstat.NewQuerier(mdstat.NewFileSource(cfg.MDStatPath), sink).Snapshot(ctxOf(cmd))
	if err != nil {
		return fmt.Errorf("failed to read md status: %w", err)
	}

	out, err := view(formatter, snap, sink)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func newArraysCmd(g *globalOptions) *cobra.Command {
	v := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "arrays",
		Short: "List md arrays",
		Long: `List every md array with its status, level, healthy drive ratio, size,
recovery/resync/check progress and bitmap settings.

Example:
  mdstat-exporter arrays -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.render(cmd, g, func(f output.Formatter, s mdstat.Snapshot, sink mdstat.Sink) (string, error) {
				return f.FormatArrays(mdstat.ArrayRows(s, sink))
			})
		},
	}
	v.register(cmd)
	return cmd
}

func newDrivesCmd(g *globalOptions) *cobra.Command {
	v := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "drives",
		Short: "List md member drives",
		Long: `List the member drives of every md array. STATUS is 1 when the drive is up
and 0 when it is down; it is empty when the slot cannot be resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.render(cmd, g, func(f output.Formatter, s mdstat.Snapshot, sink mdstat.Sink) (string, error) {
				return f.FormatDrives(mdstat.DriveRows(s, sink))
			})
		},
	}
	v.register(cmd)
	return cmd
}

func newPersonalitiesCmd(g *globalOptions) *cobra.Command {
	v := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "personalities",
		Short: "List RAID personalities registered with the kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.render(cmd, g, func(f output.Formatter, s mdstat.Snapshot, sink mdstat.Sink) (string, error) {
				return f.FormatPersonalities(mdstat.PersonalityRows(s, sink))
			})
		},
	}
	v.register(cmd)
	return cmd
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
