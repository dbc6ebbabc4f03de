// Package commands implements the avdecc-log CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "avdecc-log",
	Short: "AVDECC protocol log analyzer",
	Long: `avdecc-log reads the CBOR protocol logs written by avdecc-sim and
avdecc-replay and prints, exports, filters or summarizes them.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns the root command for tests.
func RootCmd() *cobra.Command {
	return rootCmd
}

var (
	viewOpts   FilterOptions
	exportFmt  string
	exportOut  string
	filterOpts FilterOptions
)

var viewCmd = &cobra.Command{
	Use:   "view <file.alog|->",
	Short: "View log file in human-readable format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := viewOpts.Filter()
		if err != nil {
			return err
		}
		return RunView(args[0], filter, cmd.OutOrStdout())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.alog>",
	Short: "Export log file to JSONL or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunExport(args[0], exportFmt, exportOut, cmd.OutOrStdout())
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter <file.alog>",
	Short: "Filter log file and write matching events to a new file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := RunFilter(args[0], filterOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d events to %s\n", n, filterOpts.Output)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <file.alog>",
	Short: "Show statistics about the log file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStats(args[0], cmd.OutOrStdout())
	},
}

func addSelectionFlags(cmd *cobra.Command, o *FilterOptions) {
	f := cmd.Flags()
	f.StringVar(&o.Layer, "layer", "", "filter by layer (frame, message, engine)")
	f.StringVar(&o.Direction, "direction", "", "filter by direction (in, out)")
	f.StringVar(&o.Category, "category", "", "filter by category (message, timeout, state, error)")
	f.StringVar(&o.Protocol, "protocol", "", "filter messages by protocol (aem, aa, acmp)")
	f.StringVar(&o.Role, "role", "", "filter by local role (entity, controller, talker, listener)")
	f.StringVar(&o.Name, "name", "", "filter messages by name, e.g. ACQUIRE_ENTITY")
}

func init() {
	addSelectionFlags(viewCmd, &viewOpts)

	exportCmd.Flags().StringVar(&exportFmt, "format", "jsonl", "output format (jsonl, csv)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")

	addSelectionFlags(filterCmd, &filterOpts)
	ff := filterCmd.Flags()
	ff.StringVarP(&filterOpts.Output, "output", "o", "", "output file")
	ff.StringVar(&filterOpts.SessionID, "session-id", "", "filter by session id")
	ff.StringVar(&filterOpts.EntityID, "entity-id", "", "filter by local entity id")
	ff.StringVar(&filterOpts.TimeStart, "time-start", "", "filter by start time (RFC3339)")
	ff.StringVar(&filterOpts.TimeEnd, "time-end", "", "filter by end time (RFC3339)")
	_ = filterCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(viewCmd, exportCmd, filterCmd, statsCmd)
}
