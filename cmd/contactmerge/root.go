package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "contactmerge",
		Short: "Find, link, and merge duplicate contacts in CSV and vCard files",
		Long: `contactmerge compares every pair of contacts on phone, email, and name,
groups contacts whose similarity reaches the threshold, and either tags each
group with a shared match id (link mode) or folds it into one contact (merge
mode).`,
		Example: `  contactmerge dedupe --input-file contacts.vcf --output-file linked.csv
  contactmerge dedupe --input-file contacts.csv --merge --dry-run
  contactmerge convert --input-file contacts.csv --output-file contacts.vcf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(
		newDedupeCommand(ctx),
		newConvertCommand(ctx),
		newConfigCommand(ctx),
	)

	return rootCmd
}
