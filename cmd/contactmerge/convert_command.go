package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactmerge/internal/contactio"
	"contactmerge/internal/logging"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var inputFile, inputFormat, outputFile, outputFormat string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert contacts between CSV and vCard without deduplicating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := contactio.Resolve(outputFormat, outputFile)
			if err != nil {
				return fmt.Errorf("output format: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, logger, _, err := ctx.startRun(cmd)
			if err != nil {
				return err
			}

			set, err := readContacts(inputFile, inputFormat)
			if err != nil {
				return err
			}
			if err := writeContacts(outputFile, format, set.Records, set.Fields, cfg.Output.Lock); err != nil {
				return err
			}
			logger.Info("conversion complete",
				logging.String("input", inputFile),
				logging.String("output", outputFile),
				logging.Int("contacts", set.Len()),
			)
			printExported(cmd.OutOrStdout(), set.Len(), format, outputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input-file", "", "Path to the input file (CSV or vCard)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: csv or vcf (default: from extension)")
	cmd.Flags().StringVar(&outputFile, "output-file", "", "Path to the output file")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "Output format: csv or vcf (default: from extension)")
	_ = cmd.MarkFlagRequired("input-file")
	_ = cmd.MarkFlagRequired("output-file")
	return cmd
}
