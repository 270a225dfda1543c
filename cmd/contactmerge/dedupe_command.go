package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"contactmerge/internal/config"
	"contactmerge/internal/contact"
	"contactmerge/internal/contactio"
	"contactmerge/internal/dedupe"
	"contactmerge/internal/fileutil"
	"contactmerge/internal/logging"
	"contactmerge/internal/report"
)

type dedupeFlags struct {
	inputFile    string
	inputFormat  string
	outputFile   string
	outputFormat string
	threshold    float64
	merge        bool
	dryRun       bool
	workers      int
	reportFormat string
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var flags dedupeFlags

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Link or merge duplicate contacts",
		Long: `Compare every pair of contacts by phone, email, and name and group those
scoring at or above the threshold.

Without --merge every contact is kept and duplicates are tagged with the
match and certainty columns. With --merge each group is folded into one
contact; add --dry-run to print the proposed merges without writing anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupe(cmd, ctx, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.inputFile, "input-file", "", "Path to the input file (CSV or vCard)")
	f.StringVar(&flags.inputFormat, "input-format", "", "Input format: csv or vcf (default: from extension)")
	f.StringVar(&flags.outputFile, "output-file", "", "Path to the output file")
	f.StringVar(&flags.outputFormat, "output-format", "", "Output format: csv or vcf (default: from extension)")
	f.Float64Var(&flags.threshold, "threshold", 80, "Match threshold from 0 to 100")
	f.BoolVar(&flags.merge, "merge", false, "Merge duplicates instead of linking them")
	f.BoolVar(&flags.dryRun, "dry-run", false, "With --merge, print proposed merges without writing output")
	f.IntVar(&flags.workers, "workers", 0, "Parallel scoring workers (0 uses every CPU)")
	f.StringVar(&flags.reportFormat, "report-format", "", "Report format: table, json, or yaml")
	_ = cmd.MarkFlagRequired("input-file")

	return cmd
}

// dedupeSettings is the effective configuration after flags override the
// config file.
type dedupeSettings struct {
	opts         dedupe.RunOptions
	workers      int
	reportFormat report.Format
	showReport   bool
}

func resolveDedupeSettings(cmd *cobra.Command, cfg *config.Config, flags dedupeFlags) (dedupeSettings, error) {
	changed := cmd.Flags().Changed

	threshold := cfg.Dedupe.Threshold
	if changed("threshold") {
		threshold = flags.threshold
	}
	modeName := cfg.Dedupe.Mode
	if flags.merge {
		modeName = config.ModeMerge
	}
	mode, err := dedupe.ParseMode(modeName)
	if err != nil {
		return dedupeSettings{}, err
	}
	dryRun := cfg.Dedupe.DryRun
	if changed("dry-run") {
		dryRun = flags.dryRun
	}
	workers := cfg.Dedupe.Workers
	if changed("workers") {
		if flags.workers < 0 {
			return dedupeSettings{}, errors.New("--workers must be zero or positive")
		}
		workers = flags.workers
	}
	formatName := cfg.Output.ReportFormat
	if changed("report-format") {
		formatName = flags.reportFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return dedupeSettings{}, err
	}

	settings := dedupeSettings{
		opts:         dedupe.RunOptions{Threshold: threshold, Mode: mode, DryRun: dryRun},
		workers:      workers,
		reportFormat: format,
		showReport:   changed("report-format"),
	}
	return settings, settings.opts.Validate()
}

func runDedupe(cmd *cobra.Command, cmdCtx *commandContext, flags dedupeFlags) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	settings, err := resolveDedupeSettings(cmd, cfg, flags)
	if err != nil {
		return err
	}

	dryRun := settings.opts.DryRun && settings.opts.Mode == dedupe.ModeMerge
	var outFormat contactio.Format
	if !dryRun {
		if strings.TrimSpace(flags.outputFile) == "" {
			return errors.New("--output-file is required unless --merge --dry-run is set")
		}
		if outFormat, err = contactio.Resolve(flags.outputFormat, flags.outputFile); err != nil {
			return fmt.Errorf("output format: %w", err)
		}
	}

	ctx, logger, runID, err := cmdCtx.startRun(cmd)
	if err != nil {
		return err
	}

	set, err := readContacts(flags.inputFile, flags.inputFormat)
	if err != nil {
		return err
	}
	logger.Debug("contacts loaded",
		logging.String("path", flags.inputFile),
		logging.Int("contacts", set.Len()),
		logging.Int("fields", len(set.Fields)),
	)

	scorerFields := dedupe.ScorerFields{Phone: cfg.Fields.Phone, Email: cfg.Fields.Email, Name: cfg.Fields.Name}
	warnUnmatchable(logger, set, scorerFields)

	engine := dedupe.NewEngine(
		dedupe.WithLogger(logger),
		dedupe.WithWorkers(settings.workers),
		dedupe.WithFields(scorerFields),
	)
	res, err := engine.Run(ctx, set, settings.opts)
	if err != nil {
		return fmt.Errorf("dedupe: %w", err)
	}

	out := cmd.OutOrStdout()
	if res.DryRun {
		if err := report.Render(out, report.Build(res, runID), settings.reportFormat, report.ShouldColorize(out)); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		fmt.Fprintln(out, "Dry run complete. No changes have been made.")
		return nil
	}

	if err := writeContacts(flags.outputFile, outFormat, res.Records, res.Fields, cfg.Output.Lock); err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			logging.WarnWithContext(logger, "output file is locked", "output_locked",
				logging.Error(err),
				logging.String("lock_path", fileutil.LockPath(flags.outputFile)),
				logging.String(logging.FieldErrorHint, "wait for the other contactmerge run or remove a stale lock file"),
				logging.String(logging.FieldImpact, "no contacts were exported"),
			)
		}
		return err
	}
	printExported(out, len(res.Records), outFormat, flags.outputFile)

	if settings.showReport {
		if err := report.Render(out, report.Build(res, runID), settings.reportFormat, report.ShouldColorize(out)); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}
	return nil
}

// warnUnmatchable reports contacts that carry none of the compared fields,
// which usually means the [fields] mapping does not fit the input headers.
func warnUnmatchable(logger *slog.Logger, set contact.Set, fields dedupe.ScorerFields) {
	count := 0
	for _, r := range set.Records {
		if strings.TrimSpace(r.Value(fields.Phone)) == "" &&
			strings.TrimSpace(r.Value(fields.Email)) == "" &&
			strings.TrimSpace(r.Value(fields.Name)) == "" {
			count++
		}
	}
	if count == 0 {
		return
	}
	logging.WarnWithContext(logger, "contacts without phone, email, or name", "unmatchable_contacts",
		logging.Int("contacts", count),
		logging.String("compared_fields", strings.Join([]string{fields.Phone, fields.Email, fields.Name}, ",")),
		logging.String(logging.FieldErrorHint, "check the [fields] section against the input headers"),
		logging.String(logging.FieldImpact, "these contacts are never matched"),
	)
}
