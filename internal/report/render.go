package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat reports an unsupported report format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the report encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a report format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render writes doc to w in the requested format. colorize only affects
// the table format.
func Render(w io.Writer, doc Document, format Format, colorize bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	case FormatTable:
		_, err := io.WriteString(w, renderText(doc, colorize))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

func renderText(doc Document, colorize bool) string {
	var b strings.Builder

	if doc.DryRun {
		for _, p := range doc.Proposals {
			for _, pair := range p.Pairs {
				fmt.Fprintf(&b, "DRY RUN: Would merge contact %d into contact %d with score %s%s\n",
					pair.Contact, pair.Match, formatScore(pair.Score), formatSignals(pair.Signals))
			}
		}
		if len(doc.Proposals) == 0 {
			b.WriteString("DRY RUN: No duplicates found at this threshold.\n")
		}
		b.WriteByte('\n')
	}

	writeSection(&b, "Summary", colorize)
	b.WriteString(renderTable(
		[]column{{title: "Metric"}, {title: "Value", numeric: true}},
		[][]string{
			{"Mode", doc.Mode},
			{"Threshold", formatScore(doc.Threshold)},
			{"Contacts read", strconv.Itoa(doc.Summary.Input)},
			{"Clusters", strconv.Itoa(doc.Summary.Clusters)},
			{"Duplicate clusters", strconv.Itoa(doc.Summary.DuplicateClusters)},
			{"Duplicates", strconv.Itoa(doc.Summary.Duplicates)},
			{"Comparisons", strconv.Itoa(doc.Summary.Comparisons)},
		},
		colorize,
	))
	b.WriteByte('\n')

	if len(doc.Proposals) == 0 {
		return b.String()
	}

	b.WriteByte('\n')
	writeSection(&b, "Proposed merges", colorize)
	rows := make([][]string, 0, len(doc.Proposals)*4)
	for k, p := range doc.Proposals {
		if k > 0 {
			rows = append(rows, nil)
		}
		for i, f := range p.Fields {
			row := []string{"", "", "", f.Name, f.Value, strings.Join(f.Alternatives, "; ")}
			if i == 0 {
				row[0] = strconv.Itoa(p.Into)
				row[1] = joinInts(p.Members)
				row[2] = formatScore(p.Score)
			}
			rows = append(rows, row)
		}
	}
	b.WriteString(renderTable(
		[]column{
			{title: "Into", numeric: true},
			{title: "Members"},
			{title: "Score", numeric: true},
			{title: "Field"},
			{title: "Merged value"},
			{title: "Dropped"},
		},
		rows,
		colorize,
	))
	b.WriteByte('\n')
	return b.String()
}

func writeSection(b *strings.Builder, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", title)
	if colorize {
		line = text.Colors{text.FgBlue, text.Bold}.Sprint(line)
	}
	b.WriteString(line)
	b.WriteByte('\n')
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// formatSignals renders per-field ratios as " (phone 100.00, name 90.91)".
func formatSignals(signals map[string]float64) string {
	if len(signals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(signals))
	for _, kind := range signalOrder {
		if v, ok := signals[kind.String()]; ok {
			parts = append(parts, kind.String()+" "+formatScore(v))
		}
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
