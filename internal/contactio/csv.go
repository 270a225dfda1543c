package contactio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"contactmerge/internal/contact"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a header row followed by one record per row. A row shorter
// than the header leaves the trailing columns absent; extra cells are
// dropped. An input with no header yields no records.
func ReadCSV(r io.Reader) ([]contact.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	var records []contact.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		n := min(len(row), len(header))
		fields := make([]contact.Field, n)
		for i := range n {
			fields[i] = contact.Field{Name: header[i], Value: row[i]}
		}
		records = append(records, contact.NewRecord(fields...))
	}
	return records, nil
}

// WriteCSV writes a header and one row per record. The match and certainty
// columns lead the header when any record carries them. Absent fields are
// written as empty cells.
func WriteCSV(w io.Writer, records []contact.Record, fields contact.FieldOrder) error {
	columns := make([]string, 0, len(fields)+2)
	if hasSynthetic(records) {
		columns = append(columns, contact.FieldMatch, contact.FieldCertainty)
	}
	columns = append(columns, exportOrder(records, fields)...)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, name := range columns {
			row[i] = r.Value(name)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func hasSynthetic(records []contact.Record) bool {
	for _, r := range records {
		if r.Has(contact.FieldMatch) || r.Has(contact.FieldCertainty) {
			return true
		}
	}
	return false
}
