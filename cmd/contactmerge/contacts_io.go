package main

import (
	"fmt"
	"io"
	"os"

	"contactmerge/internal/contact"
	"contactmerge/internal/contactio"
	"contactmerge/internal/fileutil"
)

func readContacts(path, explicitFormat string) (contact.Set, error) {
	format, err := contactio.Resolve(explicitFormat, path)
	if err != nil {
		return contact.Set{}, fmt.Errorf("input format: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return contact.Set{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	records, err := contactio.Read(file, format)
	if err != nil {
		return contact.Set{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return contact.Set{}, fmt.Errorf("no contacts found in %s", path)
	}
	return contact.NewSet(records), nil
}

func writeContacts(path string, format contactio.Format, records []contact.Record, fields contact.FieldOrder, lock bool) error {
	err := fileutil.WriteAtomic(path, fileutil.WriteOptions{Lock: lock}, func(w io.Writer) error {
		return contactio.Write(w, format, records, fields)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printExported(w io.Writer, n int, format contactio.Format, path string) {
	fmt.Fprintf(w, "Exported %d contacts to %s: %s\n", n, format.Label(), path)
}
