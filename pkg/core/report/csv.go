package report

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes records to path with the fixed header, UTF-8 encoded.
func WriteCSV(path string, records []ResolvedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Ticker, r.ReportDate, r.FactDate, r.Section, r.SubSection,
			r.Dimension, r.Member, r.FieldName, r.Value, r.Decimals,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return f.Close()
}
