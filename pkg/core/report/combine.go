package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CombineTicker concatenates every per-filing CSV in dir into
// <TICKER>_Combined.csv with a single header row. An existing combined
// file is excluded from the inputs and overwritten, never appended to.
func CombineTicker(dir, ticker string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read ticker directory: %w", err)
	}

	var inputs []string
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if strings.HasSuffix(name, "_combined.csv") {
			continue
		}
		inputs = append(inputs, filepath.Join(dir, e.Name()))
	}
	if len(inputs) == 0 {
		return "", fmt.Errorf("no csv files to combine in %s", dir)
	}
	sort.Strings(inputs)

	outPath := filepath.Join(dir, ticker+"_Combined.csv")
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create combined file: %w", err)
	}

	w := csv.NewWriter(out)
	wroteHeader := false
	for _, in := range inputs {
		if err := appendCSV(w, in, &wroteHeader); err != nil {
			out.Close()
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return "", fmt.Errorf("flush combined file: %w", err)
	}
	return outPath, out.Close()
}

func appendCSV(w *csv.Writer, path string, wroteHeader *bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if first {
			first = false
			if *wroteHeader {
				continue
			}
			*wroteHeader = true
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("append from %s: %w", path, err)
		}
	}
	return nil
}
