package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// TickerCIK is one input row: a ticker symbol with an optional CIK.
// Rows without a CIK are resolved against SEC's ticker mapping later.
type TickerCIK struct {
	Ticker string
	CIK    string
}

// ReadTickerList reads a two-column ticker/CIK CSV. A header row is
// detected by a "ticker" first column and skipped; single-column files
// carry tickers only.
func ReadTickerList(path string) ([]TickerCIK, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []TickerCIK
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ticker list: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		ticker := strings.TrimSpace(rec[0])
		if first {
			first = false
			if strings.EqualFold(ticker, "ticker") {
				continue
			}
		}
		if ticker == "" {
			continue
		}
		row := TickerCIK{Ticker: strings.ToUpper(ticker)}
		if len(rec) > 1 {
			row.CIK = strings.TrimSpace(rec[1])
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ticker list %s is empty", path)
	}
	return out, nil
}
