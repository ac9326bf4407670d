// Command fetch downloads XBRL instance documents and presentation
// linkbases from SEC EDGAR for each ticker in the input list, laid out
// as <output>/<TICKER>/<YYYYMMDD>_<TICKER>_<FORM>.xml for the extract
// command to consume.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"

	"secxbrl/pkg/core/ingest"
)

func main() {
	tickerList := flag.String("i", "Ticker_CIK_List.csv", "ticker/CIK list CSV")
	outputDir := flag.String("o", "OutputXML", "output directory")
	limit := flag.Int("n", 20, "max filings per ticker (0 = all recent)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	rows, err := ingest.ReadTickerList(*tickerList)
	if err != nil {
		log.Fatalf("Failed to read ticker list: %v", err)
	}

	ctx := context.Background()
	client := ingest.NewClient()

	for _, row := range rows {
		cik := row.CIK
		if cik == "" {
			cik, err = client.LookupCIK(ctx, row.Ticker)
			if err != nil {
				log.Printf("skipping %s: %v", row.Ticker, err)
				continue
			}
		}

		filings, err := client.ListFilings(ctx, cik, *limit)
		if err != nil {
			log.Printf("skipping %s: %v", row.Ticker, err)
			continue
		}
		fmt.Printf("%s: %d filings\n", row.Ticker, len(filings))

		dir := filepath.Join(*outputDir, row.Ticker)
		for _, f := range filings {
			path, err := client.DownloadFilingXML(ctx, dir, row.Ticker, cik, f)
			if err != nil {
				log.Printf("skipping %s %s: %v", row.Ticker, f.AccessionNumber, err)
				continue
			}
			if path == "" {
				log.Printf("no instance document in %s %s", row.Ticker, f.AccessionNumber)
				continue
			}
			fmt.Printf("  downloaded %s\n", filepath.Base(path))
		}
	}
}
