// Package pipeline drives extraction across downloaded filings: one
// worker per ticker directory, one CSV per instance document, one
// combined CSV per ticker.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"secxbrl/pkg/core/presentation"
	"secxbrl/pkg/core/report"
	"secxbrl/pkg/core/xbrl"
)

// Sink receives resolved records for persistence beyond the CSV files.
type Sink interface {
	SaveRecords(ctx context.Context, runID, ticker, sourceFile string, records []report.ResolvedRecord) error
}

// Batch processes every ticker directory under a base directory.
type Batch struct {
	Workers int
	Sink    Sink // optional
}

// Result summarizes one batch run.
type Result struct {
	RunID     uuid.UUID
	Processed int
	Skipped   int
}

// ProcessFiling extracts and resolves one instance document. The
// presentation linkbase is located by the "_pre" naming convention next
// to the instance file; its absence is not an error.
func ProcessFiling(instancePath, ticker string) ([]report.ResolvedRecord, error) {
	f, err := os.Open(instancePath)
	if err != nil {
		return nil, fmt.Errorf("open instance document: %w", err)
	}
	defer f.Close()

	doc, err := xbrl.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(instancePath), err)
	}

	contexts := xbrl.ExtractContexts(doc)
	facts, err := xbrl.ExtractFacts(doc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(instancePath), err)
	}

	graph := presentation.LoadGraphFor(instancePath)
	return report.Assemble(ticker, filepath.Base(instancePath), facts, contexts, graph), nil
}

// Run processes the given tickers' directories under baseDir
// concurrently. A failed document is logged and skipped; a failed
// ticker directory aborts the run. Counters cover instance documents,
// not tickers.
func (b *Batch) Run(ctx context.Context, baseDir string, tickers []string) (Result, error) {
	res := Result{RunID: uuid.New()}
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			processed, skipped, err := b.processTickerDir(ctx, res.RunID, baseDir, ticker)
			if err != nil {
				return fmt.Errorf("ticker %s: %w", ticker, err)
			}
			mu.Lock()
			res.Processed += processed
			res.Skipped += skipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func (b *Batch) processTickerDir(ctx context.Context, runID uuid.UUID, baseDir, ticker string) (processed, skipped int, err error) {
	dir := filepath.Join(baseDir, ticker)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read directory: %w", err)
	}

	var instances []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if strings.HasSuffix(name, "_pre.xml") {
			continue
		}
		instances = append(instances, filepath.Join(dir, name))
	}
	sort.Strings(instances)

	for _, instance := range instances {
		if err := ctx.Err(); err != nil {
			return processed, skipped, err
		}
		records, perr := ProcessFiling(instance, ticker)
		if perr != nil {
			log.Printf("skipping %s: %v", filepath.Base(instance), perr)
			skipped++
			continue
		}

		outPath := strings.TrimSuffix(instance, ".xml") + ".csv"
		if werr := report.WriteCSV(outPath, records); werr != nil {
			return processed, skipped, werr
		}
		if b.Sink != nil {
			if serr := b.Sink.SaveRecords(ctx, runID.String(), ticker, filepath.Base(instance), records); serr != nil {
				return processed, skipped, fmt.Errorf("persist %s: %w", filepath.Base(instance), serr)
			}
		}
		processed++
	}

	if processed > 0 {
		if _, cerr := report.CombineTicker(dir, ticker); cerr != nil {
			return processed, skipped, cerr
		}
	}
	return processed, skipped, nil
}
