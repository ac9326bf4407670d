// Package report joins extracted facts with their contexts and
// presentation locations, and writes the flat output files.
package report

import (
	"path/filepath"
	"strings"
	"time"

	"secxbrl/pkg/core/presentation"
	"secxbrl/pkg/core/xbrl"
)

// ResolvedRecord is one flat output row: a fact joined with its context
// and its place in the filer's statement hierarchy.
type ResolvedRecord struct {
	Ticker     string
	ReportDate string
	FactDate   string
	Section    string
	SubSection string
	Dimension  string
	Member     string
	FieldName  string
	Value      string
	Decimals   string
}

// Header is the fixed output column order.
var Header = []string{
	"Ticker", "Report_Date", "Field_Date", "Section", "Sub_Section",
	"Dimension", "Member", "FactDesc", "Fact", "Value_Rounding",
}

// Assemble produces one record per fact, in extraction order. fileName
// is the instance document's name; its fixed YYYYMMDD prefix is the
// report date of last resort. Section resolution only runs when the
// graph holds more than one arc — a single stray arc carries no usable
// hierarchy.
func Assemble(ticker, fileName string, facts []xbrl.Fact, contexts map[string]xbrl.Context, graph *presentation.Graph) []ResolvedRecord {
	reportDate := reportDateFor(facts, fileName)
	resolve := graph != nil && graph.Size() > 1

	records := make([]ResolvedRecord, 0, len(facts))
	for _, f := range facts {
		factDate := reportDate
		var dimension, member string
		if f.ContextRef != xbrl.Null {
			if ctx, ok := contexts[f.ContextRef]; ok {
				if d := formatDate(ctx.AsOfDate); d != "" {
					factDate = d
				}
				dimension = ctx.DimensionPath
				member = ctx.MemberText
			}
		}

		fieldName := xbrl.LocalName(f.Tag)
		var section, subSection string
		if resolve {
			section, subSection = graph.Resolve(fieldName, member, dimension)
		}

		records = append(records, ResolvedRecord{
			Ticker:     ticker,
			ReportDate: reportDate,
			FactDate:   factDate,
			Section:    section,
			SubSection: subSection,
			Dimension:  dimension,
			Member:     member,
			FieldName:  fieldName,
			Value:      xbrl.NormalizeValue(f.RawValue),
			Decimals:   f.Decimals,
		})
	}
	return records
}

// reportDateFor takes the first DocumentPeriodEndDate fact in document
// order, reformatted to YYYYMMDD. Filings without one fall back to the
// filename's date prefix.
func reportDateFor(facts []xbrl.Fact, fileName string) string {
	for _, f := range facts {
		if strings.HasSuffix(f.Tag, "DocumentPeriodEndDate") {
			if d := formatDate(f.RawValue); d != "" {
				return d
			}
			break
		}
	}
	base := filepath.Base(fileName)
	if len(base) >= 8 {
		return base[:8]
	}
	return base
}

// formatDate normalizes an ISO-like date ("2024-03-31", optionally with
// a T-separated time part) to YYYYMMDD. Returns "" for anything else.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if !strings.Contains(s, "-") {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ""
	}
	return t.Format("20060102")
}
