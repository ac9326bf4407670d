package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := []ResolvedRecord{
		{
			Ticker: "AAPL", ReportDate: "20240331", FactDate: "20240331",
			Section: "BalanceSheet", SubSection: "Assets",
			FieldName: "Cash", Value: "100", Decimals: "-6",
		},
		{
			Ticker: "AAPL", ReportDate: "20240331", FactDate: "20240331",
			Dimension: "us-gaap:StatementGeographicalAxis", Member: "country:US",
			FieldName: "Revenues", Value: "55", Decimals: "0",
		},
	}
	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	for i, col := range Header {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][7] != "Cash" || rows[1][8] != "100" || rows[1][9] != "-6" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][5] != "us-gaap:StatementGeographicalAxis" || rows[2][6] != "country:US" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestCombineTicker(t *testing.T) {
	dir := t.TempDir()
	rec := func(field string) []ResolvedRecord {
		return []ResolvedRecord{{
			Ticker: "TEST", ReportDate: "20240331", FactDate: "20240331",
			FieldName: field, Value: "1", Decimals: "0",
		}}
	}
	if err := WriteCSV(filepath.Join(dir, "20240331_TEST_10Q.csv"), rec("Assets")); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(filepath.Join(dir, "20231231_TEST_10K.csv"), rec("Revenues")); err != nil {
		t.Fatal(err)
	}
	// A stale combined file must not feed back into the new one.
	if err := WriteCSV(filepath.Join(dir, "TEST_Combined.csv"), rec("Stale")); err != nil {
		t.Fatal(err)
	}

	out, err := CombineTicker(dir, "TEST")
	if err != nil {
		t.Fatalf("CombineTicker: %v", err)
	}
	if filepath.Base(out) != "TEST_Combined.csv" {
		t.Errorf("output = %q", out)
	}

	rows := readCSV(t, out)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want single header + 2 records: %v", len(rows), rows)
	}
	if rows[0][0] != "Ticker" {
		t.Errorf("first row = %v, want header", rows[0])
	}
	// Inputs are combined in sorted filename order.
	if rows[1][7] != "Revenues" || rows[2][7] != "Assets" {
		t.Errorf("combined order = %q, %q", rows[1][7], rows[2][7])
	}
}

func TestCombineTickerEmptyDir(t *testing.T) {
	if _, err := CombineTicker(t.TempDir(), "NONE"); err == nil {
		t.Fatal("expected error for directory without csv files")
	}
}
