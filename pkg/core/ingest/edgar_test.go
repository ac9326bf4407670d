package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		retries:    1,
		siteURL:    srv.URL,
		dataURL:    srv.URL,
	}
}

func TestLookupCIK(t *testing.T) {
	var hits int
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},"1":{"cik_str":789019,"ticker":"MSFT","title":"Microsoft Corp"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	ctx := context.Background()

	cik, err := c.LookupCIK(ctx, "aapl")
	if err != nil {
		t.Fatalf("LookupCIK: %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("cik = %q, want zero-padded 0000320193", cik)
	}

	if _, err := c.LookupCIK(ctx, "MSFT"); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if hits != 1 {
		t.Errorf("mapping fetched %d times, want 1", hits)
	}

	if _, err := c.LookupCIK(ctx, "NOPE"); err == nil {
		t.Error("expected error for unknown ticker")
	}
}

func TestListFilings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"cik": "320193",
			"filings": {"recent": {
				"accessionNumber": ["0000320193-24-000012", "0000320193-24-000010", "0000320193-23-000099", "0000320193-23-000090"],
				"filingDate": ["2024-05-01", "2024-02-01", "2023-11-01", "2023-08-01"],
				"reportDate": ["2024-03-31", "2023-12-31", "2023-09-30", "2023-06-30"],
				"form": ["10-Q", "8-K", "10-K/A", "10-K"],
				"primaryDocument": ["q1.htm", "er.htm", "ka.htm", "k.htm"]
			}}
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	filings, err := c.ListFilings(context.Background(), "320193", 0)
	if err != nil {
		t.Fatalf("ListFilings: %v", err)
	}
	if len(filings) != 2 {
		t.Fatalf("got %d filings, want 2 (8-K and amendments excluded): %+v", len(filings), filings)
	}
	if filings[0].Form != "10-Q" || filings[0].ReportDate != "2024-03-31" {
		t.Errorf("filings[0] = %+v", filings[0])
	}
	if filings[1].Form != "10-K" || filings[1].AccessionNumber != "0000320193-23-000090" {
		t.Errorf("filings[1] = %+v", filings[1])
	}

	limited, err := c.ListFilings(context.Background(), "320193", 1)
	if err != nil {
		t.Fatalf("ListFilings limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d filings", len(limited))
	}
}

const indexPage = `<html><body><table>
<tr><td>1</td><td>COVER PAGE</td><td><a href="/Archives/edgar/data/320193/cover.htm">cover.htm</a></td></tr>
<tr><td>2</td><td>EX-101.INS</td><td><a href="/Archives/edgar/data/320193/aapl-20240331.xml">aapl-20240331.xml</a></td></tr>
</table></body></html>`

func TestFindInstanceURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000012/0000320193-24-000012-index.htm",
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(indexPage)) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv)
	url, err := c.FindInstanceURL(context.Background(), "320193", "0000320193-24-000012")
	if err != nil {
		t.Fatalf("FindInstanceURL: %v", err)
	}
	want := srv.URL + "/Archives/edgar/data/320193/aapl-20240331.xml"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestFindInstanceURLNoInstance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table><tr><td>COVER PAGE</td></tr></table></body></html>`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	url, err := c.FindInstanceURL(context.Background(), "1", "0000000001-20-000001")
	if err != nil {
		t.Fatalf("FindInstanceURL: %v", err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty for filings without an instance exhibit", url)
	}
}

func TestDownloadFilingXML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000012/0000320193-24-000012-index.htm",
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(indexPage)) })
	mux.HandleFunc("/Archives/edgar/data/320193/aapl-20240331.xml",
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<xbrl/>")) })
	mux.HandleFunc("/Archives/edgar/data/320193/aapl-20240331_pre.xml",
		func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<linkbase/>")) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	c := newTestClient(srv)
	filing := Filing{
		AccessionNumber: "0000320193-24-000012",
		ReportDate:      "2024-03-31",
		Form:            "10-Q",
	}
	path, err := c.DownloadFilingXML(context.Background(), dir, "aapl", "320193", filing)
	if err != nil {
		t.Fatalf("DownloadFilingXML: %v", err)
	}
	if filepath.Base(path) != "20240331_AAPL_10Q.xml" {
		t.Errorf("instance path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<xbrl/>" {
		t.Errorf("instance content = %q, err %v", data, err)
	}
	pre, err := os.ReadFile(filepath.Join(dir, "20240331_AAPL_10Q_pre.xml"))
	if err != nil || string(pre) != "<linkbase/>" {
		t.Errorf("linkbase content = %q, err %v", pre, err)
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	body, err := c.fetch(context.Background(), srv.URL+"/x")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != "ok" || hits != 2 {
		t.Errorf("body = %q after %d hits", body, hits)
	}
}

func TestPadCIK(t *testing.T) {
	tests := []struct{ in, want string }{
		{"320193", "0000320193"},
		{"0000320193", "0000320193"},
		{"1", "0000000001"},
	}
	for _, tt := range tests {
		if got := PadCIK(tt.in); got != tt.want {
			t.Errorf("PadCIK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPresentationURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://x/a/inst.xml", "https://x/a/inst_pre.xml"},
		{"https://x/a/inst_htm.xml", "https://x/a/inst_pre.xml"},
		{"https://x/a/inst.htm", ""},
	}
	for _, tt := range tests {
		if got := presentationURL(tt.in); got != tt.want {
			t.Errorf("presentationURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
