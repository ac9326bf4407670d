// Package ingest fetches XBRL filing documents from SEC EDGAR.
// API Documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	submissionsPath   = "/submissions/CIK%s.json"
	tickerMappingPath = "/files/company_tickers.json"
	filingIndexPath   = "/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=%s&dateb=&owner=include&count=40"
	archivesPath      = "/Archives/edgar/data/%s/%s"

	// Required User-Agent per SEC guidelines
	UserAgent = "SECXBRLExtractor/1.0 (contact@example.com)"
)

// instanceRowMarkers identify the instance document row in an EDGAR
// filing index table. Older filings label the exhibit differently.
var instanceRowMarkers = []string{
	"INSTANCE DOCUMENT",
	"EX-101.INS",
	"INSTANCE FILE",
	"EXHIBIT 101.INS",
}

// Filing is one 10-K or 10-Q filing reference from the submissions API.
type Filing struct {
	AccessionNumber string
	FilingDate      string
	ReportDate      string
	Form            string
	PrimaryDocument string
}

// submissions mirrors the parallel-array layout of the SEC submissions
// response.
type submissions struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Client talks to SEC EDGAR. All requests share one rate limiter; SEC
// throttles aggressively above 10 requests per second.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int

	// siteURL serves www.sec.gov paths, dataURL serves data.sec.gov.
	// Overridable for tests.
	siteURL string
	dataURL string

	mu          sync.RWMutex
	tickerCache map[string]string
}

// NewClient creates an EDGAR client with SEC-safe rate limiting.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(8, 8),
		retries:    3,
		siteURL:    "https://www.sec.gov",
		dataURL:    "https://data.sec.gov",
	}
}

// fetch performs one rate-limited GET with retries on throttling and
// server errors.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
			continue
		default:
			return nil, fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries+1, lastErr)
}

// LookupCIK resolves a ticker symbol to its zero-padded 10-digit CIK
// using SEC's company_tickers.json mapping. The mapping is fetched once
// per client and cached.
func (c *Client) LookupCIK(ctx context.Context, ticker string) (string, error) {
	c.mu.RLock()
	cache := c.tickerCache
	c.mu.RUnlock()

	if cache == nil {
		body, err := c.fetch(ctx, c.siteURL+tickerMappingPath)
		if err != nil {
			return "", fmt.Errorf("failed to fetch ticker mapping: %w", err)
		}

		// Response structure: { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
		var mapping map[string]struct {
			CIK    int    `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal(body, &mapping); err != nil {
			return "", fmt.Errorf("failed to parse ticker mapping: %w", err)
		}

		cache = make(map[string]string, len(mapping))
		for _, entry := range mapping {
			cache[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
		}
		c.mu.Lock()
		c.tickerCache = cache
		c.mu.Unlock()
	}

	cik, ok := cache[strings.ToUpper(ticker)]
	if !ok {
		return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
	}
	return cik, nil
}

// PadCIK zero-pads a CIK to the 10 digits the submissions API expects.
func PadCIK(cik string) string {
	return fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))
}

// ListFilings returns the company's recent 10-K and 10-Q filings,
// newest first, skipping amendments (10-K/A, 10-Q/A).
func (c *Client) ListFilings(ctx context.Context, cik string, limit int) ([]Filing, error) {
	body, err := c.fetch(ctx, c.dataURL+fmt.Sprintf(submissionsPath, PadCIK(cik)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var subs submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions: %w", err)
	}

	recent := subs.Filings.Recent
	var filings []Filing
	for i := range recent.AccessionNumber {
		form := recent.Form[i]
		if form != "10-K" && form != "10-Q" {
			continue
		}
		filings = append(filings, Filing{
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      recent.FilingDate[i],
			ReportDate:      recent.ReportDate[i],
			Form:            form,
			PrimaryDocument: recent.PrimaryDocument[i],
		})
		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings, nil
}

// FindInstanceURL scans a filing's index page for the XBRL instance
// document row and returns the document's absolute URL. Filings without
// a recognizable instance exhibit yield "" with no error; not every
// older filing carries one.
func (c *Client) FindInstanceURL(ctx context.Context, cik, accessionNumber string) (string, error) {
	accession := strings.ReplaceAll(accessionNumber, "-", "")
	indexURL := c.siteURL + fmt.Sprintf(archivesPath, strings.TrimLeft(cik, "0"), accession+"/"+accessionNumber+"-index.htm")

	body, err := c.fetch(ctx, indexURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch filing index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to parse filing index: %w", err)
	}

	instanceURL := ""
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := strings.ToUpper(row.Text())
		matched := false
		for _, marker := range instanceRowMarkers {
			if strings.Contains(text, marker) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
		href, ok := row.Find("a[href]").First().Attr("href")
		if !ok {
			return true
		}
		instanceURL = c.siteURL + href
		return false
	})
	return instanceURL, nil
}

// DownloadFilingXML downloads a filing's instance document and its
// presentation linkbase into dir. Files are named
// <YYYYMMDD>_<ticker>_<form>.xml and ..._pre.xml so the extraction
// stage can pair them and fall back to the date prefix. Returns the
// instance path, or "" when the filing has no instance document.
func (c *Client) DownloadFilingXML(ctx context.Context, dir, ticker string, cik string, f Filing) (string, error) {
	instanceURL, err := c.FindInstanceURL(ctx, cik, f.AccessionNumber)
	if err != nil {
		return "", err
	}
	if instanceURL == "" {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	prefix := strings.ReplaceAll(f.ReportDate, "-", "")
	base := fmt.Sprintf("%s_%s_%s", prefix, strings.ToUpper(ticker), strings.ReplaceAll(f.Form, "-", ""))
	instancePath := filepath.Join(dir, base+".xml")

	if err := c.downloadTo(ctx, instanceURL, instancePath); err != nil {
		return "", err
	}
	// The presentation linkbase lives next to the instance document on
	// EDGAR. Its absence is tolerated downstream.
	if preURL := presentationURL(instanceURL); preURL != "" {
		if err := c.downloadTo(ctx, preURL, filepath.Join(dir, base+"_pre.xml")); err != nil {
			os.Remove(filepath.Join(dir, base+"_pre.xml"))
		}
	}
	return instancePath, nil
}

func (c *Client) downloadTo(ctx context.Context, url, path string) error {
	body, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// presentationURL derives the presentation linkbase URL from an
// instance document URL. Inline-XBRL exports end in "_htm.xml"; plain
// instances end in ".xml".
func presentationURL(instanceURL string) string {
	if strings.HasSuffix(instanceURL, "_htm.xml") {
		return strings.TrimSuffix(instanceURL, "_htm.xml") + "_pre.xml"
	}
	if strings.HasSuffix(instanceURL, ".xml") {
		return strings.TrimSuffix(instanceURL, ".xml") + "_pre.xml"
	}
	return ""
}
