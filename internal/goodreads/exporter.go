package goodreads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"shelfsync/internal/creds"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:137.0) Gecko/20100101 Firefox/137.0"

// DefaultBaseURL is the production site. Tests point Exporter at an
// httptest server instead.
const DefaultBaseURL = "https://www.goodreads.com"

// ErrAuthExpired means the saved cookies no longer carry a session.
var ErrAuthExpired = errors.New("goodreads session expired")

// Exporter drives the site's CSV export flow with a saved cookie header.
type Exporter struct {
	BaseURL string
	Client  *http.Client

	cfg creds.GoodreadsConfig
}

// NewExporter builds an exporter around the cookie artifact.
func NewExporter(cfg creds.GoodreadsConfig) *Exporter {
	return &Exporter{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
		cfg:     cfg,
	}
}

// Export runs the full flow: scrape the CSRF token, request the export,
// poll until the CSV exists, download it to output.
func (e *Exporter) Export(ctx context.Context, output string, pollInterval time.Duration, maxPollAttempts int, report func(format string, args ...any)) error {
	if report == nil {
		report = func(string, ...any) {}
	}

	report("Scraping CSRF token")
	token, err := e.scrapeCSRFToken(ctx)
	if err != nil {
		return err
	}

	report("Requesting export for user %s", e.cfg.UserID)
	if err := e.requestExport(ctx, token); err != nil {
		return err
	}

	report("Waiting for the export to be ready")
	if err := e.pollUntilReady(ctx, pollInterval, maxPollAttempts, report); err != nil {
		return err
	}

	return e.downloadCSV(ctx, output)
}

func (e *Exporter) scrapeCSRFToken(ctx context.Context) (string, error) {
	resp, err := e.get(ctx, "/review/import")
	if err != nil {
		return "", fmt.Errorf("fetch import page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: import page returned %s; re-run `shelfsync cookies`", ErrAuthExpired, resp.Status)
	}
	if final := resp.Request.URL; final != nil && strings.Contains(final.Path, "sign_in") {
		return "", fmt.Errorf("%w: redirected to %s; re-run `shelfsync cookies`", ErrAuthExpired, final)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse import page: %w", err)
	}
	token, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	if !ok || token == "" {
		return "", fmt.Errorf("%w: no csrf-token on the import page", ErrAuthExpired)
	}
	return token, nil
}

func (e *Exporter) requestExport(ctx context.Context, csrfToken string) error {
	endpoint := e.BaseURL + "/review_porter/export/" + url.PathEscape(e.cfg.UserID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("format=json"))
	if err != nil {
		return err
	}
	e.decorate(req)
	req.Header.Set("X-CSRF-Token", csrfToken)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", e.BaseURL+"/review/import")
	req.Header.Set("Origin", e.BaseURL)
	req.Header.Set("Accept", "*/*")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: export request returned %s: %s", ErrAuthExpired, resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

func (e *Exporter) csvPath() string {
	return "/review_porter/export/" + url.PathEscape(e.cfg.UserID) + "/goodreads_export.csv"
}

func (e *Exporter) pollUntilReady(ctx context.Context, interval time.Duration, maxAttempts int, report func(string, ...any)) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.BaseURL+e.csvPath(), nil)
		if err != nil {
			return err
		}
		e.decorate(req)

		resp, err := e.Client.Do(req)
		if err != nil {
			return fmt.Errorf("poll export: %w", err)
		}
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			report("Export ready after %d poll(s)", attempt)
			return nil
		case http.StatusNotFound:
			// Not generated yet.
		default:
			return fmt.Errorf("unexpected status %s while polling for the export", resp.Status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("export not ready after %d attempts; raise --max-poll-attempts", maxAttempts)
}

func (e *Exporter) downloadCSV(ctx context.Context, output string) error {
	resp, err := e.get(ctx, e.csvPath())
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download export: status %s", resp.Status)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	return f.Close()
}

func (e *Exporter) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	e.decorate(req)
	return e.Client.Do(req)
}

func (e *Exporter) decorate(req *http.Request) {
	req.Header.Set("Cookie", e.cfg.Cookies)
	req.Header.Set("User-Agent", userAgent)
}
