// Package perimeters downloads the perimeter list of the Aides-Territoires API
// and saves it as JSON and CSV.
package perimeters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/giygas/aides-extras/config"
	"github.com/giygas/aides-extras/interfaces"
	"github.com/giygas/aides-extras/logging"
	"github.com/giygas/aides-extras/metrics"
	"github.com/juju/ratelimit"
	"github.com/tidwall/gjson"
)

const (
	MaxResponseBodySize = 100 * 1024 * 1024 // 100 MB
	maxErrorBodySize    = 4 * 1024
)

var _ interfaces.Fetcher = (*Fetcher)(nil)

// HTTPError is a page request answered with a non-2xx status
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %s: %s", e.URL, e.Status, e.Body)
}

// Options configures a Fetcher
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration // 0 means no client timeout
	RPS     float64       // page requests per second, 0 means unlimited
	Client  *http.Client  // optional, Timeout is ignored when set
}

// Fetcher walks the pages of the perimeters endpoint
type Fetcher struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	bucket  *ratelimit.Bucket
}

// NewFetcher validates opts and creates a Fetcher
func NewFetcher(opts Options) (*Fetcher, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute, got %q", opts.BaseURL)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	f := &Fetcher{
		baseURL: u,
		token:   opts.Token,
		client:  client,
	}
	if opts.RPS > 0 {
		f.bucket = ratelimit.NewBucketWithRate(opts.RPS, 1)
	}
	return f, nil
}

// NewFetcherFromConfig creates a Fetcher from the loaded configuration
func NewFetcherFromConfig(cfg *config.Config) (*Fetcher, error) {
	if err := cfg.ValidateFetch(); err != nil {
		return nil, err
	}
	return NewFetcher(Options{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.FetchTimeout,
		RPS:     cfg.FetchRPS,
	})
}

// FetchAll requests pages 1, 2, ... until a page has no "next" link and
// returns every result in page order. The first failing page aborts the
// whole fetch and nothing is returned.
func (f *Fetcher) FetchAll(ctx context.Context, scale string) ([]entities.Record, error) {
	var all []entities.Record

	page := 1
	for {
		if err := f.wait(ctx); err != nil {
			return nil, err
		}

		logging.Info("Fetching page", "page", page, "scale", scale)
		records, more, err := f.fetchPage(ctx, scale, page)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if !more {
			break
		}
		page++
	}

	logging.Info("Perimeters fetched", "pages", page, "records", len(all))
	return all, nil
}

// wait blocks until the token bucket allows one more request
func (f *Fetcher) wait(ctx context.Context) error {
	if f.bucket == nil {
		return ctx.Err()
	}

	d := f.bucket.Take(1)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Fetcher) pageURL(scale string, page int) string {
	u := *f.baseURL
	q := u.Query()
	q.Set("scale", scale)
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// fetchPage returns the results of one page and whether a next page exists
func (f *Fetcher) fetchPage(ctx context.Context, scale string, page int) ([]entities.Record, bool, error) {
	pageURL := f.pageURL(scale, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request for page %d: %w", page, err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.FetchRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch page %d: %w", page, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, false, &HTTPError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read page %d: %w", page, err)
	}
	metrics.PagesFetched.Inc()

	records, more, err := parsePage(body)
	if err != nil {
		return nil, false, fmt.Errorf("page %d: %w", page, err)
	}
	logging.Debug("Page received", "page", page, "results", len(records), "next", more)
	return records, more, nil
}

// readBody reads a response body with a size limit
func readBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes limit", MaxResponseBodySize)
	}
	return data, nil
}

var errInvalidPage = errors.New("response is not a JSON object")

// parsePage extracts the "results" list and reports whether "next" is set.
func parsePage(body []byte) ([]entities.Record, bool, error) {
	if !gjson.ValidBytes(body) {
		return nil, false, errInvalidPage
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, false, errInvalidPage
	}

	results := doc.Get("results")
	if !results.IsArray() {
		return nil, false, entities.ErrResultsNotList
	}

	items := results.Array()
	records := make([]entities.Record, len(items))
	for i, item := range items {
		records[i] = entities.NewRecord([]byte(item.Raw))
	}

	page := entities.NewRecord(body)
	return records, page.Get("next").Truthy(), nil
}
