// Package ingestion retrieves job-description text from posting URLs.
package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the HTTP request timeout for posting fetches.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for posting fetches.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeStudio/1.0)"

// MinContentLength is the minimum extracted text length to accept a plain
// HTTP fetch. Shorter content suggests a JavaScript-rendered page.
const MinContentLength = 500

// Options configures posting ingestion.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
	Verbose    bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// FromURL fetches a job posting and returns its main text. When the plain
// fetch yields too little text and the browser fallback is enabled, the page
// is re-rendered in a headless browser before extraction.
func FromURL(ctx context.Context, postingURL string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	html, err := fetchHTML(ctx, postingURL, opts)
	if err != nil {
		return "", err
	}

	text, err := ExtractJobText(html)
	if err != nil {
		return "", err
	}

	if opts.UseBrowser && len(strings.TrimSpace(text)) < MinContentLength {
		// On browser failure keep whatever the plain fetch produced; the
		// emptiness check below still applies.
		if rendered, berr := renderWithBrowser(ctx, postingURL, opts.Timeout, opts.Verbose); berr == nil {
			if btext, eerr := ExtractJobText(rendered); eerr == nil && len(btext) > len(text) {
				text = btext
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no job text extracted from %s", postingURL)
	}
	return text, nil
}

func fetchHTML(ctx context.Context, urlStr string, opts *Options) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid posting URL %q", urlStr)
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", urlStr, err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP status %d", urlStr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", urlStr, err)
	}
	return string(body), nil
}

// ExtractJobText parses HTML and returns the posting's main text, preferring
// job-board content containers and falling back to the body element.
func ExtractJobText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range jobPostingSelectors() {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// jobPostingSelectors returns selectors optimized for job board pages.
func jobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace drops empty lines and trims the rest.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
