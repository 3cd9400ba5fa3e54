// Package resume downloads the resume PDF exported from a shared Google
// document.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is the document export host.
const DefaultBaseURL = "https://docs.google.com"

// DefaultTimeout bounds one export fetch.
const DefaultTimeout = 30 * time.Second

// maxSize caps the exported document.
const maxSize = 20 << 20

// ErrNoFileID is returned when a share URL carries no file id.
var ErrNoFileID = errors.New("resume: no file id in share url")

var fileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
}

// ExtractFileID finds the file id in a Drive or Docs share URL. Patterns are
// tried in order and the first match wins.
func ExtractFileID(shareURL string) (string, bool) {
	for _, p := range fileIDPatterns {
		if m := p.FindStringSubmatch(shareURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExportURL is the PDF export address of a document on base.
func ExportURL(base, fileID string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/document/d/" + url.PathEscape(fileID) + "/export?format=pdf"
}

// StatusError reports a non-OK export response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("resume: export returned %d %s", e.Code, http.StatusText(e.Code))
}

// Document is a fetched resume.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Fetcher downloads exported documents.
type Fetcher struct {
	Client   *http.Client
	BaseURL  string
	Filename string
	// Timeout bounds each fetch; zero waits as long as the context allows.
	Timeout time.Duration
}

// Fetch exports the document behind shareURL as PDF. There is no retry.
func (f *Fetcher) Fetch(ctx context.Context, shareURL string) (*Document, error) {
	id, ok := ExtractFileID(shareURL)
	if !ok {
		return nil, ErrNoFileID
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ExportURL(f.BaseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("resume: building request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resume: fetching export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("resume: reading export: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/pdf"
	}
	return &Document{Data: data, ContentType: ct, Filename: f.Filename}, nil
}
