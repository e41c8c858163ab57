package client

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

	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/markers/source"
)

// DefaultTimeout bounds a single HTTP fetch when no client is supplied.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 16 << 20

// Source produces one read envelope per call. Failures are *FetchError.
type Source interface {
	Fetch(ctx context.Context) (*markers.Payload, error)
}

// HTTPSource reads GET {BaseURL}/api/markers with Filter as query parameters.
type HTTPSource struct {
	BaseURL    string
	Filter     markers.Filter
	HTTPClient *http.Client
}

// NewHTTPSource returns a source for the API at baseURL.
func NewHTTPSource(baseURL string, f markers.Filter) *HTTPSource {
	return &HTTPSource{
		BaseURL:    baseURL,
		Filter:     f,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (s *HTTPSource) endpoint() (string, error) {
	u, err := url.Parse(strings.TrimRight(s.BaseURL, "/") + "/api/markers")
	if err != nil {
		return "", err
	}
	u.RawQuery = s.Filter.Values().Encode()
	return u.String(), nil
}

// Fetch performs one GET. Non-2xx statuses fail with UpstreamFailure even when
// the body is a well-formed failure envelope.
func (s *HTTPSource) Fetch(ctx context.Context) (*markers.Payload, error) {
	endpoint, err := s.endpoint()
	if err != nil {
		return nil, upstreamError(0, "invalid API address", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, upstreamError(0, "invalid API address", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := s.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, upstreamError(0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, upstreamError(resp.StatusCode, fmt.Sprintf("API error: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstreamError(resp.StatusCode, "reading response failed", err)
	}
	return decodePayload(body, source.FormatJSON, false)
}

// FileSource reads a static dataset document from disk. The format follows
// the file extension as in source.DetectFormat.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (*markers.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, upstreamError(0, "load cancelled", err)
	}
	format, compressed, err := source.DetectFormat(s.Path)
	if err != nil {
		return nil, parseError(err)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, upstreamError(0, "error loading file", err)
	}
	return decodePayload(data, format, compressed)
}

// StaticSource serves an in-memory document, such as source.EmbeddedDocument.
type StaticSource struct {
	Document   []byte
	Format     source.Format
	Compressed bool
}

func (s StaticSource) Fetch(ctx context.Context) (*markers.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, upstreamError(0, "load cancelled", err)
	}
	format := s.Format
	if format == "" {
		format = source.FormatJSON
	}
	return decodePayload(s.Document, format, s.Compressed)
}

// decodePayload decodes a read envelope and checks it is usable: success must
// be true and the data section present.
func decodePayload(data []byte, format source.Format, compressed bool) (*markers.Payload, error) {
	p, err := source.DecodePayload(data, format, compressed)
	if err != nil {
		return nil, parseError(err)
	}
	if !p.Success {
		msg := p.Message
		if msg == "" {
			msg = "failed to load markers"
		}
		return nil, &FetchError{Kind: DomainFailure, Message: msg}
	}
	if p.Data == nil {
		return nil, parseError(errors.New("envelope has no data section"))
	}
	return p, nil
}
