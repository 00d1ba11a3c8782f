// Package extract defines the upstream text-extraction collaborator: it
// turns a prescription image into raw text plus a confidence value. The
// analysis pipeline only consumes the text; confidence gates an uncertainty
// warning.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/rxguard/rxguard/internal/errors"
)

// Extraction is the collaborator's result.
type Extraction struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // [0,1]
}

// TextExtractor extracts prescription text from image bytes.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (Extraction, error)
}

// HTTPExtractor calls an external extraction service.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

// NewHTTPExtractor creates an extractor against the given service URL.
func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// ExtractText posts the image and decodes the service's text and confidence.
func (e *HTTPExtractor) ExtractText(ctx context.Context, image []byte) (Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(image))
	if err != nil {
		return Extraction{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "failed to build extraction request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return Extraction{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "extraction request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Extraction{}, apperrors.New(apperrors.ErrExtractionFailed.Code,
			fmt.Sprintf("extraction service returned %d: %s", resp.StatusCode, string(snippet)))
	}

	var extraction Extraction
	if err := json.NewDecoder(resp.Body).Decode(&extraction); err != nil {
		return Extraction{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "failed to decode extraction response")
	}
	return extraction, nil
}

// Mock is a canned extractor for tests.
type Mock struct {
	mu     sync.Mutex
	result Extraction
	err    error
	calls  int
}

// NewMock creates a mock returning the given result.
func NewMock(result Extraction, err error) *Mock {
	return &Mock{result: result, err: err}
}

func (m *Mock) ExtractText(ctx context.Context, image []byte) (Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.result, m.err
}

// Calls returns how many times ExtractText ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
