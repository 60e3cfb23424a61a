package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/vibescan/internal/shared"
)

// HTTPDetector runs inference through a sidecar service that wraps the face
// model. Frames are posted to /detect; the sidecar answers with expression
// scores and an age estimate, or 404 when no face is visible.
type HTTPDetector struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPDetector creates a detector client for the inference sidecar.
func NewHTTPDetector(baseURL string, client *http.Client) *HTTPDetector {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPDetector{
		baseURL:    baseURL,
		httpClient: client,
	}
}

var _ Detector = (*HTTPDetector)(nil)

// Detect posts a frame to the sidecar and decodes the inference result.
// A 404 means no face this cycle and returns (nil, nil).
func (d *HTTPDetector) Detect(ctx context.Context, frame *Frame) (*Detection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", bytes.NewReader(frame.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", frame.ContentType)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: detector status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var detection Detection
	if err := json.NewDecoder(resp.Body).Decode(&detection); err != nil {
		return nil, fmt.Errorf("failed to decode detection: %w", err)
	}

	return &detection, nil
}
