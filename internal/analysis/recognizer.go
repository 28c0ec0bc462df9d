package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// TextRecognizer is the external OCR collaborator: an image in, free
// text out, no structure guarantees.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// HTTPRecognizer calls a text-recognition HTTP service.
type HTTPRecognizer struct {
	client  *retryablehttp.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPRecognizer creates a recognizer client with retry on transient
// failures.
func NewHTTPRecognizer(baseURL string, timeout time.Duration, logger *logrus.Logger) *HTTPRecognizer {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = 2
	client.Logger = nil

	return &HTTPRecognizer{client: client, baseURL: baseURL, logger: logger}
}

type recognizeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// Recognize submits an image and returns the recognized free text.
func (r *HTTPRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	body, err := json.Marshal(recognizeRequest{ImageBase64: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return "", fmt.Errorf("failed to encode recognition request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build recognition request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read recognition response: %w", err)
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse recognition response: %w", err)
	}
	return parsed.Text, nil
}
