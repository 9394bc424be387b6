package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// GarmentComposer is the external try-on compositing service contract.
type GarmentComposer interface {
	Compose(ctx context.Context, personBytes, clothBytes []byte) (*ComposeResult, error)
}

type ComposeResult struct {
	// ImageBase64 is the raw base64 payload of the composited image.
	ImageBase64 string
}

// TryOnClient posts the two raw image buffers to the external try-on
// backend as a multipart upload. Every failure mode (non-200, malformed
// JSON, missing success flag, invalid base64, timeout, connection error)
// is reported as a plain error; the orchestrator treats them uniformly.
type TryOnClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTryOnClient(baseURL string, timeout time.Duration) *TryOnClient {
	return &TryOnClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type composeResponse struct {
	Success     *bool  `json:"success"`
	ImageBase64 string `json:"image_base64"`
	Detail      string `json:"detail"`
}

func (c *TryOnClient) Compose(ctx context.Context, personBytes, clothBytes []byte) (*ComposeResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, part := range []struct {
		field, filename string
		data            []byte
	}{
		{"person_image", "person.jpg", personBytes},
		{"cloth_image", "cloth.jpg", clothBytes},
	} {
		fw, err := writer.CreateFormFile(part.field, part.filename)
		if err != nil {
			return nil, fmt.Errorf("build multipart request: %w", err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, fmt.Errorf("build multipart request: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tryon", &buf)
	if err != nil {
		return nil, fmt.Errorf("build try-on request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("try-on request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read try-on response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("try-on service returned status %d", resp.StatusCode)
	}

	var parsed composeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("malformed try-on response: %w", err)
	}

	if parsed.Success == nil {
		return nil, fmt.Errorf("try-on response missing success field")
	}
	if !*parsed.Success {
		return nil, fmt.Errorf("try-on service reported failure: %s", parsed.Detail)
	}

	if _, err := base64.StdEncoding.DecodeString(parsed.ImageBase64); err != nil {
		return nil, fmt.Errorf("try-on response contains invalid base64: %w", err)
	}

	return &ComposeResult{ImageBase64: parsed.ImageBase64}, nil
}
