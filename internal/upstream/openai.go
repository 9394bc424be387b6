package upstream

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wearlab/tryon-backend/internal/apperrors"
)

// ImageGenerator is the hosted image-generation service contract.
type ImageGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// InlineImage is a reference image attached to a generation request.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

type GenerateRequest struct {
	Prompt string
	Images []InlineImage
}

type GenerateResult struct {
	// ImageBase64 is the raw base64 payload of the generated PNG.
	ImageBase64 string
}

// OpenAIClient calls the hosted image-generation API. The HTTP client
// carries an explicit timeout; the library default is unbounded.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(baseURL, apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      "gpt-image-1",
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generationRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Size   string   `json:"size"`
	Image  []string `json:"image,omitempty"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	body := generationRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		Size:   "1024x1024",
	}
	for _, img := range req.Images {
		body.Image = append(body.Image, fmt.Sprintf(
			"data:%s;base64,%s",
			img.MIMEType,
			base64.StdEncoding.EncodeToString(img.Data),
		))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamGeneric, "failed to encode generation request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamGeneric, "failed to build generation request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamGeneric, "image generation request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamGeneric, "failed to read generation response", err)
	}

	var parsed generationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstreamGeneric, "malformed generation response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyAPIError(resp.StatusCode, &parsed)
	}

	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return nil, apperrors.New(apperrors.KindUpstreamGeneric, "generation response contains no image")
	}

	return &GenerateResult{ImageBase64: parsed.Data[0].B64JSON}, nil
}

// classifyAPIError maps the API's error envelope onto the upstream error
// taxonomy so callers get a short categorized message instead of raw
// upstream text.
func classifyAPIError(status int, parsed *generationResponse) error {
	detail := fmt.Sprintf("image generation failed with status %d", status)
	code := ""
	if parsed.Error != nil {
		detail = parsed.Error.Message
		code = parsed.Error.Code
	}

	kind := apperrors.KindUpstreamGeneric
	switch {
	case status == http.StatusUnauthorized:
		kind = apperrors.KindUpstreamAuth
	case status == http.StatusTooManyRequests && code == "insufficient_quota":
		kind = apperrors.KindUpstreamQuota
	case status == http.StatusTooManyRequests:
		kind = apperrors.KindUpstreamRateLimit
	case status == http.StatusForbidden:
		kind = apperrors.KindUpstreamPermission
	case status == http.StatusBadRequest:
		kind = apperrors.KindUpstreamMalformed
	}

	return apperrors.New(kind, detail)
}
