package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/storage"
	"github.com/wearlab/tryon-backend/internal/upstream"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	// MaxImageSizeBytes caps each uploaded image at 20 MB.
	MaxImageSizeBytes = 20 * 1024 * 1024
)

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Primary result discriminator values.
const (
	PrimaryFirstService  = "first-service"
	PrimarySecondService = "second-service"
	PrimaryNone          = "none"
)

// UploadedImage is one uploaded file with its declared MIME type.
type UploadedImage struct {
	Data     []byte
	MIMEType string
}

// TryOnInput carries the two images and the five free-text form fields.
// The text fields are embedded in the prompt verbatim; no sanitization is
// applied to them.
type TryOnInput struct {
	Username     string
	PersonImage  UploadedImage
	ClothImage   UploadedImage
	Instructions string
	ModelType    string
	Gender       string
	GarmentType  string
	Style        string
}

// ServiceOutcome reports one backend's result in the aggregated payload.
type ServiceOutcome struct {
	Succeeded bool    `json:"succeeded"`
	Image     *string `json:"image"`
	Error     *string `json:"error"`
}

// TryOnResult is the aggregated response for one try-on request.
type TryOnResult struct {
	RequestID     string         `json:"request_id"`
	OpenAI        ServiceOutcome `json:"openai"`
	TryOnService  ServiceOutcome `json:"tryon_service"`
	PrimaryResult string         `json:"primary_result"`

	// Flattened convenience fields for the primary image.
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`

	Saved bool `json:"saved"`
}

// TryOnService orchestrates one try-on request: validate the uploads, build
// the generation prompt, call both image backends, merge their outcomes and
// archive the result.
type TryOnService struct {
	generator upstream.ImageGenerator
	composer  upstream.GarmentComposer
	archive   *storage.Archive
}

func NewTryOnService(generator upstream.ImageGenerator, composer upstream.GarmentComposer, archive *storage.Archive) *TryOnService {
	return &TryOnService{
		generator: generator,
		composer:  composer,
		archive:   archive,
	}
}

// Process runs the whole pipeline. Validation failures return before any
// external call is made. Both backends are always invoked; a failure of one
// never prevents the other. Only when both fail does the request fail.
func (s *TryOnService) Process(ctx context.Context, input TryOnInput) (*TryOnResult, error) {
	requestID := uuid.New().String()

	if err := validateImage("person image", input.PersonImage); err != nil {
		return nil, err
	}
	if err := validateImage("cloth image", input.ClothImage); err != nil {
		return nil, err
	}

	prompt := buildPrompt(input)

	logger.Log.Info("Dispatching try-on request",
		zap.String("request_id", requestID),
		zap.String("model_type", input.ModelType),
		zap.Int("person_bytes", len(input.PersonImage.Data)),
		zap.Int("cloth_bytes", len(input.ClothImage.Data)),
	)

	result := &TryOnResult{RequestID: requestID}

	// Primary: hosted image-generation service. Failures are captured and
	// classified, never propagated before aggregation.
	genResult, genErr := s.generator.Generate(ctx, upstream.GenerateRequest{
		Prompt: prompt,
		Images: []upstream.InlineImage{
			{MIMEType: input.PersonImage.MIMEType, Data: input.PersonImage.Data},
			{MIMEType: input.ClothImage.MIMEType, Data: input.ClothImage.Data},
		},
	})
	if genErr != nil {
		logger.Log.Warn("Primary generation failed",
			zap.String("request_id", requestID),
			zap.Error(genErr),
		)
		detail := apperrors.PublicDetail(genErr)
		result.OpenAI = ServiceOutcome{Succeeded: false, Error: &detail}
	} else {
		image := "data:image/png;base64," + genResult.ImageBase64
		result.OpenAI = ServiceOutcome{Succeeded: true, Image: &image}
	}

	// Secondary: external try-on backend. Called regardless of the primary
	// outcome; all of its failure modes collapse to one outcome.
	composeResult, composeErr := s.composer.Compose(ctx, input.PersonImage.Data, input.ClothImage.Data)
	if composeErr != nil {
		logger.Log.Warn("Secondary try-on call failed",
			zap.String("request_id", requestID),
			zap.Error(composeErr),
		)
		detail := "Try-on service unavailable"
		result.TryOnService = ServiceOutcome{Succeeded: false, Error: &detail}
	} else {
		image := "data:image/png;base64," + composeResult.ImageBase64
		result.TryOnService = ServiceOutcome{Succeeded: true, Image: &image}
	}

	// Aggregation: the hosted service wins the tie-break on double success.
	switch {
	case result.OpenAI.Succeeded:
		result.PrimaryResult = PrimaryFirstService
		result.Image = *result.OpenAI.Image
		result.Text = "Virtual try-on generated successfully."
	case result.TryOnService.Succeeded:
		result.PrimaryResult = PrimarySecondService
		result.Image = *result.TryOnService.Image
		result.Text = "Virtual try-on generated successfully."
	default:
		result.PrimaryResult = PrimaryNone
		return nil, apperrors.New(apperrors.KindAllServicesFailed, fmt.Sprintf(
			"All image services failed (openai: %s; try-on: %s)",
			*result.OpenAI.Error, *result.TryOnService.Error,
		))
	}

	s.archiveResult(input, result)

	return result, nil
}

// archiveResult persists the inputs and the primary output. A failed save
// degrades the response (saved=false) instead of failing a generation that
// already succeeded.
func (s *TryOnService) archiveResult(input TryOnInput, result *TryOnResult) {
	if input.Username == "" {
		return
	}

	outputBytes, err := decodeDataURL(result.Image)
	if err != nil {
		logger.Log.Error("Failed to decode generated image for archiving",
			zap.String("request_id", result.RequestID),
			zap.Error(err),
		)
		return
	}

	_, err = s.archive.Save(input.Username, input.PersonImage.Data, input.ClothImage.Data, outputBytes)
	if err != nil {
		logger.Log.Warn("Failed to archive try-on result",
			zap.String("request_id", result.RequestID),
			zap.String("username", input.Username),
			zap.Error(err),
		)
		return
	}

	result.Saved = true
}

func validateImage(field string, img UploadedImage) error {
	if !allowedMIMETypes[img.MIMEType] {
		return apperrors.New(apperrors.KindInvalidInput,
			fmt.Sprintf("Unsupported %s type", field))
	}
	if len(img.Data) > MaxImageSizeBytes {
		return apperrors.New(apperrors.KindInvalidInput,
			fmt.Sprintf("%s exceeds 20MB", strings.ToUpper(field[:1])+field[1:]))
	}
	return nil
}

// buildPrompt embeds the five form fields verbatim in the stylist prompt.
func buildPrompt(input TryOnInput) string {
	return fmt.Sprintf(`You are a virtual fashion stylist.

Create a realistic virtual try-on image by placing the clothing item
onto the person while preserving facial identity and garment details.

Rules:
- Keep the face EXACTLY the same
- Preserve garment color, texture, and design
- Replace the background completely
- Maintain original pose and body proportions

Context:
- Model Type: %s
- Gender: %s
- Garment Type: %s
- Style: %s
- Special Instructions: %s

After the image, also generate a short caption describing fit and style.
`, input.ModelType, input.Gender, input.GarmentType, input.Style, input.Instructions)
}

func decodeDataURL(dataURL string) ([]byte, error) {
	_, b64, found := strings.Cut(dataURL, ";base64,")
	if !found {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	return base64.StdEncoding.DecodeString(b64)
}
