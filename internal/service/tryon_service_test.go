package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/internal/storage"
	"github.com/wearlab/tryon-backend/internal/testutil"
	"github.com/wearlab/tryon-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func validInput() service.TryOnInput {
	return service.TryOnInput{
		PersonImage:  service.UploadedImage{Data: []byte("person-bytes"), MIMEType: "image/jpeg"},
		ClothImage:   service.UploadedImage{Data: []byte("cloth-bytes"), MIMEType: "image/png"},
		Instructions: "keep it casual",
		ModelType:    "top",
		Gender:       "female",
		GarmentType:  "t-shirt",
		Style:        "streetwear",
	}
}

func TestTryOn_RejectsDisallowedMIMEType_NoExternalCalls(t *testing.T) {
	generator := testutil.SucceedingGenerator("aGk=")
	composer := testutil.SucceedingComposer("aGk=")
	svc := service.NewTryOnService(generator, composer, nil)

	input := validInput()
	input.PersonImage.MIMEType = "image/gif"

	_, err := svc.Process(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "person image")

	assert.Zero(t, generator.Calls.Load(), "Validation failure must not reach the generation service")
	assert.Zero(t, composer.Calls.Load(), "Validation failure must not reach the try-on service")
}

func TestTryOn_RejectsOversizedImage_NoExternalCalls(t *testing.T) {
	generator := testutil.SucceedingGenerator("aGk=")
	composer := testutil.SucceedingComposer("aGk=")
	svc := service.NewTryOnService(generator, composer, nil)

	input := validInput()
	input.ClothImage.Data = make([]byte, service.MaxImageSizeBytes+1)

	_, err := svc.Process(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Cloth image exceeds 20MB")

	assert.Zero(t, generator.Calls.Load())
	assert.Zero(t, composer.Calls.Load())
}

func TestTryOn_PrimarySucceedsSecondaryFails(t *testing.T) {
	generator := testutil.SucceedingGenerator(base64.StdEncoding.EncodeToString([]byte("openai-png")))
	composer := testutil.FailingComposer(errors.New("connection refused"))
	svc := service.NewTryOnService(generator, composer, nil)

	result, err := svc.Process(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, service.PrimaryFirstService, result.PrimaryResult)

	assert.True(t, result.OpenAI.Succeeded)
	require.NotNil(t, result.OpenAI.Image)
	assert.Nil(t, result.OpenAI.Error)

	assert.False(t, result.TryOnService.Succeeded)
	assert.Nil(t, result.TryOnService.Image)
	require.NotNil(t, result.TryOnService.Error, "The losing side's failure detail must be reported")

	assert.Equal(t, *result.OpenAI.Image, result.Image, "Flattened image must be the primary result")
	assert.Equal(t, int32(1), generator.Calls.Load())
	assert.Equal(t, int32(1), composer.Calls.Load(), "Secondary is called even though primary already succeeded")
}

func TestTryOn_PrimaryFailsSecondarySucceeds(t *testing.T) {
	generator := testutil.FailingGenerator(apperrors.KindUpstreamRateLimit, "429 from upstream")
	composer := testutil.SucceedingComposer(base64.StdEncoding.EncodeToString([]byte("tryon-png")))
	svc := service.NewTryOnService(generator, composer, nil)

	result, err := svc.Process(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, service.PrimarySecondService, result.PrimaryResult)

	assert.False(t, result.OpenAI.Succeeded)
	require.NotNil(t, result.OpenAI.Error)
	assert.Equal(t, "Image service rate limit reached, please retry shortly", *result.OpenAI.Error,
		"Primary failure detail must be the categorized user-safe message")

	assert.True(t, result.TryOnService.Succeeded)
	assert.Equal(t, *result.TryOnService.Image, result.Image)
}

func TestTryOn_BothSucceed_HostedServiceWinsTieBreak(t *testing.T) {
	generator := testutil.SucceedingGenerator(base64.StdEncoding.EncodeToString([]byte("openai-png")))
	composer := testutil.SucceedingComposer(base64.StdEncoding.EncodeToString([]byte("tryon-png")))
	svc := service.NewTryOnService(generator, composer, nil)

	result, err := svc.Process(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, service.PrimaryFirstService, result.PrimaryResult)
	assert.True(t, result.OpenAI.Succeeded)
	assert.True(t, result.TryOnService.Succeeded)
	assert.NotNil(t, result.TryOnService.Image, "Both payloads are returned on double success")
	assert.Equal(t, *result.OpenAI.Image, result.Image)
}

func TestTryOn_BothFail(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	testutil.CreateTestUser(t, testDB.DB, "Alice", "alice", "Password123", models.RoleUser)

	generator := testutil.FailingGenerator(apperrors.KindUpstreamAuth, "bad key")
	composer := testutil.FailingComposer(errors.New("timeout"))
	archive := storage.NewArchive(testDB.DB, t.TempDir())
	svc := service.NewTryOnService(generator, composer, archive)

	input := validInput()
	input.Username = "alice"

	_, err := svc.Process(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindAllServicesFailed, apperrors.KindOf(err))
	assert.Contains(t, apperrors.PublicDetail(err), "All image services failed")
	assert.Contains(t, apperrors.PublicDetail(err), "Image service authentication failed")
	assert.Contains(t, apperrors.PublicDetail(err), "Try-on service unavailable")

	var count int64
	testDB.DB.Model(&models.TryOnRecord{}).Count(&count)
	assert.Zero(t, count, "A fully failed request must not persist a record")
}

func TestTryOn_SuccessIsArchived(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	user := testutil.CreateTestUser(t, testDB.DB, "Alice", "alice", "Password123", models.RoleUser)

	outputPNG := []byte("generated-output")
	generator := testutil.SucceedingGenerator(base64.StdEncoding.EncodeToString(outputPNG))
	composer := testutil.FailingComposer(errors.New("down"))
	root := t.TempDir()
	archive := storage.NewArchive(testDB.DB, root)
	svc := service.NewTryOnService(generator, composer, archive)

	input := validInput()
	input.Username = "alice"

	result, err := svc.Process(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, result.Saved)

	var record models.TryOnRecord
	require.NoError(t, testDB.DB.First(&record).Error)
	assert.Equal(t, user.ID, record.UserID)

	got, err := os.ReadFile(record.OutputImagePath)
	require.NoError(t, err)
	assert.Equal(t, outputPNG, got, "The primary image must be decoded and written to disk")
}

func TestTryOn_ArchiveFailureDegradesToUnsaved(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)

	generator := testutil.SucceedingGenerator(base64.StdEncoding.EncodeToString([]byte("png")))
	composer := testutil.FailingComposer(errors.New("down"))
	archive := storage.NewArchive(testDB.DB, t.TempDir())
	svc := service.NewTryOnService(generator, composer, archive)

	input := validInput()
	input.Username = "ghost" // no such user

	result, err := svc.Process(context.Background(), input)

	require.NoError(t, err, "A failed save must not fail a successful generation")
	assert.False(t, result.Saved)
	assert.Equal(t, service.PrimaryFirstService, result.PrimaryResult)
}
