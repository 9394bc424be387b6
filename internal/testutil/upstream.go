package testutil

import (
	"context"
	"sync/atomic"

	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/upstream"
)

// FakeGenerator is an in-memory ImageGenerator with a call counter, so
// tests can assert that validation failures never reach the backends.
type FakeGenerator struct {
	Calls  atomic.Int32
	Result *upstream.GenerateResult
	Err    error
}

func (f *FakeGenerator) Generate(_ context.Context, _ upstream.GenerateRequest) (*upstream.GenerateResult, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}

// FakeComposer is an in-memory GarmentComposer with a call counter.
type FakeComposer struct {
	Calls  atomic.Int32
	Result *upstream.ComposeResult
	Err    error
}

func (f *FakeComposer) Compose(_ context.Context, _, _ []byte) (*upstream.ComposeResult, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Result, nil
}

// SucceedingGenerator returns a generator that yields the given base64 image.
func SucceedingGenerator(imageBase64 string) *FakeGenerator {
	return &FakeGenerator{Result: &upstream.GenerateResult{ImageBase64: imageBase64}}
}

// FailingGenerator returns a generator that fails with an upstream error kind.
func FailingGenerator(kind apperrors.Kind, detail string) *FakeGenerator {
	return &FakeGenerator{Err: apperrors.New(kind, detail)}
}

// SucceedingComposer returns a composer that yields the given base64 image.
func SucceedingComposer(imageBase64 string) *FakeComposer {
	return &FakeComposer{Result: &upstream.ComposeResult{ImageBase64: imageBase64}}
}

// FailingComposer returns a composer that fails with a plain error.
func FailingComposer(err error) *FakeComposer {
	return &FakeComposer{Err: err}
}
