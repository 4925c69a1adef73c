// Package estimator provides tests for the analysis supersede discipline
package estimator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/errors"
)

// blockingEstimator lets the test control when each analysis call returns
type blockingEstimator struct {
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	result  *outbound.MacroEstimate
	err     error
}

func newBlockingEstimator(result *outbound.MacroEstimate, err error) *blockingEstimator {
	return &blockingEstimator{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		result:  result,
		err:     err,
	}
}

func (b *blockingEstimator) EstimateFromImage(ctx context.Context, imageJPEG []byte) (*outbound.MacroEstimate, error) {
	return b.wait(ctx)
}

func (b *blockingEstimator) EstimateFromText(ctx context.Context, query string) (*outbound.MacroEstimate, error) {
	return b.wait(ctx)
}

func (b *blockingEstimator) wait(ctx context.Context) (*outbound.MacroEstimate, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result, b.err
}

// immediateEstimator returns its canned result right away
type immediateEstimator struct {
	result *outbound.MacroEstimate
	err    error
}

func (i *immediateEstimator) EstimateFromImage(ctx context.Context, imageJPEG []byte) (*outbound.MacroEstimate, error) {
	return i.result, i.err
}

func (i *immediateEstimator) EstimateFromText(ctx context.Context, query string) (*outbound.MacroEstimate, error) {
	return i.result, i.err
}

func sampleEstimate() *outbound.MacroEstimate {
	return &outbound.MacroEstimate{
		Name:     "Grilled Salmon",
		Calories: 412,
		Protein:  40,
		Fat:      27,
		Carbs:    0,
	}
}

func TestAnalyzeTextReturnsEstimate(t *testing.T) {
	service := NewEstimatorService(&immediateEstimator{result: sampleEstimate()}, zaptest.NewLogger(t))

	dto, err := service.AnalyzeText(context.Background(), "grilled salmon fillet")

	require.NoError(t, err)
	assert.Equal(t, "Grilled Salmon", dto.Name)
	assert.Equal(t, 412.0, dto.Calories)
}

func TestAnalyzeTextRejectsEmptyQuery(t *testing.T) {
	service := NewEstimatorService(&immediateEstimator{result: sampleEstimate()}, zaptest.NewLogger(t))

	_, err := service.AnalyzeText(context.Background(), "")

	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestAnalyzeImageRejectsEmptyPayload(t *testing.T) {
	service := NewEstimatorService(&immediateEstimator{result: sampleEstimate()}, zaptest.NewLogger(t))

	_, err := service.AnalyzeImage(context.Background(), nil)

	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestAnalysisFailureSurfacesError(t *testing.T) {
	failure := errors.NewExternalServiceError("gemini", context.DeadlineExceeded)
	service := NewEstimatorService(&immediateEstimator{err: failure}, zaptest.NewLogger(t))

	dto, err := service.AnalyzeText(context.Background(), "mystery meal")

	assert.Nil(t, dto)
	assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
}

func TestNewRequestSupersedesInFlightOne(t *testing.T) {
	backend := newBlockingEstimator(sampleEstimate(), nil)
	service := NewEstimatorService(backend, zaptest.NewLogger(t))

	// First request blocks inside the backend
	firstDone := make(chan error, 1)
	go func() {
		_, err := service.AnalyzeText(context.Background(), "first")
		firstDone <- err
	}()
	<-backend.started

	// Second request cancels the first; the first returns through the
	// ctx.Done branch and must be reported as superseded
	secondDone := make(chan error, 1)
	go func() {
		_, err := service.AnalyzeText(context.Background(), "second")
		secondDone <- err
	}()
	<-backend.started

	firstErr := <-firstDone
	assert.True(t, errors.Is(firstErr, errors.CodeEstimateSuperseded))

	// The second request is still the live one and completes normally
	close(backend.release)
	require.NoError(t, <-secondDone)
}
