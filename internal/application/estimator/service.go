// Package estimator provides the application layer around the external
// macro analysis service. It serializes concurrent analysis requests so
// that only the most recent one can deliver a result.
package estimator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/macrolog/v1/internal/ports/inbound"
	"github.com/macrolog/v1/internal/ports/outbound"
	"github.com/macrolog/v1/pkg/errors"
)

// EstimatorService implements the analysis use cases. Each new request
// supersedes the one in flight: the older request's context is cancelled
// and its result, should it still arrive, is discarded.
type EstimatorService struct {
	estimator outbound.MacroEstimator
	logger    *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewEstimatorService creates a new estimator service
func NewEstimatorService(estimator outbound.MacroEstimator, logger *zap.Logger) inbound.EstimatorService {
	return &EstimatorService{
		estimator: estimator,
		logger:    logger.Named("estimator-service"),
	}
}

// AnalyzeImage asks the external service to estimate macros from a photo
func (s *EstimatorService) AnalyzeImage(ctx context.Context, imageJPEG []byte) (*inbound.EstimateDTO, error) {
	if len(imageJPEG) == 0 {
		return nil, errors.NewBadRequestError("image data is empty")
	}

	return s.run(ctx, "image", func(ctx context.Context) (*outbound.MacroEstimate, error) {
		return s.estimator.EstimateFromImage(ctx, imageJPEG)
	})
}

// AnalyzeText asks the external service to estimate macros from a free-text
// description such as "two scrambled eggs with toast"
func (s *EstimatorService) AnalyzeText(ctx context.Context, query string) (*inbound.EstimateDTO, error) {
	if query == "" {
		return nil, errors.NewBadRequestError("query is empty")
	}

	return s.run(ctx, "text", func(ctx context.Context) (*outbound.MacroEstimate, error) {
		return s.estimator.EstimateFromText(ctx, query)
	})
}

// run executes one analysis under the supersede discipline
func (s *EstimatorService) run(ctx context.Context, kind string, call func(context.Context) (*outbound.MacroEstimate, error)) (*inbound.EstimateDTO, error) {
	ctx, seq := s.begin(ctx)

	s.logger.Info("Starting analysis",
		zap.String("kind", kind),
		zap.Uint64("seq", seq),
	)

	estimate, err := call(ctx)

	if !s.finish(seq) {
		s.logger.Info("Discarding superseded analysis",
			zap.String("kind", kind),
			zap.Uint64("seq", seq),
		)
		return nil, errors.NewEstimateSupersededError()
	}

	if err != nil {
		s.logger.Warn("Analysis failed",
			zap.String("kind", kind),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		return nil, errors.Wrap(err, "analysis failed")
	}

	return estimateToDTO(estimate), nil
}

// begin registers a new request, cancelling whichever one is in flight,
// and returns the derived context plus this request's sequence number
func (s *EstimatorService) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.seq++
	s.cancel = cancel

	return ctx, s.seq
}

// finish reports whether the request with the given sequence number is
// still the most recent one. Only the winner releases the cancel slot.
func (s *EstimatorService) finish(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	return true
}

// estimateToDTO converts the outbound estimate to its DTO form
func estimateToDTO(estimate *outbound.MacroEstimate) *inbound.EstimateDTO {
	var sources []inbound.SourceEstimateDTO
	for _, alt := range estimate.Sources {
		sources = append(sources, inbound.SourceEstimateDTO{
			Source:   alt.Source,
			Calories: alt.Macros.Calories,
			Protein:  alt.Macros.Protein,
			Fat:      alt.Macros.Fat,
			Carbs:    alt.Macros.Carbs,
		})
	}

	macros := estimate.Macros()

	return &inbound.EstimateDTO{
		Name:        estimate.Name,
		Calories:    macros.Calories,
		Protein:     macros.Protein,
		Fat:         macros.Fat,
		Carbs:       macros.Carbs,
		WeightGrams: estimate.WeightGrams,
		Sources:     sources,
	}
}
