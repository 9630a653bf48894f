package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cfotel "github.com/Strob0t/basenames/internal/adapter/otel"
	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/chain"
	"github.com/Strob0t/basenames/internal/port/nameservice"
)

// AvailabilityService answers whether a .base.eth name can be registered.
//
// Sources are consulted strictly in order: the hosted name-service API, the
// registrar controller, then the registry. Each source is called at most once
// per resolution and a nil source counts as a failed one.
type AvailabilityService struct {
	api       nameservice.Client
	registrar chain.RegistrarReader
	registry  chain.RegistryReader
	metrics   *cfotel.Metrics
}

// NewAvailabilityService creates an availability resolver. Any source may be nil.
func NewAvailabilityService(api nameservice.Client, registrar chain.RegistrarReader, registry chain.RegistryReader) *AvailabilityService {
	return &AvailabilityService{api: api, registrar: registrar, registry: registry}
}

// SetMetrics configures the metrics recorder.
func (s *AvailabilityService) SetMetrics(m *cfotel.Metrics) {
	s.metrics = m
}

// Resolve validates raw and runs the lookup cascade. It never returns an
// error: every outcome, including rejected input, is a structured result.
func (s *AvailabilityService) Resolve(ctx context.Context, raw string) basename.AvailabilityResult {
	name, err := basename.Validate(raw)
	if err != nil {
		return basename.Failed(err.Error())
	}
	return s.ResolveName(ctx, name)
}

// ResolveName runs the cascade for an already validated name.
func (s *AvailabilityService) ResolveName(ctx context.Context, name basename.CandidateName) (res basename.AvailabilityResult) {
	start := time.Now()
	ctx, span := cfotel.StartResolveSpan(ctx, name.String())
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "availability resolution panicked", "name", name.String(), "panic", r)
			res = basename.Failed(MsgResolveFailed)
			cfotel.EndSpan(span, fmt.Errorf("panic: %v", r))
		} else {
			span.End()
		}
		s.metrics.RecordResolution(ctx, verdict(res), time.Since(start).Seconds())
	}()

	if res, ok := s.checkAPI(ctx, name); ok {
		return res
	}
	if res, ok := s.checkContract(ctx, name); ok {
		return res
	}
	return s.checkRegistry(ctx, name)
}

// checkAPI asks the hosted name service. ok is false when the answer is not
// definitive and the cascade must continue.
func (s *AvailabilityService) checkAPI(ctx context.Context, name basename.CandidateName) (basename.AvailabilityResult, bool) {
	if s.api == nil {
		s.stageFailed(ctx, cfotel.StageAPI, errNotConfigured)
		return basename.AvailabilityResult{}, false
	}

	ctx, span := cfotel.StartStageSpan(ctx, cfotel.StageAPI)
	a, err := s.api.Availability(ctx, name)
	cfotel.EndSpan(span, err)
	if err != nil {
		s.stageFailed(ctx, cfotel.StageAPI, err)
		return basename.AvailabilityResult{}, false
	}

	s.metrics.RecordStage(ctx, cfotel.StageAPI, cfotel.OutcomeAnswered)
	if !a.Available {
		return basename.Taken(), true
	}
	price := basename.FallbackPrice
	if a.PriceWei != nil && a.PriceWei.Sign() > 0 {
		price = basename.FormatEther(a.PriceWei)
	}
	return basename.Available(price), true
}

// checkContract asks the registrar controller. ok is false only when the
// availability predicate itself failed; a failed price query after a
// positive answer falls back to the length-based default.
func (s *AvailabilityService) checkContract(ctx context.Context, name basename.CandidateName) (basename.AvailabilityResult, bool) {
	if s.registrar == nil {
		s.stageFailed(ctx, cfotel.StageContract, errNotConfigured)
		return basename.AvailabilityResult{}, false
	}

	ctx, span := cfotel.StartStageSpan(ctx, cfotel.StageContract)
	defer span.End()

	available, err := s.registrar.Available(ctx, name)
	if err != nil {
		s.stageFailed(ctx, cfotel.StageContract, err)
		return basename.AvailabilityResult{}, false
	}
	if !available {
		s.metrics.RecordStage(ctx, cfotel.StageContract, cfotel.OutcomeAnswered)
		return basename.Taken(), true
	}

	price, err := s.registrar.RentPrice(ctx, name, basename.RegistrationSeconds())
	if err != nil {
		slog.WarnContext(ctx, "rent price query failed, quoting default",
			"name", name.String(),
			"error", err,
		)
		s.metrics.RecordStage(ctx, cfotel.StageContract, cfotel.OutcomePriceFallback)
		return basename.Available(basename.DefaultPrice(name)), true
	}

	s.metrics.RecordStage(ctx, cfotel.StageContract, cfotel.OutcomeAnswered)
	return basename.Available(basename.FormatEther(price.Total())), true
}

// checkRegistry is the last resort: an unowned node is treated as available.
func (s *AvailabilityService) checkRegistry(ctx context.Context, name basename.CandidateName) basename.AvailabilityResult {
	if s.registry == nil {
		s.stageFailed(ctx, cfotel.StageRegistry, errNotConfigured)
		return basename.Failed(ErrAllBackendsExhausted.Error())
	}

	ctx, span := cfotel.StartStageSpan(ctx, cfotel.StageRegistry)
	owner, err := s.registry.Owner(ctx, basename.Namehash(name.FullName()))
	cfotel.EndSpan(span, err)
	if err != nil {
		s.stageFailed(ctx, cfotel.StageRegistry, err)
		slog.ErrorContext(ctx, "availability sources exhausted", "name", name.String())
		return basename.Failed(ErrAllBackendsExhausted.Error())
	}

	s.metrics.RecordStage(ctx, cfotel.StageRegistry, cfotel.OutcomeAnswered)
	if basename.IsZeroAddress(owner) {
		return basename.Available(basename.FallbackPrice)
	}
	return basename.Taken()
}

func (s *AvailabilityService) stageFailed(ctx context.Context, stage string, err error) {
	serr := &StageError{Stage: stage, Err: err}
	slog.WarnContext(ctx, "availability stage failed", "stage", stage, "error", serr)
	s.metrics.RecordStage(ctx, stage, cfotel.OutcomeFailed)
}

func verdict(res basename.AvailabilityResult) string {
	switch {
	case res.Available:
		return "available"
	case res.Error != "":
		return "error"
	default:
		return "taken"
	}
}
