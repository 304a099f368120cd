package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// Check outcomes for individual components.
const (
	CheckOK       = "ok"
	CheckError    = "error"
	CheckDisabled = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]string
}

// Service coordinates health checks over the store and the optional
// embedding provider.
type Service struct {
	storage   StoragePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding is nil in lexical-only deployments; the
// report then marks semantic ranking as disabled rather than failing.
func New(storage StoragePinger, embedding EmbeddingChecker) *Service {
	return &Service{storage: storage, embedding: embedding}
}

// Check runs health checks against all components. The embedding provider
// being down degrades the report but never fails it outright: search still
// works lexically.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]string)

	if err := s.storage.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	switch {
	case s.embedding == nil:
		checks["embedding"] = CheckDisabled
	default:
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
