// Package health aggregates component checks into one report.
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

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results. VectorSearch is informational:
// a degraded vector channel is expected operation, not a failure.
type Report struct {
	Status       Status
	Checks       map[string]CheckResult
	VectorSearch string
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
	vector    VectorProber
}

// New creates a Service. embedding and vector can be nil.
func New(db DBPinger, embedding EmbeddingChecker, vector VectorProber) *Service {
	return &Service{db: db, embedding: embedding, vector: vector}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.embedding != nil {
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

	report := Report{Status: status, Checks: checks}
	if s.vector != nil {
		report.VectorSearch = s.vector.Capability(ctx).String()
	}
	return report
}
