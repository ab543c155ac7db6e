package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog is unreachable; no search can answer.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Features int // catalog record count, 0 when the catalog check fails
}

// Service coordinates health checks.
type Service struct {
	catalog   CatalogChecker
	feed      FeedPinger
	embedding EmbeddingChecker
}

// New creates a Service. feed and embedding can be nil.
func New(catalog CatalogChecker, feed FeedPinger, embedding EmbeddingChecker) *Service {
	return &Service{catalog: catalog, feed: feed, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	features := 0

	catalogUp := true
	if err := s.catalog.Ping(ctx); err != nil {
		checks["catalog"] = CheckError
		catalogUp = false
	} else {
		checks["catalog"] = CheckOK
		if n, err := s.catalog.Count(ctx); err == nil {
			features = n
		}
	}

	if s.feed != nil {
		if err := s.feed.Ping(ctx); err != nil {
			checks["event_feed"] = CheckError
		} else {
			checks["event_feed"] = CheckOK
		}
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
	if !catalogUp {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Features: features}
}
