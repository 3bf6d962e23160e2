package adherence

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/observability"
)

// cacheSize bounds the per-cohort summary cache. Studies run a handful of
// cohorts at a time, so this is generous.
const cacheSize = 128

// Service serves cohort adherence summaries with an LRU cache over the
// (comparatively expensive) full-record scan. The cache is purged whenever
// the store reports a change.
type Service struct {
	store   api.Store
	logger  *observability.Logger
	metrics *observability.Metrics
	cache   *lru.Cache[string, api.AdherenceSummary]
	now     func() time.Time
}

// NewService creates the adherence service and subscribes it to store
// change notifications
func NewService(store api.Store, logger *observability.Logger, metrics *observability.Metrics) (*Service, error) {
	cache, err := lru.New[string, api.AdherenceSummary](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}

	s := &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
		cache:   cache,
		now:     time.Now,
	}
	store.Subscribe(s.invalidate)
	return s, nil
}

func (s *Service) invalidate() {
	s.cache.Purge()
}

// CohortSummary returns the adherence rollup for one cohort, from cache when
// the underlying data has not changed since the last computation
func (s *Service) CohortSummary(cohortID string) (api.AdherenceSummary, error) {
	if summary, ok := s.cache.Get(cohortID); ok {
		return summary, nil
	}

	users, err := s.store.Users()
	if err != nil {
		return api.AdherenceSummary{}, err
	}
	records, err := s.store.AdherenceRecords()
	if err != nil {
		return api.AdherenceSummary{}, err
	}

	summary := Summarize(cohortID, users, records, s.now())
	s.cache.Add(cohortID, summary)
	return summary, nil
}

// RunRollup recomputes the summaries for every cohort and persists them to
// the adherence-rollups collection. Scheduled nightly; also invocable on
// demand.
func (s *Service) RunRollup(ctx context.Context) error {
	start := s.now()

	cohorts, err := s.store.Cohorts()
	if err != nil {
		s.recordRollup(false, start)
		return fmt.Errorf("rollup failed to list cohorts: %w", err)
	}

	rollups := make([]api.AdherenceSummary, 0, len(cohorts))
	for _, cohort := range cohorts {
		if err := ctx.Err(); err != nil {
			s.recordRollup(false, start)
			return err
		}
		summary, err := s.CohortSummary(cohort.ID)
		if err != nil {
			s.recordRollup(false, start)
			return fmt.Errorf("rollup failed for cohort %s: %w", cohort.ID, err)
		}
		rollups = append(rollups, summary)
	}

	if err := s.store.SaveRollups(rollups); err != nil {
		s.recordRollup(false, start)
		return fmt.Errorf("rollup failed to persist: %w", err)
	}

	s.recordRollup(true, start)
	s.logger.WithField("cohorts", len(rollups)).Info("adherence rollup complete")
	return nil
}

func (s *Service) recordRollup(success bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRollup(success, s.now().Sub(start))
	}
}
