package adherence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/auth"
	"github.com/medadhere/console/pkg/observability"
)

func strPtr(s string) *string { return &s }

func testUsers() []api.User {
	return []api.User{
		{ID: "u1", Role: api.RolePatient, CohortID: strPtr("coh_1")},
		{ID: "u2", Role: api.RolePatient, CohortID: strPtr("coh_1")},
		{ID: "u3", Role: api.RolePatient, CohortID: strPtr("coh_2")},
		// CHWs are not participants even when attached to the cohort
		{ID: "u4", Role: api.RoleCHW, CohortID: strPtr("coh_1")},
		{ID: "u5", Role: api.RolePatient, CohortID: nil},
	}
}

func testRecords() []api.AdherenceRecord {
	return []api.AdherenceRecord{
		{UserID: "u1", Date: "2026-02-01", CapOpened: true, SelfReported: true},
		{UserID: "u1", Date: "2026-02-02", CapOpened: true, SelfReported: false},
		{UserID: "u2", Date: "2026-02-01", CapOpened: false, SelfReported: true},
		{UserID: "u2", Date: "2026-02-02", CapOpened: false, SelfReported: false},
		// Other cohort, must be excluded
		{UserID: "u3", Date: "2026-02-01", CapOpened: true, SelfReported: true},
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary := Summarize("coh_1", testUsers(), testRecords(), now)

	assert.Equal(t, "coh_1", summary.CohortID)
	assert.Equal(t, 2, summary.Participants)
	assert.Equal(t, 4, summary.RecordCount)
	assert.InDelta(t, 0.5, summary.CapOpenRate, 1e-9)
	assert.InDelta(t, 0.5, summary.SelfReportRate, 1e-9)
	assert.InDelta(t, 0.5, summary.AgreementRate, 1e-9)
	assert.Equal(t, now, summary.GeneratedAt)
}

func TestSummarize_EmptyCohort(t *testing.T) {
	summary := Summarize("coh_empty", testUsers(), testRecords(), time.Now())
	assert.Zero(t, summary.Participants)
	assert.Zero(t, summary.RecordCount)
	assert.Zero(t, summary.CapOpenRate)
}

// stubStore is an in-memory api.Store for service tests
type stubStore struct {
	users   []api.User
	records []api.AdherenceRecord
	cohorts []api.Cohort
	rollups []api.AdherenceSummary

	subs      []func()
	userReads int
}

func (s *stubStore) Admins() ([]auth.Admin, error) { return nil, nil }
func (s *stubStore) Cohorts() ([]api.Cohort, error) { return s.cohorts, nil }
func (s *stubStore) SaveCohorts(c []api.Cohort) error {
	s.cohorts = c
	s.notify()
	return nil
}
func (s *stubStore) Caps() ([]api.Cap, error)      { return nil, nil }
func (s *stubStore) SaveCaps([]api.Cap) error      { return nil }
func (s *stubStore) Users() ([]api.User, error) {
	s.userReads++
	return s.users, nil
}
func (s *stubStore) Questions() ([]api.Question, error)               { return nil, nil }
func (s *stubStore) SaveQuestions([]api.Question) error               { return nil }
func (s *stubStore) AdherenceRecords() ([]api.AdherenceRecord, error) { return s.records, nil }
func (s *stubStore) Activity() ([]api.ActivityItem, error)            { return nil, nil }
func (s *stubStore) AppendActivity(api.ActivityItem) error            { return nil }
func (s *stubStore) Rollups() ([]api.AdherenceSummary, error)         { return s.rollups, nil }
func (s *stubStore) SaveRollups(r []api.AdherenceSummary) error {
	s.rollups = r
	return nil
}
func (s *stubStore) Subscribe(fn func())          { s.subs = append(s.subs, fn) }
func (s *stubStore) Ping(ctx context.Context) error { return nil }

func (s *stubStore) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

func newTestService(t *testing.T, store *stubStore) *Service {
	t.Helper()
	svc, err := NewService(store, observability.NewLogger(observability.ErrorLevel, os.Stderr), nil)
	require.NoError(t, err)
	return svc
}

func TestService_CohortSummaryIsCached(t *testing.T) {
	store := &stubStore{users: testUsers(), records: testRecords()}
	svc := newTestService(t, store)

	first, err := svc.CohortSummary("coh_1")
	require.NoError(t, err)
	second, err := svc.CohortSummary("coh_1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.userReads, "second call must come from cache")
}

func TestService_CacheInvalidatedOnStoreChange(t *testing.T) {
	store := &stubStore{users: testUsers(), records: testRecords()}
	svc := newTestService(t, store)

	_, err := svc.CohortSummary("coh_1")
	require.NoError(t, err)

	// Any store write purges the cache
	require.NoError(t, store.SaveCohorts([]api.Cohort{{ID: "coh_1"}}))

	_, err = svc.CohortSummary("coh_1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.userReads)
}

func TestService_RunRollup(t *testing.T) {
	store := &stubStore{
		users:   testUsers(),
		records: testRecords(),
		cohorts: []api.Cohort{{ID: "coh_1"}, {ID: "coh_2"}},
	}
	svc := newTestService(t, store)

	require.NoError(t, svc.RunRollup(context.Background()))
	require.Len(t, store.rollups, 2)
	assert.Equal(t, "coh_1", store.rollups[0].CohortID)
	assert.Equal(t, "coh_2", store.rollups[1].CohortID)
	assert.Equal(t, 1, store.rollups[1].RecordCount)
}

func TestService_RunRollupHonorsCancellation(t *testing.T) {
	store := &stubStore{cohorts: []api.Cohort{{ID: "coh_1"}}}
	svc := newTestService(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.RunRollup(ctx), context.Canceled)
}
