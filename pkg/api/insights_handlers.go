package api

import (
	"net/http"
	"sort"

	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/observability"
)

// defaultActivityLimit caps the activity feed response
const defaultActivityLimit = 50

// dashboardStats is the GET /api/dashboard/stats response
type dashboardStats struct {
	ActiveCohorts    int `json:"activeCohorts"`
	TotalPatients    int `json:"totalPatients"`
	TotalCHWs        int `json:"totalChws"`
	CapsAvailable    int `json:"capsAvailable"`
	CapsAssigned     int `json:"capsAssigned"`
	CapsBroken       int `json:"capsBroken"`
	AdherenceRecords int `json:"adherenceRecords"`
}

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	cohorts, err := s.store.Cohorts()
	if err != nil {
		logger.WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}
	users, err := s.store.Users()
	if err != nil {
		logger.WithError(err).Error("Failed to list users")
		httputil.WriteInternalError(w)
		return
	}
	caps, err := s.store.Caps()
	if err != nil {
		logger.WithError(err).Error("Failed to list caps")
		httputil.WriteInternalError(w)
		return
	}
	records, err := s.store.AdherenceRecords()
	if err != nil {
		logger.WithError(err).Error("Failed to list adherence records")
		httputil.WriteInternalError(w)
		return
	}

	stats := dashboardStats{AdherenceRecords: len(records)}
	for _, c := range cohorts {
		if c.Status == CohortActive {
			stats.ActiveCohorts++
		}
	}
	for _, u := range users {
		switch u.Role {
		case RolePatient:
			stats.TotalPatients++
		case RoleCHW:
			stats.TotalCHWs++
		}
	}
	for _, c := range caps {
		switch c.Status {
		case CapAvailable:
			stats.CapsAvailable++
		case CapAssigned:
			stats.CapsAssigned++
		case CapBroken:
			stats.CapsBroken++
		}
	}

	httputil.WriteSuccess(w, stats)
}

// cohortAdherence returns the cached adherence summary for one cohort
func (s *Server) cohortAdherence(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	summary, err := s.adherence.CohortSummary(id)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to summarize cohort")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, summary)
}

// listAdherenceRecords returns raw adherence records, optionally filtered by
// user and date range
func (s *Server) listAdherenceRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.AdherenceRecords()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list adherence records")
		httputil.WriteInternalError(w)
		return
	}

	userID := httputil.ParseQueryString(r, "userId", "")
	from := httputil.ParseQueryString(r, "from", "")
	to := httputil.ParseQueryString(r, "to", "")
	if userID == "" && from == "" && to == "" {
		httputil.WriteSuccess(w, records)
		return
	}

	// Dates are ISO yyyy-mm-dd strings, so lexical comparison is correct
	filtered := make([]AdherenceRecord, 0, len(records))
	for _, rec := range records {
		if userID != "" && rec.UserID != userID {
			continue
		}
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		filtered = append(filtered, rec)
	}
	httputil.WriteSuccess(w, filtered)
}

// recentActivity returns the newest activity items, most recent first
func (s *Server) recentActivity(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.Activity()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list activity")
		httputil.WriteInternalError(w)
		return
	}

	limit, err := httputil.ParseQueryInt(r, "limit", defaultActivityLimit)
	if err != nil || limit <= 0 {
		httputil.WriteBadRequest(w, "limit must be a positive integer")
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	httputil.WriteSuccess(w, items)
}
