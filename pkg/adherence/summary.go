// Package adherence computes adherence analytics over the raw
// participant-day records.
package adherence

import (
	"time"

	"github.com/medadhere/console/pkg/api"
)

// Summarize computes the adherence rollup for one cohort from the full user
// and record sets. Records belonging to users outside the cohort are ignored.
func Summarize(cohortID string, users []api.User, records []api.AdherenceRecord, now time.Time) api.AdherenceSummary {
	members := make(map[string]bool)
	participants := 0
	for _, u := range users {
		if u.Role != api.RolePatient {
			continue
		}
		if u.CohortID != nil && *u.CohortID == cohortID {
			members[u.ID] = true
			participants++
		}
	}

	summary := api.AdherenceSummary{
		CohortID:     cohortID,
		Participants: participants,
		GeneratedAt:  now.UTC(),
	}

	var opened, reported, agreed int
	for _, rec := range records {
		if !members[rec.UserID] {
			continue
		}
		summary.RecordCount++
		if rec.CapOpened {
			opened++
		}
		if rec.SelfReported {
			reported++
		}
		if rec.CapOpened == rec.SelfReported {
			agreed++
		}
	}

	if summary.RecordCount > 0 {
		n := float64(summary.RecordCount)
		summary.CapOpenRate = float64(opened) / n
		summary.SelfReportRate = float64(reported) / n
		summary.AgreementRate = float64(agreed) / n
	}

	return summary
}
