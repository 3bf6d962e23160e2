package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/middleware"
	"github.com/medadhere/console/pkg/observability"
)

// cohortRequest is the create/update body for a cohort
type cohortRequest struct {
	Name          string   `json:"name"`
	Institution   string   `json:"institution"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	CapRangeStart int      `json:"capRangeStart"`
	CapRangeEnd   int      `json:"capRangeEnd"`
	QuestionIDs   []string `json:"questionIds"`
}

func (req *cohortRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "Cohort name is required"
	}
	switch CohortStatus(req.Status) {
	case CohortActive, CohortUpcoming, CohortCompleted:
	case "":
		req.Status = string(CohortUpcoming)
	default:
		return "Invalid cohort status"
	}
	if req.CapRangeEnd < req.CapRangeStart {
		return "Cap range end must not precede its start"
	}
	return ""
}

func (s *Server) listCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.store.Cohorts()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}
	httputil.WriteSuccess(w, cohorts)
}

func (s *Server) getCohort(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	cohorts, err := s.store.Cohorts()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}
	for _, cohort := range cohorts {
		if cohort.ID == id {
			httputil.WriteSuccess(w, cohort)
			return
		}
	}
	httputil.WriteNotFound(w, "cohort not found")
}

func (s *Server) createCohort(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	var req cohortRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteBadRequest(w, msg)
		return
	}

	cohorts, err := s.store.Cohorts()
	if err != nil {
		logger.WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}

	cohort := Cohort{
		ID:            "coh_" + uuid.NewString(),
		Name:          req.Name,
		Institution:   req.Institution,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Description:   req.Description,
		Status:        CohortStatus(req.Status),
		CapRangeStart: req.CapRangeStart,
		CapRangeEnd:   req.CapRangeEnd,
		QuestionIDs:   req.QuestionIDs,
	}
	if cohort.QuestionIDs == nil {
		cohort.QuestionIDs = []string{}
	}

	if err := s.store.SaveCohorts(append(cohorts, cohort)); err != nil {
		logger.WithError(err).Error("Failed to save cohorts")
		httputil.WriteInternalError(w)
		return
	}

	if s.audit != nil {
		s.audit.CohortCreated(s.actor(r), cohort.Name)
	}
	httputil.WriteCreated(w, cohort)
}

func (s *Server) updateCohort(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req cohortRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		httputil.WriteBadRequest(w, msg)
		return
	}

	cohorts, err := s.store.Cohorts()
	if err != nil {
		logger.WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}

	for i := range cohorts {
		if cohorts[i].ID != id {
			continue
		}
		cohorts[i].Name = req.Name
		cohorts[i].Institution = req.Institution
		cohorts[i].StartDate = req.StartDate
		cohorts[i].EndDate = req.EndDate
		cohorts[i].Description = req.Description
		cohorts[i].Status = CohortStatus(req.Status)
		cohorts[i].CapRangeStart = req.CapRangeStart
		cohorts[i].CapRangeEnd = req.CapRangeEnd
		if req.QuestionIDs != nil {
			cohorts[i].QuestionIDs = req.QuestionIDs
		}

		if err := s.store.SaveCohorts(cohorts); err != nil {
			logger.WithError(err).Error("Failed to save cohorts")
			httputil.WriteInternalError(w)
			return
		}
		if s.audit != nil {
			s.audit.CohortUpdated(s.actor(r), cohorts[i].Name)
		}
		httputil.WriteSuccess(w, cohorts[i])
		return
	}
	httputil.WriteNotFound(w, "cohort not found")
}

func (s *Server) deleteCohort(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	cohorts, err := s.store.Cohorts()
	if err != nil {
		logger.WithError(err).Error("Failed to list cohorts")
		httputil.WriteInternalError(w)
		return
	}

	for i := range cohorts {
		if cohorts[i].ID != id {
			continue
		}
		name := cohorts[i].Name
		remaining := append(cohorts[:i:i], cohorts[i+1:]...)
		if err := s.store.SaveCohorts(remaining); err != nil {
			logger.WithError(err).Error("Failed to save cohorts")
			httputil.WriteInternalError(w)
			return
		}
		if s.audit != nil {
			s.audit.CohortDeleted(s.actor(r), name)
		}
		httputil.WriteNoContent(w)
		return
	}
	httputil.WriteNotFound(w, "cohort not found")
}

// actor returns the authenticated admin's email for audit attribution
func (s *Server) actor(r *http.Request) string {
	if claims := middleware.SessionFromContext(r); claims != nil {
		return claims.Email
	}
	return ""
}
