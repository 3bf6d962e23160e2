package api

import (
	"net/http"
	"strconv"

	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/observability"
)

// capUpdateRequest is the PUT /api/caps/{id} body
type capUpdateRequest struct {
	Status     string  `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	CohortID   *string `json:"cohortId"`
}

// listCaps returns the smart-cap inventory, optionally filtered by status
func (s *Server) listCaps(w http.ResponseWriter, r *http.Request) {
	caps, err := s.store.Caps()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list caps")
		httputil.WriteInternalError(w)
		return
	}

	status := httputil.ParseQueryString(r, "status", "")
	if status == "" {
		httputil.WriteSuccess(w, caps)
		return
	}

	filtered := make([]Cap, 0, len(caps))
	for _, c := range caps {
		if c.Status == CapStatus(status) {
			filtered = append(filtered, c)
		}
	}
	httputil.WriteSuccess(w, filtered)
}

// updateCap changes a cap's inventory status and assignment
func (s *Server) updateCap(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	raw, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "cap id must be an integer")
		return
	}

	var req capUpdateRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	switch CapStatus(req.Status) {
	case CapAvailable, CapAssigned, CapBroken:
	default:
		httputil.WriteBadRequest(w, "Invalid cap status")
		return
	}

	caps, err := s.store.Caps()
	if err != nil {
		logger.WithError(err).Error("Failed to list caps")
		httputil.WriteInternalError(w)
		return
	}

	for i := range caps {
		if caps[i].ID != id {
			continue
		}
		caps[i].Status = CapStatus(req.Status)
		caps[i].AssignedTo = req.AssignedTo
		caps[i].CohortID = req.CohortID
		if caps[i].Status != CapAssigned {
			caps[i].AssignedTo = nil
		}

		if err := s.store.SaveCaps(caps); err != nil {
			logger.WithError(err).Error("Failed to save caps")
			httputil.WriteInternalError(w)
			return
		}
		if s.audit != nil {
			s.audit.CapUpdated(s.actor(r), id)
		}
		httputil.WriteSuccess(w, caps[i])
		return
	}
	httputil.WriteNotFound(w, "cap not found")
}
