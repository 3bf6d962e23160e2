package api

import (
	"net/http"

	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/observability"
)

// listUsers returns all study users, optionally filtered by role or cohort
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.Users()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list users")
		httputil.WriteInternalError(w)
		return
	}

	role := httputil.ParseQueryString(r, "role", "")
	cohortID := httputil.ParseQueryString(r, "cohortId", "")
	if role == "" && cohortID == "" {
		httputil.WriteSuccess(w, users)
		return
	}

	filtered := make([]User, 0, len(users))
	for _, u := range users {
		if role != "" && u.Role != UserRole(role) {
			continue
		}
		if cohortID != "" && (u.CohortID == nil || *u.CohortID != cohortID) {
			continue
		}
		filtered = append(filtered, u)
	}
	httputil.WriteSuccess(w, filtered)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	users, err := s.store.Users()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list users")
		httputil.WriteInternalError(w)
		return
	}
	for _, u := range users {
		if u.ID == id {
			httputil.WriteSuccess(w, u)
			return
		}
	}
	httputil.WriteNotFound(w, "user not found")
}
