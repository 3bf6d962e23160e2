package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/medadhere/console/pkg/httputil"
	"github.com/medadhere/console/pkg/observability"
)

// questionRequest is the POST /api/questions body
type questionRequest struct {
	Text      string   `json:"text"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Options   []string `json:"options"`
	CohortIDs []string `json:"cohortIds"`
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.Questions()
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("Failed to list questions")
		httputil.WriteInternalError(w)
		return
	}

	cohortID := httputil.ParseQueryString(r, "cohortId", "")
	if cohortID == "" {
		httputil.WriteSuccess(w, questions)
		return
	}

	filtered := make([]Question, 0, len(questions))
	for _, q := range questions {
		for _, cid := range q.CohortIDs {
			if cid == cohortID {
				filtered = append(filtered, q)
				break
			}
		}
	}
	httputil.WriteSuccess(w, filtered)
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())

	var req questionRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		httputil.WriteBadRequest(w, "Question text is required")
		return
	}
	if req.Type == "" {
		req.Type = "yes_no"
	}

	questions, err := s.store.Questions()
	if err != nil {
		logger.WithError(err).Error("Failed to list questions")
		httputil.WriteInternalError(w)
		return
	}

	question := Question{
		ID:        "q_" + uuid.NewString(),
		Text:      req.Text,
		Type:      req.Type,
		Category:  req.Category,
		Options:   req.Options,
		CohortIDs: req.CohortIDs,
	}
	if question.CohortIDs == nil {
		question.CohortIDs = []string{}
	}

	if err := s.store.SaveQuestions(append(questions, question)); err != nil {
		logger.WithError(err).Error("Failed to save questions")
		httputil.WriteInternalError(w)
		return
	}

	if s.audit != nil {
		s.audit.QuestionCreated(s.actor(r), question.Text)
	}
	httputil.WriteCreated(w, question)
}
