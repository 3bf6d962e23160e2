// Package audit records security and data-mutation events as console
// activity items and structured log entries.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medadhere/console/pkg/api"
	"github.com/medadhere/console/pkg/observability"
)

// EventType categorizes an audit event
type EventType string

const (
	// Authentication events
	EventLogin       EventType = "auth.login"
	EventLoginFailed EventType = "auth.login_failed"
	EventLogout      EventType = "auth.logout"

	// Data mutation events
	EventCohortCreate   EventType = "data.cohort_create"
	EventCohortUpdate   EventType = "data.cohort_update"
	EventCohortDelete   EventType = "data.cohort_delete"
	EventCapUpdate      EventType = "data.cap_update"
	EventQuestionCreate EventType = "data.question_create"

	// System events
	EventRollupComplete EventType = "system.rollup_complete"
)

// activityType maps an event to the activity feed's coarse categories
func (e EventType) activityType() string {
	switch e {
	case EventLogin, EventLoginFailed, EventLogout:
		return "system"
	case EventCohortCreate, EventCohortUpdate, EventCohortDelete:
		return "cohort"
	case EventCapUpdate:
		return "cap"
	case EventQuestionCreate:
		return "system"
	default:
		return "system"
	}
}

// Event is one auditable occurrence
type Event struct {
	Type EventType
	// Actor is the admin email, or empty for anonymous events
	Actor   string
	Message string
}

// ActivityAppender is the slice of the store the recorder needs
type ActivityAppender interface {
	AppendActivity(api.ActivityItem) error
}

// Recorder writes audit events to the activity-log collection and the
// structured log. Append failures are logged but never propagated; auditing
// must not break the operation being audited.
type Recorder struct {
	store  ActivityAppender
	logger *observability.Logger
	now    func() time.Time
}

// NewRecorder creates an audit recorder
func NewRecorder(store ActivityAppender, logger *observability.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record persists one audit event
func (r *Recorder) Record(event Event) {
	entry := r.logger.WithFields(map[string]interface{}{
		"event": string(event.Type),
		"actor": event.Actor,
	})

	// Failed logins log the attempted email only at debug level to avoid
	// leaking probe targets into the default log stream.
	switch event.Type {
	case EventLoginFailed:
		entry.Debug(event.Message)
	default:
		entry.Info(event.Message)
	}

	if r.store == nil {
		return
	}
	item := api.ActivityItem{
		ID:        "act_" + uuid.NewString(),
		Message:   event.Message,
		Timestamp: r.now().UTC(),
		Type:      event.Type.activityType(),
	}
	if err := r.store.AppendActivity(item); err != nil {
		r.logger.WithError(err).Warn("Failed to append activity item")
	}
}

// LoginSucceeded records a successful login
func (r *Recorder) LoginSucceeded(email string) {
	r.Record(Event{
		Type:    EventLogin,
		Actor:   email,
		Message: fmt.Sprintf("Admin %s signed in", email),
	})
}

// LoginFailed records a rejected login attempt. The message never reveals
// whether the email existed.
func (r *Recorder) LoginFailed(email string) {
	r.Record(Event{
		Type:    EventLoginFailed,
		Actor:   email,
		Message: "Login attempt rejected",
	})
}

// LoggedOut records a logout
func (r *Recorder) LoggedOut(email string) {
	r.Record(Event{
		Type:    EventLogout,
		Actor:   email,
		Message: fmt.Sprintf("Admin %s signed out", email),
	})
}

// CohortCreated records a new cohort
func (r *Recorder) CohortCreated(actor, name string) {
	r.Record(Event{
		Type:    EventCohortCreate,
		Actor:   actor,
		Message: fmt.Sprintf("Cohort %q created", name),
	})
}

// CohortUpdated records a cohort edit
func (r *Recorder) CohortUpdated(actor, name string) {
	r.Record(Event{
		Type:    EventCohortUpdate,
		Actor:   actor,
		Message: fmt.Sprintf("Cohort %q updated", name),
	})
}

// CohortDeleted records a cohort removal
func (r *Recorder) CohortDeleted(actor, name string) {
	r.Record(Event{
		Type:    EventCohortDelete,
		Actor:   actor,
		Message: fmt.Sprintf("Cohort %q deleted", name),
	})
}

// CapUpdated records a smart-cap status change
func (r *Recorder) CapUpdated(actor string, capID int) {
	r.Record(Event{
		Type:    EventCapUpdate,
		Actor:   actor,
		Message: fmt.Sprintf("Cap #%d updated", capID),
	})
}

// QuestionCreated records a new survey question
func (r *Recorder) QuestionCreated(actor, text string) {
	r.Record(Event{
		Type:    EventQuestionCreate,
		Actor:   actor,
		Message: fmt.Sprintf("Question added: %s", text),
	})
}
