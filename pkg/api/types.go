package api

import (
	"context"
	"time"

	"github.com/medadhere/console/pkg/auth"
)

// CohortStatus is the lifecycle state of a study cohort
type CohortStatus string

const (
	CohortActive    CohortStatus = "active"
	CohortUpcoming  CohortStatus = "upcoming"
	CohortCompleted CohortStatus = "completed"
)

// Cohort is a group of study participants sharing a protocol
type Cohort struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Institution      string       `json:"institution"`
	StartDate        string       `json:"startDate"`
	EndDate          string       `json:"endDate"`
	Description      string       `json:"description"`
	Status           CohortStatus `json:"status"`
	CapRangeStart    int          `json:"capRangeStart"`
	CapRangeEnd      int          `json:"capRangeEnd"`
	ParticipantCount int          `json:"participantCount"`
	QuestionIDs      []string     `json:"questionIds"`
}

// CapStatus is the inventory state of a smart cap
type CapStatus string

const (
	CapAvailable CapStatus = "available"
	CapAssigned  CapStatus = "assigned"
	CapBroken    CapStatus = "broken"
)

// Cap is one smart pill-bottle cap in the study inventory
type Cap struct {
	ID         int       `json:"id"`
	Status     CapStatus `json:"status"`
	AssignedTo *string   `json:"assignedTo"`
	CohortID   *string   `json:"cohortId"`
	LastSeen   *string   `json:"lastSeen"`
}

// UserRole distinguishes study participants from community health workers
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RolePatient UserRole = "patient"
	RoleCHW     UserRole = "chw"
)

// User is a study participant or community health worker
type User struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	Email             string   `json:"email"`
	Role              UserRole `json:"role"`
	CohortID          *string  `json:"cohortId"`
	CapID             *int     `json:"capId"`
	DosingRegimen     *string  `json:"dosingRegimen"`
	AssignedCHWID     *string  `json:"assignedChwId"`
	AssignedPatientID *string  `json:"assignedPatientId"`
}

// Question is a survey question from the question bank
type Question struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Options   []string `json:"options,omitempty"`
	CohortIDs []string `json:"cohortIds"`
}

// AdherenceRecord is one participant-day of adherence observations
type AdherenceRecord struct {
	Date            string  `json:"date"`
	UserID          string  `json:"userId"`
	SelfReported    bool    `json:"selfReported"`
	CapOpened       bool    `json:"capOpened"`
	CapTimestamp    *string `json:"capTimestamp"`
	ReportTimestamp *string `json:"reportTimestamp"`
}

// AdherenceSummary is the computed adherence rollup for one cohort
type AdherenceSummary struct {
	CohortID       string    `json:"cohortId"`
	Participants   int       `json:"participants"`
	RecordCount    int       `json:"recordCount"`
	CapOpenRate    float64   `json:"capOpenRate"`
	SelfReportRate float64   `json:"selfReportRate"`
	// AgreementRate is the share of records where the self report and the
	// cap sensor agree
	AgreementRate float64   `json:"agreementRate"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// ActivityItem is one entry in the console activity feed
type ActivityItem struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

// Store is the persistence interface backing the admin API. Implemented by
// pkg/storage over one JSON array file per collection.
type Store interface {
	// Admins returns the admin credential records (read-only for this service)
	Admins() ([]auth.Admin, error)

	Cohorts() ([]Cohort, error)
	SaveCohorts([]Cohort) error

	Caps() ([]Cap, error)
	SaveCaps([]Cap) error

	Users() ([]User, error)

	Questions() ([]Question, error)
	SaveQuestions([]Question) error

	AdherenceRecords() ([]AdherenceRecord, error)

	Activity() ([]ActivityItem, error)
	AppendActivity(ActivityItem) error

	Rollups() ([]AdherenceSummary, error)
	SaveRollups([]AdherenceSummary) error

	// Subscribe registers a callback invoked after every reload or write,
	// used for cache invalidation
	Subscribe(func())

	// Ping reports whether the backing data directory is usable
	Ping(ctx context.Context) error
}
