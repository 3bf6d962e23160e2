// Package api implements the admin console HTTP surface: the session
// endpoints (login, logout, session introspection), the gated dashboard
// pages, and the session-protected data API over cohorts, users, smart caps,
// survey questions, adherence analytics, and the activity feed.
//
// The package also defines the domain types and the Store interface the rest
// of the service is built against; pkg/storage provides the JSON-file
// implementation.
package api
