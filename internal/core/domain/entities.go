package domain

import "strings"

// User roles. Citizens, field officers and admins share one users table and
// are told apart by this column.
const (
	RoleUser    = "USER"
	RoleOfficer = "OFFICER"
	RoleAdmin   = "ADMIN"
)

// SystemActor is the audit-trail actor tag for changes made by the system
// itself (complaint creation, auto-assignment).
const SystemActor = "system"

// Recognized complaint statuses. The status column stays an open string:
// admins may enter values outside this list and the transition engine accepts
// any non-empty status. These constants are UI hints plus the values the
// system writes on its own.
const (
	StatusNew        = "New"
	StatusAssigned   = "Assigned"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// KnownStatuses returns the conventional status vocabulary in lifecycle order.
func KnownStatuses() []string {
	return []string{StatusNew, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}
}

// IsTerminalStatus reports whether a status releases the assigned officer.
// Matching is case-insensitive, so "RESOLVED" and "closed" count too.
func IsTerminalStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "resolved", "closed":
		return true
	}
	return false
}
