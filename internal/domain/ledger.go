package domain

import "time"

type AccessEventType string

const (
	EventCheckIn  AccessEventType = "check_in"
	EventCheckOut AccessEventType = "check_out"
)

// Toggle returns the event type that follows this one. An absent or
// checked-out state toggles to check_in; a checked-in state to check_out.
func (t AccessEventType) Toggle() AccessEventType {
	if t == EventCheckIn {
		return EventCheckOut
	}
	return EventCheckIn
}

// AccessLogEntry is one row of the append-only entry/exit ledger, keyed by
// credential token rather than application id. Entries are never updated
// or deleted; on-site presence is derived from the latest entry per token.
type AccessLogEntry struct {
	ID        string
	QRID      string
	EventType AccessEventType
	Timestamp time.Time
}

// ScanResult is what the guard station renders after a scan.
type ScanResult struct {
	ApplicantName string
	EventType     AccessEventType
	Status        ApplicationStatus
}

type DailyStat struct {
	Date    string
	Entered int
	Exited  int
}

type StatusCounts struct {
	Pending  int
	Approved int
	Rejected int
}

type DashboardStats struct {
	Daily        []DailyStat
	OnSiteNow    int
	ExitedToday  int
	StatusCounts StatusCounts
}
