// Package domain holds the dashboard data model.
package domain

// IncidentTimeLayout is the timestamp layout of incident records.
const IncidentTimeLayout = "2006-01-02 15:04"

type IncidentStatus string

const (
	IncidentStatusOpen     IncidentStatus = "open"
	IncidentStatusResolved IncidentStatus = "resolved"
)

type Incident struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Timestamp string         `json:"timestamp"`
	Status    IncidentStatus `json:"status"`
	RootCause string         `json:"root_cause"`
	Impact    string         `json:"impact"`
}
