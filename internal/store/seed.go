package store

import "github.com/bissquit/aiops-garden/internal/domain"

// Seed is the initial content of a Store.
type Seed struct {
	Incidents       []domain.Incident
	SelfHealingLogs []domain.SelfHealingLogEntry
	ReleaseNotes    []domain.ReleaseNote
	RiskScores      domain.RiskScores
}

// DefaultSeed returns the demo datasets served by the dashboard.
// Release notes are listed most recent first.
func DefaultSeed() Seed {
	return Seed{
		Incidents: []domain.Incident{
			{
				ID:        1,
				Title:     "Database latency spike",
				Timestamp: "2025-04-06 10:32",
				Status:    domain.IncidentStatusOpen,
				RootCause: "Unindexed query",
				Impact:    "High latency in user login",
			},
			{
				ID:        2,
				Title:     "Pod restart loop in staging",
				Timestamp: "2025-04-06 09:15",
				Status:    domain.IncidentStatusResolved,
				RootCause: "Misconfigured health check",
				Impact:    "Intermittent downtime in staging",
			},
			{
				ID:        3,
				Title:     "Memory leak in image processor",
				Timestamp: "2025-04-05 17:45",
				Status:    domain.IncidentStatusResolved,
				RootCause: "Unreleased buffer",
				Impact:    "Increased memory usage",
			},
			{
				ID:        4,
				Title:     "Timeouts on payment API",
				Timestamp: "2025-04-04 12:22",
				Status:    domain.IncidentStatusOpen,
				RootCause: "Slow third-party service",
				Impact:    "Payment failures",
			},
		},
		SelfHealingLogs: []domain.SelfHealingLogEntry{
			{Timestamp: "2025-04-06 09:45", Action: "Restarted service", Status: domain.HealingStatusSuccess},
			{Timestamp: "2025-04-05 13:10", Action: "Rolled back deployment", Status: domain.HealingStatusSuccess},
		},
		ReleaseNotes: []domain.ReleaseNote{
			{Version: "v3.4", Changes: []string{"Improved cache performance", "Fixed auth token refresh bug"}},
			{Version: "v3.3", Changes: []string{"Upgraded PostgreSQL", "Optimized image delivery"}},
			{Version: "v3.2", Changes: []string{"Introduced feature flags", "Added login audit logs"}},
		},
		RiskScores: domain.NewRiskScores(
			domain.RiskEntry{PR: "PR#1221", RiskScore: domain.RiskScore{Score: 7.8, Reason: "Infra config drift + missing unit tests"}},
			domain.RiskEntry{PR: "PR#1222", RiskScore: domain.RiskScore{Score: 3.2, Reason: "Minor UI text changes"}},
			domain.RiskEntry{PR: "PR#1223", RiskScore: domain.RiskScore{Score: 6.5, Reason: "New DB index might affect writes"}},
		),
	}
}
