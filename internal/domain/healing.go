package domain

// HealingTimeLayout is the timestamp layout of generated self-healing entries.
const HealingTimeLayout = "2006-01-02 15:04:05"

type HealingStatus string

const (
	HealingStatusSuccess HealingStatus = "Success"
)

// SelfHealingLogEntry records one automated remediation and its outcome.
type SelfHealingLogEntry struct {
	Timestamp string        `json:"timestamp"`
	Action    string        `json:"action"`
	Status    HealingStatus `json:"status"`
}
