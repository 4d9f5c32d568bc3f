// Package assistant answers chat messages by matching keywords to canned intents.
package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bissquit/aiops-garden/internal/domain"
)

// Intent names.
const (
	IntentIncidents    = "incidents"
	IntentSelfHeal     = "self_heal"
	IntentPostmortem   = "postmortem"
	IntentReleaseNotes = "release_notes"
	IntentRisk         = "risk"
	IntentDocs         = "docs"
	IntentTests        = "tests"
	IntentHelp         = "help"
)

// Canned responses.
const (
	DocsResponse  = "📝 Generated AI documentation from Jira + Git. Summary: Feature complete, 95% test pass rate, ready for release."
	TestsResponse = "🔬 Smart Test Agent: 3 flaky tests detected, 2 redundant tests skipped. Coverage at 92%."
	HelpResponse  = "🤖 Try asking about incidents, postmortems, self-healing, risks, tests, or docs!"

	noIncidentsResponse    = "No incidents recorded yet."
	noReleaseNotesResponse = "No release notes published yet."
	noRiskScoresResponse   = "No pull requests have been scored yet."
)

// DatasetReader provides read access to the dashboard datasets.
type DatasetReader interface {
	Incidents() []domain.Incident
	ReleaseNotes() []domain.ReleaseNote
	RiskScores() domain.RiskScores
}

// Healer triggers a self-healing action.
type Healer interface {
	Simulate(ctx context.Context) domain.SelfHealingLogEntry
}

// Intent is one entry of the dispatch table.
// Match receives the lowercased message.
type Intent struct {
	Name    string
	Match   func(msg string) bool
	Respond func(ctx context.Context) string
}

// Reply is the outcome of dispatching a message.
type Reply struct {
	Intent string
	Text   string
}

// Dispatcher evaluates intents in order and answers with the first match.
type Dispatcher struct {
	data    DatasetReader
	healer  Healer
	intents []Intent
}

// NewDispatcher creates a dispatcher with the standard intent table.
func NewDispatcher(data DatasetReader, healer Healer) *Dispatcher {
	d := &Dispatcher{
		data:   data,
		healer: healer,
	}
	d.intents = []Intent{
		{Name: IntentIncidents, Match: containsAny("incident"), Respond: d.incidents},
		{Name: IntentSelfHeal, Match: containsAny("self-heal"), Respond: d.selfHeal},
		{Name: IntentPostmortem, Match: containsAny("postmortem"), Respond: d.postmortem},
		{Name: IntentReleaseNotes, Match: containsAny("release note"), Respond: d.releaseNotes},
		{Name: IntentRisk, Match: containsAny("risk"), Respond: d.risk},
		{Name: IntentDocs, Match: containsAny("doc", "confluence"), Respond: fixed(DocsResponse)},
		{Name: IntentTests, Match: containsAny("test"), Respond: fixed(TestsResponse)},
	}
	return d
}

// Intents returns the dispatch table in evaluation order.
func (d *Dispatcher) Intents() []Intent {
	out := make([]Intent, len(d.intents))
	copy(out, d.intents)
	return out
}

// Dispatch answers message. It never fails; unmatched messages get the help text.
// Matching runs on strings.ToLower(message), i.e. Go's Unicode lowercasing
// (U+0130 "İ" becomes a plain "i").
func (d *Dispatcher) Dispatch(ctx context.Context, message string) Reply {
	msg := strings.ToLower(message)

	for _, intent := range d.intents {
		if intent.Match(msg) {
			intentsMatched.WithLabelValues(intent.Name).Inc()
			return Reply{Intent: intent.Name, Text: intent.Respond(ctx)}
		}
	}

	intentsMatched.WithLabelValues(IntentHelp).Inc()
	return Reply{Intent: IntentHelp, Text: HelpResponse}
}

// Respond is Dispatch without the intent name.
func (d *Dispatcher) Respond(ctx context.Context, message string) string {
	return d.Dispatch(ctx, message).Text
}

func (d *Dispatcher) incidents(_ context.Context) string {
	return fmt.Sprintf("There are %d incidents. Use the Incident tab for details or ask for a postmortem.",
		len(d.data.Incidents()))
}

func (d *Dispatcher) selfHeal(ctx context.Context) string {
	fix := d.healer.Simulate(ctx)
	return fmt.Sprintf("✅ Self-healing triggered: %s at %s", fix.Action, fix.Timestamp)
}

func (d *Dispatcher) postmortem(_ context.Context) string {
	incidents := d.data.Incidents()
	if len(incidents) == 0 {
		return noIncidentsResponse
	}

	first := incidents[0]
	return fmt.Sprintf("Incident: %s\nRoot Cause: %s\nImpact: %s", first.Title, first.RootCause, first.Impact)
}

func (d *Dispatcher) releaseNotes(_ context.Context) string {
	notes := d.data.ReleaseNotes()
	if len(notes) == 0 {
		return noReleaseNotesResponse
	}

	latest := notes[0]
	return fmt.Sprintf("🚀 Release %s includes: %s", latest.Version, strings.Join(latest.Changes, ", "))
}

func (d *Dispatcher) risk(_ context.Context) string {
	entries := d.data.RiskScores().Entries()
	if len(entries) == 0 {
		return noRiskScoresResponse
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("⚠️ %s Risk Score: %s/10 – %s",
			e.PR, strconv.FormatFloat(e.Score, 'f', -1, 64), e.Reason))
	}
	return strings.Join(lines, "\n")
}

func containsAny(triggers ...string) func(string) bool {
	return func(msg string) bool {
		for _, t := range triggers {
			if strings.Contains(msg, t) {
				return true
			}
		}
		return false
	}
}

func fixed(text string) func(context.Context) string {
	return func(context.Context) string {
		return text
	}
}
