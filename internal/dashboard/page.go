package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/bissquit/aiops-garden/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTemplate = "templates/index.html.tmpl"

// titleCaser is shared by all renders. A Caser keeps state between calls, so
// access goes through titleMu.
var (
	titleCaser = cases.Title(language.English)
	titleMu    sync.Mutex
)

// PageData is the view model of the dashboard page.
type PageData struct {
	Incidents       []domain.Incident
	SelfHealingLogs []domain.SelfHealingLogEntry
	ReleaseNotes    []domain.ReleaseNote
	RiskScores      []domain.RiskEntry
}

// Page renders the dashboard HTML.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded page template.
func NewPage() (*Page, error) {
	funcMap := template.FuncMap{
		"title":       titleCase,
		"join":        strings.Join,
		"formatScore": formatScore,
		"riskLevel":   riskLevel,
	}

	content, err := templatesFS.ReadFile(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", pageTemplate, err)
	}

	tmpl, err := template.New("index").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}

	return &Page{tmpl: tmpl}, nil
}

// Render executes the page template with data.
func (p *Page) Render(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

func titleCase(s string) string {
	titleMu.Lock()
	defer titleMu.Unlock()
	return titleCaser.String(s)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// riskLevel buckets a 0-10 score for styling.
func riskLevel(score float64) string {
	switch {
	case score >= 7:
		return "high"
	case score >= 4:
		return "medium"
	default:
		return "low"
	}
}
