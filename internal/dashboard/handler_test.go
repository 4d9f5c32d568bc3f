package dashboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bissquit/aiops-garden/internal/domain"
	"github.com/bissquit/aiops-garden/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, s *store.Store) http.Handler {
	t.Helper()
	page, err := NewPage()
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(s, page).RegisterRoutes(r)
	return r
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ListIncidents(t *testing.T) {
	router := newTestRouter(t, store.NewDefault())

	rec := get(t, router, "/incidents")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"id":1,"title":"Database latency spike","timestamp":"2025-04-06 10:32","status":"open","root_cause":"Unindexed query","impact":"High latency in user login"},
		{"id":2,"title":"Pod restart loop in staging","timestamp":"2025-04-06 09:15","status":"resolved","root_cause":"Misconfigured health check","impact":"Intermittent downtime in staging"},
		{"id":3,"title":"Memory leak in image processor","timestamp":"2025-04-05 17:45","status":"resolved","root_cause":"Unreleased buffer","impact":"Increased memory usage"},
		{"id":4,"title":"Timeouts on payment API","timestamp":"2025-04-04 12:22","status":"open","root_cause":"Slow third-party service","impact":"Payment failures"}
	]`, rec.Body.String())
}

func TestHandler_ListReleaseNotes(t *testing.T) {
	router := newTestRouter(t, store.NewDefault())

	rec := get(t, router, "/release-notes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"version":"v3.4","changes":["Improved cache performance","Fixed auth token refresh bug"]},
		{"version":"v3.3","changes":["Upgraded PostgreSQL","Optimized image delivery"]},
		{"version":"v3.2","changes":["Introduced feature flags","Added login audit logs"]}
	]`, rec.Body.String())
}

func TestHandler_ListRiskScores(t *testing.T) {
	router := newTestRouter(t, store.NewDefault())

	rec := get(t, router, "/risk")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`{"PR#1221":{"score":7.8,"reason":"Infra config drift + missing unit tests"},`+
			`"PR#1222":{"score":3.2,"reason":"Minor UI text changes"},`+
			`"PR#1223":{"score":6.5,"reason":"New DB index might affect writes"}}`+"\n",
		rec.Body.String())
}

func TestHandler_ListSelfHealingLogs_ReflectsAppends(t *testing.T) {
	s := store.NewDefault()
	router := newTestRouter(t, s)

	rec := get(t, router, "/self-healing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"timestamp":"2025-04-06 09:45","action":"Restarted service","status":"Success"},
		{"timestamp":"2025-04-05 13:10","action":"Rolled back deployment","status":"Success"}
	]`, rec.Body.String())

	s.AppendSelfHealingLog(domain.SelfHealingLogEntry{
		Timestamp: "2025-04-07 11:00:00",
		Action:    "Rebuilt container image",
		Status:    domain.HealingStatusSuccess,
	})

	rec = get(t, router, "/self-healing")
	assert.JSONEq(t, `[
		{"timestamp":"2025-04-06 09:45","action":"Restarted service","status":"Success"},
		{"timestamp":"2025-04-05 13:10","action":"Rolled back deployment","status":"Success"},
		{"timestamp":"2025-04-07 11:00:00","action":"Rebuilt container image","status":"Success"}
	]`, rec.Body.String())
}

func TestHandler_ReadOnlyEndpointsAreIdempotent(t *testing.T) {
	s := store.NewDefault()
	router := newTestRouter(t, s)

	for _, path := range []string{"/incidents", "/release-notes", "/risk"} {
		t.Run(path, func(t *testing.T) {
			first := get(t, router, path).Body.Bytes()
			// appends must not affect the read-only datasets
			s.AppendSelfHealingLog(domain.SelfHealingLogEntry{Action: "Purged cache", Status: domain.HealingStatusSuccess})
			second := get(t, router, path).Body.Bytes()

			assert.Equal(t, first, second)
		})
	}
}

func TestHandler_EmptyStore(t *testing.T) {
	s, err := store.New(store.Seed{})
	require.NoError(t, err)
	router := newTestRouter(t, s)

	assert.Equal(t, "[]\n", get(t, router, "/incidents").Body.String())
	assert.Equal(t, "[]\n", get(t, router, "/self-healing").Body.String())
	assert.Equal(t, "[]\n", get(t, router, "/release-notes").Body.String())
	assert.Equal(t, "{}\n", get(t, router, "/risk").Body.String())
}

func TestHandler_Index(t *testing.T) {
	router := newTestRouter(t, store.NewDefault())

	rec := get(t, router, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "Database latency spike")
	assert.Contains(t, html, ">Open<")
	assert.Contains(t, html, ">Resolved<")
	assert.Contains(t, html, "Improved cache performance, Fixed auth token refresh bug")
	assert.Contains(t, html, `class="risk-high">7.8/10`)
	assert.Contains(t, html, `class="risk-low">3.2/10`)
	assert.Contains(t, html, "Rolled back deployment")
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, "high", riskLevel(7.8))
	assert.Equal(t, "medium", riskLevel(6.5))
	assert.Equal(t, "medium", riskLevel(4))
	assert.Equal(t, "low", riskLevel(3.2))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Open", titleCase("open"))
	assert.Equal(t, "Resolved", titleCase("resolved"))
	assert.Equal(t, "Rolled Back Deployment", titleCase("rolled back deployment"))
}

func TestHandler_Index_ConcurrentRenders(t *testing.T) {
	router := newTestRouter(t, store.NewDefault())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := get(t, router, "/")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), ">Resolved<")
		}()
	}
	wg.Wait()
}
