package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bissquit/aiops-garden/internal/config"
	"github.com/bissquit/aiops-garden/internal/domain"
	"github.com/bissquit/aiops-garden/internal/healing"
	"github.com/bissquit/aiops-garden/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAPISpec = "../../api/openapi.yaml"

func newTestServer(t *testing.T, mutate func(*config.Config)) (*App, *testutil.Client) {
	t.Helper()

	cfg := config.Default()
	cfg.Chat.RandomSeed = 1
	if mutate != nil {
		mutate(&cfg)
	}

	a, err := NewWithLogger(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)

	return a, testutil.NewClientWithValidation(t, srv.URL, openAPISpec)
}

func chat(t *testing.T, client *testutil.Client, message string) string {
	t.Helper()
	resp, err := client.POST("/chat", map[string]string{"message": message})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Response string `json:"response"`
	}
	testutil.DecodeJSON(t, resp, &body)
	return body.Response
}

func TestApp_DatasetEndpoints(t *testing.T) {
	_, client := newTestServer(t, nil)

	for _, path := range []string{"/incidents", "/self-healing", "/release-notes", "/risk"} {
		t.Run(path, func(t *testing.T) {
			resp, err := client.GET(path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			_ = resp.Body.Close()
		})
	}
}

func TestApp_Chat_Scenarios(t *testing.T) {
	_, client := newTestServer(t, nil)

	assert.Equal(t, "🚀 Release v3.4 includes: Improved cache performance, Fixed auth token refresh bug",
		chat(t, client, "show release notes"))
	assert.Contains(t, chat(t, client, "Tell me about risk of PR#1222"),
		"PR#1222 Risk Score: 3.2/10 – Minor UI text changes")
	assert.Contains(t, chat(t, client, "incident risk report"), "There are 4 incidents")
	assert.Equal(t, "🤖 Try asking about incidents, postmortems, self-healing, risks, tests, or docs!",
		chat(t, client, ""))
}

func TestApp_Chat_SelfHealAppendsOneEntry(t *testing.T) {
	a, client := newTestServer(t, nil)

	var before []domain.SelfHealingLogEntry
	resp, err := client.GET("/self-healing")
	require.NoError(t, err)
	testutil.DecodeJSON(t, resp, &before)

	reply := chat(t, client, "trigger self-heal")

	var after []domain.SelfHealingLogEntry
	resp, err = client.GET("/self-healing")
	require.NoError(t, err)
	testutil.DecodeJSON(t, resp, &after)

	require.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Contains(t, healing.Actions, last.Action)
	assert.Equal(t, domain.HealingStatusSuccess, last.Status)
	assert.Equal(t, "✅ Self-healing triggered: "+last.Action+" at "+last.Timestamp, reply)
	assert.Len(t, a.Store().SelfHealingLogs(), len(after))
}

func TestApp_ReadOnlyEndpointsByteIdentical(t *testing.T) {
	_, client := newTestServer(t, nil)

	for _, path := range []string{"/incidents", "/release-notes", "/risk"} {
		t.Run(path, func(t *testing.T) {
			first, err := client.GET(path)
			require.NoError(t, err)
			second, err := client.GET(path)
			require.NoError(t, err)

			assert.Equal(t, testutil.ReadBody(t, first), testutil.ReadBody(t, second))
		})
	}
}

func TestApp_Chat_InvalidJSON(t *testing.T) {
	_, client := newTestServer(t, nil)

	resp, err := client.POSTRaw("/chat", `{"message":`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"invalid json"}}`, testutil.ReadBody(t, resp))
}

func TestApp_Chat_TrailingDataRejected(t *testing.T) {
	a, client := newTestServer(t, nil)
	before := len(a.Store().SelfHealingLogs())

	resp, err := client.POSTRaw("/chat", `{"message":"self-heal"} trailing garbage`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"invalid json"}}`, testutil.ReadBody(t, resp))
	assert.Len(t, a.Store().SelfHealingLogs(), before)
}

func TestApp_UnknownRoute(t *testing.T) {
	_, client := newTestServer(t, nil)

	// not part of the documented API
	resp, err := client.WithoutValidation().GET("/postmortems")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestApp_Chat_NonStringMessage(t *testing.T) {
	_, client := newTestServer(t, nil)

	resp, err := client.POSTRaw("/chat", `{"message": 12}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, testutil.ReadBody(t, resp), "Try asking about incidents")
}

func TestApp_Chat_RateLimited(t *testing.T) {
	_, client := newTestServer(t, func(cfg *config.Config) {
		cfg.Chat.RateLimit = 0.001
		cfg.Chat.RateBurst = 1
	})

	chat(t, client, "incidents")

	resp, err := client.POST("/chat", map[string]string{"message": "incidents"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_ = resp.Body.Close()

	// dataset endpoints are not limited
	resp, err = client.GET("/incidents")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestApp_Index(t *testing.T) {
	_, client := newTestServer(t, nil)

	resp, err := client.GET("/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, testutil.ReadBody(t, resp), "AIOps Dashboard")
}

func TestApp_Probes(t *testing.T) {
	a, client := newTestServer(t, nil)

	resp, err := client.GET("/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", testutil.ReadBody(t, resp))

	resp, err = client.GET("/readyz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	a.ready.Store(true)
	resp, err = client.GET("/readyz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.GET("/version")
	require.NoError(t, err)
	var v map[string]string
	testutil.DecodeJSON(t, resp, &v)
	assert.Contains(t, v, "version")
	assert.Contains(t, v, "commit")
}

func TestInitLogger(t *testing.T) {
	var buf strings.Builder
	logger := InitLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}
