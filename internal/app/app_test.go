package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, mutate func(*Config)) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Inference.Trials = 2000
	cfg.Inference.Seed = 1
	if mutate != nil {
		mutate(&cfg)
	}
	valid, err := NewConfig(cfg)
	require.NoError(t, err)
	return valid
}

func startApp(t *testing.T, cfg *Config) (*App, *testutil.SafeBuffer) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(logs, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, a.Close())
		if os.Getenv("ELEVENDX_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	require.NoError(t, a.Start(context.Background()))
	return a, logs
}

func TestStartEmbedded(t *testing.T) {
	a, logs := startApp(t, testConfig(t, nil))

	brain, err := a.Brain()
	require.NoError(t, err)
	assert.Equal(t, "respiratory", brain.Network().Name)
	assert.Contains(t, logs.String(), "Diagnostic model loaded.")
}

func TestStartHCL(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": testutil.SmokingCancerHCL})
	a, _ := startApp(t, testConfig(t, func(c *Config) {
		c.Source = SourceHCL
		c.NetworkPaths = []string{dir}
	}))

	brain, err := a.Brain()
	require.NoError(t, err)
	assert.Equal(t, []string{"cancer"}, brain.Targets())
}

func TestStartFailure(t *testing.T) {
	boom := errors.New("boom")
	a := NewAppWithSource(&testutil.SafeBuffer{}, testConfig(t, nil), config.SourceFunc(func(context.Context) (*config.Network, error) {
		return nil, boom
	}))
	t.Cleanup(func() { _ = a.Close() })

	err := a.Start(context.Background())
	require.ErrorIs(t, err, boom)

	rec := httptest.NewRecorder()
	a.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"failed"`)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestRouter(t *testing.T) {
	a, _ := startApp(t, testConfig(t, nil))
	h := a.router()

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, "OK"},
		{"ready", http.MethodGet, "/ready", "", http.StatusOK, `"state":"ready"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "go_goroutines"},
		{"assess", http.MethodPost, "/v1/assess", `{"evidence":{"xray":"abnormal"}}`, http.StatusOK, `"percentages"`},
		{"assess invalid evidence", http.MethodPost, "/v1/assess", `{"evidence":{"xray":"blurry"}}`, http.StatusUnprocessableEntity, "value not in domain"},
		{"assess bad body", http.MethodPost, "/v1/assess", `{`, http.StatusBadRequest, "invalid request body"},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestReadyBeforeStart(t *testing.T) {
	a, err := NewApp(&testutil.SafeBuffer{}, testConfig(t, nil))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "uninitialized")

	rec = httptest.NewRecorder()
	a.router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/assess", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWatchReloadsModel(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": testutil.SmokingCancerHCL})
	a, _ := startApp(t, testConfig(t, func(c *Config) {
		c.Source = SourceHCL
		c.NetworkPaths = []string{dir}
		c.Watch = true
	}))
	require.NotNil(t, a.watcher)

	updated := strings.Replace(testutil.SmokingCancerHCL, `"smoking_cancer"`, `"smoking_cancer_v2"`, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(updated), 0o644))

	select {
	case err := <-a.watcher.Reloads():
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("model was not reloaded")
	}
	brain, err := a.Brain()
	require.NoError(t, err)
	assert.Equal(t, "smoking_cancer_v2", brain.Network().Name)
}

func TestServeReturnsOnCancel(t *testing.T) {
	a, _ := startApp(t, testConfig(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Serve(ctx))
}
