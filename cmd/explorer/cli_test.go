package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"policyexplorer/internal/chart"
	"policyexplorer/internal/reform"
	"policyexplorer/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupCLI points the global flags at the test country and a temp state dir.
func setupCLI(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	state := t.TempDir()
	t.Setenv("EXPLORER_STATE_DIR", state)
	configPath = filepath.Join(state, "missing.yaml")
	countryFile = filepath.Join("testdata", "country.yaml")
	apiURL = ""
	t.Cleanup(func() {
		configPath, countryFile, apiURL = "explorer.yaml", "", ""
		chartSets, chartJSON, reformsAll = nil, false, false
	})
	return state
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestGroupsCmd(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()
	require.NoError(t, runGroups(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "uk (/policy)")
	assert.Contains(t, text, "income_tax  /policy/tax/income_tax  [3 parameters]")
	assert.Contains(t, text, "tax  /policy/tax  [2 groups]")
	assert.Contains(t, text, "child_benefit  /policy/benefit/child_benefit  [2 parameters]")
}

func TestResolveCmd(t *testing.T) {
	setupCLI(t)

	cmd, out := newTestCmd()
	require.NoError(t, runResolve(cmd, nil))
	assert.Contains(t, out.String(), "/policy/tax/income_tax")
	assert.Contains(t, out.String(), "Basic rate")
	assert.Contains(t, out.String(), "20%")

	cmd, out = newTestCmd()
	require.NoError(t, runResolve(cmd, []string{"/policy/benefit/child_benefit"}))
	assert.Contains(t, out.String(), "slider (override)")
	assert.Contains(t, out.String(), "Weekly amount")

	cmd, out = newTestCmd()
	require.NoError(t, runResolve(cmd, []string{"/policy/tax/nowhere"}))
	assert.Contains(t, out.String(), "No parameters under /policy/tax/nowhere")
}

func TestGroupsCmdMissingCountry(t *testing.T) {
	setupCLI(t)
	countryFile = filepath.Join(t.TempDir(), "absent.yaml")
	cmd, _ := newTestCmd()
	assert.Error(t, runGroups(cmd, nil))
}

func TestLoadConfigRejectsBadAPIURL(t *testing.T) {
	setupCLI(t)
	apiURL = "ftp://api.example.org"
	_, err := loadConfig()
	assert.ErrorContains(t, err, "invalid api.base_url")
}

func TestChartCmd(t *testing.T) {
	setupCLI(t)

	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/age-chart", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"age_chart": {"data": [{"x": [20, 40, 60], "y": [120, -30, 0]}]}}`)
	}))
	defer srv.Close()
	apiURL = srv.URL
	chartSets = []string{"basic_rate=22", "personal_allowance=15,000"}

	cmd, out := newTestCmd()
	require.NoError(t, runChart(cmd, nil))
	assert.Equal(t, map[string]any{"basic_rate": 0.22, "personal_allowance": 15000.0}, body)
	assert.Contains(t, out.String(), "120.00")
	assert.Contains(t, out.String(), "-30.00")

	chartJSON = true
	cmd, out = newTestCmd()
	require.NoError(t, runChart(cmd, nil))
	assert.Contains(t, out.String(), `"data"`)
}

func TestChartCmdAPIError(t *testing.T) {
	setupCLI(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	apiURL = srv.URL

	cmd, _ := newTestCmd()
	err := runChart(cmd, nil)
	var status *chart.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusInternalServerError, status.Code)
}

func TestParseSets(t *testing.T) {
	setupCLI(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	c, err := loadCountry(cfg)
	require.NoError(t, err)

	sub, err := parseSets(c, []string{"higher_rate=45%", "unknown_param=3"})
	require.NoError(t, err)
	assert.Equal(t, []reform.Edit{
		{ID: "higher_rate", Value: 0.45},
		{ID: "unknown_param", Value: 3.0},
	}, sub.Edits())

	_, err = parseSets(c, []string{"basic_rate"})
	assert.ErrorContains(t, err, "want id=value")
	_, err = parseSets(c, []string{"basic_rate=lots"})
	assert.ErrorContains(t, err, "invalid --set basic_rate")
}

func TestReformsCmds(t *testing.T) {
	state := setupCLI(t)

	s, err := store.Open(filepath.Join(state, "reforms.db"))
	require.NoError(t, err)
	id, err := s.Save(context.Background(), "Lower basic rate", "uk",
		reform.NewSubmission(reform.Edit{ID: "basic_rate", Value: 0.18}))
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "Other country", "fr", reform.NewSubmission())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	cmd, out := newTestCmd()
	require.NoError(t, runReformsList(cmd, nil))
	assert.Contains(t, out.String(), "Lower basic rate")
	assert.NotContains(t, out.String(), "Other country")

	reformsAll = true
	cmd, out = newTestCmd()
	require.NoError(t, runReformsList(cmd, nil))
	assert.Contains(t, out.String(), "Other country")

	cmd, out = newTestCmd()
	require.NoError(t, runReformsShow(cmd, []string{id}))
	assert.Contains(t, out.String(), `"basic_rate": 0.18`)

	cmd, out = newTestCmd()
	require.NoError(t, runReformsDelete(cmd, []string{id}))
	assert.Contains(t, out.String(), "Deleted "+id)

	cmd, _ = newTestCmd()
	assert.ErrorContains(t, runReformsDelete(cmd, []string{id}), "no saved reform")
}

func TestReformsListEmpty(t *testing.T) {
	setupCLI(t)
	cmd, out := newTestCmd()
	require.NoError(t, runReformsList(cmd, nil))
	assert.Contains(t, out.String(), "No saved reforms")
}
