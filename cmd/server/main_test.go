package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/upgrade-ev/internal/advisor"
	"github.com/xtding233/upgrade-ev/internal/rpc"
	"github.com/xtding233/upgrade-ev/internal/tables"
)

func testMux(t *testing.T) *http.ServeMux {
	t.Helper()
	adv, err := advisor.New(tables.NewLoader(filepath.Join("..", "..", "tables")), "")
	require.NoError(t, err)
	return newMux(adv)
}

const snapshotJSON = `{
  "currency": 250,
  "attribute_levels": {"spark": 4, "tide": 1},
  "cumulative_progress": {"Focus": 20},
  "bonus_sources": [{"id": "harmony-focus", "category": "Focus", "activated_tier": 1}]
}`

func post(t *testing.T, mux http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleEvaluate(t *testing.T) {
	mux := testMux(t)

	rec := post(t, mux, "/evaluate", `{"action": "advance:spark", "snapshot": `+snapshotJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got advisor.ScoreDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 180.0, got.Cost)
	assert.InDelta(t, 78.0/180.0, got.Ratio, 1e-12)

	rec = post(t, mux, "/evaluate", `{"action": "fly", "snapshot": `+snapshotJSON+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, mux, "/evaluate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/evaluate", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleRank(t *testing.T) {
	mux := testMux(t)

	rec := post(t, mux, "/rank", `{"snapshot": `+snapshotJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got rpc.RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.Scores)
	assert.Equal(t, "pack:Focus", got.Scores[0].Action)
	for i := 1; i < len(got.Scores); i++ {
		assert.GreaterOrEqual(t, got.Scores[i-1].Ratio, got.Scores[i].Ratio)
	}
}

func TestServerEnvDefaults(t *testing.T) {
	var cfg serverEnv
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, "tables", cfg.TablesDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, "5s", cfg.ReloadInterval.String())
}
