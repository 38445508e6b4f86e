package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gh-pr-stats/internal/cache"
	"gh-pr-stats/internal/pkg/logger"
)

func TestRouterHealth(t *testing.T) {
	router := setupRouter(t.TempDir(), func() *cache.Snapshot { return nil }, logger.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouterCacheStats(t *testing.T) {
	snapshot := &cache.Snapshot{Hits: 10, Misses: 2, Stores: 2}
	router := setupRouter(t.TempDir(), func() *cache.Snapshot { return snapshot }, logger.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"hits":10,"misses":2,"stores":2}`, rec.Body.String())
}

func TestRouterCacheStatsDisabled(t *testing.T) {
	router := setupRouter(t.TempDir(), func() *cache.Snapshot { return nil }, logger.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterServesReportFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.csv"), []byte("User\nbob\n"), 0o644))

	router := setupRouter(dir, func() *cache.Snapshot { return nil }, logger.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/summary.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User\nbob\n", rec.Body.String())
}
