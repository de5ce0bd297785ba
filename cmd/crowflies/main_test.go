package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/crowflies/internal/config"
	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/couchcryptid/crowflies/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "internal", "dataset", "testdata", "us_airports.csv")

func testConfig(datasetPath string, kafka bool) *config.Config {
	return &config.Config{
		DatasetPath:        datasetPath,
		Duplicates:         dataset.RejectDuplicates,
		Unit:               domain.NauticalMiles,
		HTTPAddr:           ":0",
		ShutdownTimeout:    time.Second,
		KafkaEnabled:       kafka,
		KafkaBrokers:       []string{"127.0.0.1:1"},
		KafkaSourceTopic:   "distance-queries",
		KafkaSinkTopic:     "distance-results",
		KafkaGroupID:       "crowflies-test",
		BatchSize:          10,
		BatchFlushInterval: 100 * time.Millisecond,
	}
}

func newTestService(t *testing.T, cfg *config.Config) (*service, *observability.Metrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	svc, err := newService(cfg, logger, metrics)
	require.NoError(t, err)
	t.Cleanup(func() { svc.close(logger) })
	return svc, metrics
}

func get(t *testing.T, svc *service, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	svc.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestService_ReadyWithIdlePipeline(t *testing.T) {
	svc, metrics := newTestService(t, testConfig(fixture, true))
	require.NotNil(t, svc.pipeline)

	// No batch has been processed, so the pipeline itself is not ready yet.
	require.Error(t, svc.pipeline.CheckReadiness(context.Background()))

	status, body := get(t, svc, "/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = get(t, svc, "/v1/distance?from=LAX&to=SFO")
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 293.0, body["distance"], 1.0)

	assert.InDelta(t, 6, testutil.ToFloat64(metrics.DirectoryLocations), 0)
}

func TestService_KafkaDisabled(t *testing.T) {
	svc, _ := newTestService(t, testConfig(fixture, false))
	assert.Nil(t, svc.pipeline)
	assert.Nil(t, svc.reader)
	assert.Nil(t, svc.writer)

	status, _ := get(t, svc, "/readyz")
	assert.Equal(t, http.StatusOK, status)
}

func TestService_EmptyDatasetNotReady(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	svc, _ := newTestService(t, testConfig(path, true))

	status, body := get(t, svc, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready", body["status"])
}

func TestService_MissingDataset(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := newService(testConfig(filepath.Join(t.TempDir(), "missing.csv"), false), logger, observability.NewMetricsForTesting())
	require.Error(t, err)
}
