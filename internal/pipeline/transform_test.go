package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/couchcryptid/crowflies/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *domain.Resolver {
	t.Helper()
	dir, err := dataset.LoadFile(filepath.Join("..", "dataset", "testdata", "us_airports.csv"), dataset.Options{})
	require.NoError(t, err)
	return domain.NewResolver(dir, domain.NewEngine(domain.NauticalMiles))
}

func TestQueryTransformer_Transform(t *testing.T) {
	tfm := pipeline.NewTransformer(testResolver(t))

	cases := []struct {
		name     string
		key      string
		value    string
		wantID   string
		wantKind string
		wantNM   float64
	}{
		{name: "explicit id", value: `{"id":"q-1","from":"LAX","to":"SFO"}`, wantID: "q-1", wantNM: 293.3},
		{name: "id from key", key: "k-2", value: `{"from":"bwi","to":"hnl"}`, wantID: "k-2", wantNM: 4212.2},
		{name: "untrimmed codes", key: "k-3", value: `{"from":" anc ","to":"MCO - Orlando"}`, wantID: "k-3", wantNM: 3312.2},
		{name: "unknown code", key: "k-4", value: `{"from":"LAX","to":"ORD"}`, wantID: "k-4", wantKind: domain.ErrorKindUnknownCode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tfm.Transform(context.Background(), domain.RawMessage{Key: []byte(tc.key), Value: []byte(tc.value)})
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, res.ID)
			assert.Equal(t, tc.wantKind, res.ErrorKind)
			if tc.wantKind == "" {
				assert.InDelta(t, tc.wantNM, res.Distance, 0.1)
				assert.Equal(t, "nm", res.Unit)
			}
		})
	}
}

func TestQueryTransformer_GeneratesID(t *testing.T) {
	tfm := pipeline.NewTransformer(testResolver(t))

	res, err := tfm.Transform(context.Background(), domain.RawMessage{Value: []byte(`{"from":"LAX","to":"SFO"}`)})
	require.NoError(t, err)
	assert.Len(t, res.ID, 36)
}

func TestQueryTransformer_PoisonPills(t *testing.T) {
	tfm := pipeline.NewTransformer(testResolver(t))

	for _, value := range []string{`not json`, `{"from":"LAX"}`, `{"from":"","to":"SFO"}`} {
		_, err := tfm.Transform(context.Background(), domain.RawMessage{Value: []byte(value)})
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuery), value)
	}
}
