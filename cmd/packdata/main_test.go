package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/crowflies/internal/dataset"
	"github.com/couchcryptid/crowflies/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixture = filepath.Join("..", "..", "internal", "dataset", "testdata", "us_airports.csv")

func TestRun_PacksLoadableDataset(t *testing.T) {
	out := filepath.Join(t.TempDir(), "airports.csv.zst")

	var stdout bytes.Buffer
	require.NoError(t, run(fixture, out, &stdout))
	assert.Contains(t, stdout.String(), "packed 6 locations")

	dir, err := dataset.LoadFile(out, dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, 6, dir.Len())
}

func TestRun_RejectsInvalidDataset(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "bad.csv")
	require.NoError(t, os.WriteFile(in, []byte("Los Angeles Intl,Los Angeles,LAX,north,-118.4,0.59,-2.07,126\n"), 0o600))
	out := filepath.Join(tmp, "bad.csv.zst")

	err := run(in, out, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lat_deg")
	assert.NoFileExists(t, out)
}

func TestRun_RejectsCompressedInput(t *testing.T) {
	err := run("airports.csv.zst", "", &bytes.Buffer{})
	assert.ErrorContains(t, err, "already compressed")
}

func TestRun_RejectsDuplicateCodes(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "dupes.csv")
	row := "Los Angeles Intl,Los Angeles,LAX,33.942536,-118.408075,0.592409,-2.066611,126\n"
	require.NoError(t, os.WriteFile(in, []byte(row+row), 0o600))
	out := filepath.Join(tmp, "dupes.csv.zst")

	err := run(in, out, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrDuplicateCode)
	assert.NoFileExists(t, out)
}

func TestRun_PackLoadsWithDefaultPolicy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "airports.csv.zst")
	require.NoError(t, run(fixture, out, &bytes.Buffer{}))

	_, err := dataset.LoadFile(out, dataset.Options{Duplicates: dataset.RejectDuplicates})
	require.NoError(t, err)
}
