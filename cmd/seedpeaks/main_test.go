package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCatalog(t *testing.T) {
	peaks, err := readCatalog(filepath.Join("testdata", "peaks.json"))
	require.NoError(t, err)

	require.Len(t, peaks, 6)
	assert.Equal(t, "rainier", peaks[0].ID)
	require.NotNil(t, peaks[0].ForecastElevationFt)
	assert.Equal(t, 5400.0, *peaks[0].ForecastElevationFt)
	assert.Nil(t, peaks[1].ForecastElevationFt)

	_, _, err = peaks[5].Coordinates()
	assert.Error(t, err, "entries without a position are kept")
}

func TestReadCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"malformed":    `[{"id": "a"`,
		"missing id":   `[{"name": "nameless", "elevation_ft": 1000}]`,
		"duplicate id": `[{"id": "a"}, {"id": "a"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "peaks.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := readCatalog(path)
			assert.Error(t, err)
		})
	}
}

func TestReadCatalog_MissingFile(t *testing.T) {
	_, err := readCatalog(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "absent.json")
}
