package stream

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `,result,table,_start,_value,_field
,_result,0,2021-01-01T00:00:00Z,41.5,humidity
,_result,0,2021-01-01T00:00:00Z,,humidity
,_result,0,2021-01-01T00:00:00Z, 42 ,humidity
,_result,0,2021-01-01T00:00:00Z,-3e-1,humidity
`

func TestReadCSV_SelectsColumnAndSkipsEmptyCells(t *testing.T) {
	values, err := ReadCSV(strings.NewReader(sampleCSV), DefaultColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{41.5, 42, -0.3}, values)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(sampleCSV), "temperature")
	assert.ErrorContains(t, err, `column "temperature" not found`)

	_, err = ReadCSV(strings.NewReader(""), DefaultColumn)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("_value\n1\nabc\n"), DefaultColumn)
	assert.ErrorContains(t, err, "line 3")
}

func TestLoadCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte("t,v\n0,1.5\n1,2.5\n"), 0o644))

	values, err := LoadCSV(path, "v")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5}, values)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), "v")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
