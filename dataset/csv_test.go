package dataset

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `y,x,region
1.5,1,north
2.5,2,south
NA,3,north
4.5,4,`

	f, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, f.Len())
	assert.Equal(t, []string{"y", "x", "region"}, f.Names())

	y, ok := f.Numeric("y")
	require.True(t, ok)
	assert.Equal(t, 1.5, y[0])
	assert.True(t, math.IsNaN(y[2]), "NA should load as NaN")

	region, ok := f.Categorical("region")
	require.True(t, ok, "non-numeric column should be categorical")
	assert.Equal(t, []string{"north", "south", "north", ""}, region)
}

func TestLoadCSVColumnsAndDelimiter(t *testing.T) {
	csvData := `# exported
a;b;c
1;2;3
4;5;6`

	opts := DefaultCSVOptions()
	opts.Delimiter = ';'
	opts.SkipRows = 1
	opts.Columns = []string{"c", "a"}

	f, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, f.Names())

	c, _ := f.Numeric("c")
	assert.Equal(t, []float64{3, 6}, c)

	opts.Columns = []string{"missing"}
	_, err = LoadCSVFromReader(strings.NewReader(csvData), opts)
	assert.Error(t, err)
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("y,x\n"), nil)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = LoadCSVFromReader(strings.NewReader(""), nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumeric("x", []float64{1, math.NaN(), 2.5}))
	require.NoError(t, f.AddCategorical("g", []string{"a", "", "b"}))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(f, &buf))
	assert.Equal(t, "x,g\n1,a\nNA,NA\n2.5,b\n", buf.String())

	path := filepath.Join(t.TempDir(), "frame.csv")
	require.NoError(t, SaveCSV(f, path))

	loaded, err := LoadCSV(path, nil)
	require.NoError(t, err)
	g, _ := loaded.Categorical("g")
	assert.Equal(t, []string{"a", "", "b"}, g)
}
