package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"csvviz/domain/core"
	"csvviz/internal/config"
	"csvviz/internal/testkit"
)

func testConfig() *config.Config {
	return &config.Config{
		Charts: config.ChartConfig{WidthIn: 4, HeightIn: 3, ColorSeed: 9, Bins: 10, Workers: 2},
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(testConfig()).WithOutput(&stdout, &stderr).ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func writePeople(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(testkit.PeopleCSV), 0644))
	return dir, path
}

func TestColumnsCommand(t *testing.T) {
	_, path := writePeople(t)
	out, err := run(t, "columns", path)
	require.NoError(t, err)
	assert.Equal(t, "age\nname\njoined\nblank\n", out)

	out, err = run(t, "columns", path, "--json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	assert.Len(t, names, 4)
}

func TestDescribeCommand(t *testing.T) {
	_, path := writePeople(t)

	out, err := run(t, "describe", path, "age")
	require.NoError(t, err)
	assert.Contains(t, out, "Kind:   numeric")
	assert.Contains(t, out, "histogram (default), boxplot, scatter")

	out, err = run(t, "describe", path, "blank")
	require.NoError(t, err)
	assert.Contains(t, out, "Charts: none")

	_, err = run(t, "describe", path, "salary")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)
}

func TestRenderCommand(t *testing.T) {
	dir, path := writePeople(t)
	outDir := filepath.Join(dir, "charts")
	xlsx := filepath.Join(dir, "age.xlsx")

	out, err := run(t, "render", path, "age", "--chart", "boxplot", "--out", outDir, "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(outDir, "age_boxplot.png"))
	assert.Contains(t, out, "Total missing values: 1, Missing percentage: 25.00%")
	assert.Contains(t, out, "Mean")

	_, err = os.Stat(filepath.Join(outDir, "age_boxplot.png"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestRenderCommandRejectsIncompatibleChart(t *testing.T) {
	dir, path := writePeople(t)
	_, err := run(t, "render", path, "name", "--chart", "histogram", "--out", dir)
	assert.ErrorIs(t, err, core.ErrIncompatibleChart)

	_, err = os.Stat(filepath.Join(dir, "name_histogram.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestReportCommand(t *testing.T) {
	dir, path := writePeople(t)
	out, err := run(t, "report", path, "--out", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "COLUMN"))
	assert.Contains(t, lines[1], "histogram")
	assert.Contains(t, lines[3], "trend")
	assert.Contains(t, lines[4], "skipped")
}

func TestSampleCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "orders.csv")
	_, err := run(t, "sample", "-n", "25", "--generator-seed", "3", "--file", file)
	require.NoError(t, err)

	out, err := run(t, "columns", file)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(testkit.ShoppingHeaders, "\n")+"\n", out)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "columns", filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestBadLogLevel(t *testing.T) {
	_, path := writePeople(t)
	_, err := run(t, "columns", path, "--log-level", "chatty")
	assert.Error(t, err)
}

func TestColumnsCommandReadsWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"city", "population"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Oslo", 709000}))
	path := filepath.Join(t.TempDir(), "cities.xlsx")
	require.NoError(t, f.SaveAs(path))

	out, err := run(t, "columns", path)
	require.NoError(t, err)
	assert.Equal(t, "city\npopulation\n", out)

	out, err = run(t, "describe", path, "population")
	require.NoError(t, err)
	assert.Contains(t, out, "Kind:   numeric")
}
