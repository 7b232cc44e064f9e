package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestJSONFile(t *testing.T) {
	path := writeFile(t, "data.json", `{"customer": "ACME", "total": 12.5, "items": [1, 2]}`)

	data, err := JSONFile{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACME", data["customer"])
	assert.Equal(t, 12.5, data["total"])
	assert.Equal(t, []any{1.0, 2.0}, data["items"])
}

func TestJSONFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		notObj  bool
	}{
		{"array", `[1, 2]`, true},
		{"empty", "  ", true},
		{"broken", `{"a": `, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSONFile{Path: writeFile(t, "d.json", tt.content)}.Load(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.notObj, errors.Is(err, ErrNotObject))
		})
	}

	_, err := JSONFile{Path: filepath.Join(t.TempDir(), "absent.json")}.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "sales"))
	require.NoError(t, f.SetSheetRow("sales", "A1", &[]any{"region", "units", "share", "active"}))
	require.NoError(t, f.SetSheetRow("sales", "A2", &[]any{"North", 12, 0.25, true}))
	require.NoError(t, f.SetSheetRow("sales", "A4", &[]any{"South", 7, 0.5, false}))
	_, err := f.NewSheet("notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("notes", "A1", "text"))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	data, err := XLSX{Path: path}.Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, data, "sales")
	require.Contains(t, data, "notes")

	sales := data["sales"].(dataset.Table)
	require.Len(t, sales.Columns, 4)
	assert.Equal(t, 2, sales.Rows(), "blank rows are skipped")
	assert.Equal(t, "region", sales.Columns[0].Name)
	assert.Equal(t, dataset.KindText, sales.Columns[0].Kind)
	assert.Equal(t, dataset.KindInteger, sales.Columns[1].Kind)
	assert.Equal(t, dataset.KindReal, sales.Columns[2].Kind)
	assert.Equal(t, dataset.KindBoolean, sales.Columns[3].Kind)
	assert.Equal(t, int64(7), sales.Cell(1, 1))

	notes := data["notes"].(dataset.Table)
	assert.Equal(t, 0, notes.Rows())

	only, err := XLSX{Path: path, Sheets: []string{"notes"}}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, only, 1)

	_, err = XLSX{Path: path, Sheets: []string{"missing"}}.Load(context.Background())
	assert.Error(t, err)
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{" 42 ", int64(42)},
		{"-3.5", -3.5},
		{"TRUE", true},
		{"FALSE", false},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"North", "North"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellValue(tt.in), "cellValue(%q)", tt.in)
	}
}

func TestNormalizeValue(t *testing.T) {
	when := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	var num pgtype.Numeric
	require.NoError(t, num.Scan("12.75"))

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bytes", []byte("abc"), "abc"},
		{"int64", int64(5), int64(5)},
		{"time", when, when},
		{"numeric", num, 12.75},
		{"invalid numeric", pgtype.Numeric{}, nil},
		{"stringer", time.Second, "1s"},
		{"other", struct{ A int }{1}, "{1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}

func TestSQLUnsupportedDriver(t *testing.T) {
	_, err := SQL{Driver: "oracle", Queries: []Query{{Name: "q", SQL: "select 1"}}}.Load(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")

	data, err := SQL{Driver: "oracle"}.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data)
}

type fakeRedis map[string]string

func (f fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestRedisLoadKey(t *testing.T) {
	client := fakeRedis{
		"report:ctx": `{"customer": "ACME"}`,
		"report:bad": `"just a string"`,
	}

	data, err := loadKey(context.Background(), client, "report:ctx")
	require.NoError(t, err)
	assert.Equal(t, "ACME", data["customer"])

	_, err = loadKey(context.Background(), client, "report:none")
	assert.ErrorContains(t, err, "not found")

	_, err = loadKey(context.Background(), client, "report:bad")
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestMerge(t *testing.T) {
	first := LoaderFunc(func(context.Context) (map[string]any, error) {
		return map[string]any{"a": 1, "b": 1}, nil
	})
	second := LoaderFunc(func(context.Context) (map[string]any, error) {
		return map[string]any{"b": 2}, nil
	})

	data, err := Merge(context.Background(), first, second)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, data)

	failing := LoaderFunc(func(context.Context) (map[string]any, error) {
		return nil, errors.New("boom")
	})
	_, err = Merge(context.Background(), first, failing)
	assert.ErrorContains(t, err, "loader 2: boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Merge(ctx, first)
	assert.ErrorIs(t, err, context.Canceled)
}
