package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumnType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []string
		expected ColumnType
	}{
		{name: "all integers", values: []string{"123", "456", "789"}, expected: ColumnTypeInteger},
		{name: "mixed integers and floats", values: []string{"123", "45.6", "789"}, expected: ColumnTypeReal},
		{name: "mixed numbers and text", values: []string{"123", "hello", "789"}, expected: ColumnTypeText},
		{name: "empty values", values: []string{"", "", ""}, expected: ColumnTypeText},
		{name: "integers with empty values", values: []string{"123", "", "789"}, expected: ColumnTypeInteger},
		{name: "negative floats", values: []string{"-12.3", "45.6", "-78.9"}, expected: ColumnTypeReal},
		{name: "ISO8601 dates", values: []string{"2023-01-15", "2023-02-20"}, expected: ColumnTypeDatetime},
		{name: "US date format", values: []string{"1/15/2023", "2/20/2023"}, expected: ColumnTypeDatetime},
		{name: "mixed datetime and text", values: []string{"2023-01-15", "not a date"}, expected: ColumnTypeText},
		{name: "no values", values: nil, expected: ColumnTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, InferColumnType(tt.values))
		})
	}
}

func TestInferColumnsInfo(t *testing.T) {
	t.Parallel()

	t.Run("mixed column types", func(t *testing.T) {
		t.Parallel()

		header := Header{"DAY", "CLICKS", "COST", "SOURCE"}
		records := []Record{
			{"2023-01-15", "10", "1.5", "web"},
			{"2023-01-16", "12", "2", "app"},
		}

		got := InferColumnsInfo(header, records)
		want := []ColumnInfo{
			{Name: "DAY", Type: ColumnTypeDatetime},
			{Name: "CLICKS", Type: ColumnTypeInteger},
			{Name: "COST", Type: ColumnTypeReal},
			{Name: "SOURCE", Type: ColumnTypeText},
		}
		assert.Equal(t, want, got)
	})

	t.Run("short records are tolerated", func(t *testing.T) {
		t.Parallel()

		got := InferColumnsInfo(Header{"A", "B"}, []Record{{"1"}})
		require.Len(t, got, 2)
		assert.Equal(t, ColumnTypeInteger, got[0].Type)
		assert.Equal(t, ColumnTypeText, got[1].Type)
	})

	t.Run("empty header", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, InferColumnsInfo(nil, nil))
	})
}

func TestParseDatetime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{"ISO date", "2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"ISO datetime", "2023-01-15T10:30:00", time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"ISO datetime with space", "2023-01-15 10:30:00", time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"US date padded", "01/15/2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"European date", "15.1.2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"surrounding spaces", " 2023-01-15 ", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"Plain text", "hello world", time.Time{}, false},
		{"Number", "123", time.Time{}, false},
		{"Invalid date", "2023-13-45", time.Time{}, false},
		{"Empty string", "", time.Time{}, false},
		{"Partial date", "2023-01", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseDatetime(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	t.Run("zone offset is kept", func(t *testing.T) {
		t.Parallel()

		got, ok := ParseDatetime("2023-01-15T10:30:00+09:00")
		require.True(t, ok)
		assert.True(t, time.Date(2023, 1, 15, 1, 30, 0, 0, time.UTC).Equal(got))
	})
}

func TestColumnType_Value(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ct   ColumnType
		raw  string
		want any
	}{
		{name: "integer", ct: ColumnTypeInteger, raw: "42", want: int64(42)},
		{name: "integer with spaces", ct: ColumnTypeInteger, raw: " 7 ", want: int64(7)},
		{name: "real", ct: ColumnTypeReal, raw: "0.25", want: 0.25},
		{name: "real column holding integer", ct: ColumnTypeReal, raw: "3", want: 3.0},
		{name: "blank becomes null", ct: ColumnTypeInteger, raw: "  ", want: nil},
		{name: "blank text becomes null", ct: ColumnTypeText, raw: "", want: nil},
		{name: "text kept verbatim", ct: ColumnTypeText, raw: "web ", want: "web "},
		{name: "datetime kept as text", ct: ColumnTypeDatetime, raw: "2023-01-01", want: "2023-01-01"},
		{name: "unparsable integer falls back to text", ct: ColumnTypeInteger, raw: "n/a", want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ct.Value(tt.raw))
		})
	}
}

func TestColumnType_TypedValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), ColumnTypeDatetime.TypedValue("2023-01-02"))
	assert.Equal(t, "someday", ColumnTypeDatetime.TypedValue("someday"))
	assert.Nil(t, ColumnTypeDatetime.TypedValue(""))
	assert.Equal(t, int64(42), ColumnTypeInteger.TypedValue("42"))
	assert.Equal(t, "2023-01-02", ColumnTypeText.TypedValue("2023-01-02"))
}

func TestColumnType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TEXT", ColumnTypeText.String())
	assert.Equal(t, "INTEGER", ColumnTypeInteger.String())
	assert.Equal(t, "REAL", ColumnTypeReal.String())
	assert.Equal(t, "TEXT", ColumnTypeDatetime.String())
}
