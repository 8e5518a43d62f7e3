package colmatch

import (
	"testing"

	"github.com/nao1215/colmatch/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Day", want: "DAY"},
		{in: "unique clicks", want: "UNIQUE_CLICKS"},
		{in: "Name of File", want: "NAME_OF_FILE"},
		{in: "ALREADY_DONE", want: "ALREADY_DONE"},
		{in: " lead", want: "_LEAD"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got := CanonicalName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CanonicalName(got), "CanonicalName must be idempotent")
		})
	}
}

func TestSemanticName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		column string
		values []string
		want   string
	}{
		{name: "action name", column: "TOTAL_ACTIONS", values: []string{"2023-01-01"}, want: ColumnActionName},
		{name: "action id keeps its name", column: "ACTION_ID", values: []string{"1"}, want: ColumnActionID},
		{name: "complete view rate", column: "COMPLETE_VIEW_RATE_%", values: []string{"0.5"}, want: ColumnCompleteViewRate},
		{name: "complete rate without view", column: "COMPLETE_RATE", values: nil, want: ColumnCompleteViewRate},
		{name: "view rate", column: "VIEWABILITY_RATE", values: nil, want: ColumnViewRate},
		{name: "date values", column: "DATE", values: []string{"", "2023-05-06 10:00"}, want: ColumnDay},
		{name: "date prefix only", column: "WHEN", values: []string{"06/05/2023"}, want: "WHEN"},
		{name: "no rule", column: "CLICKS", values: []string{"10"}, want: "CLICKS"},
		{name: "lower case match", column: "action", values: nil, want: ColumnActionName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := make([]model.Record, len(tt.values))
			for i, v := range tt.values {
				records[i] = model.Record{v}
			}
			table := model.NewTable("t", model.Header{tt.column}, records)
			assert.Equal(t, tt.want, SemanticName(table, 0))
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	raw := model.NewTable("report",
		model.Header{"Day", "total actions", "Cost", "When"},
		[]model.Record{
			{"2023-01-01", "5", "1.5", "2023-01-01"},
			{"2023-01-02", "6", "2.5", "2023-01-02"},
		},
	)

	t.Run("canonical names only", func(t *testing.T) {
		t.Parallel()

		got, err := NewNormalizer(false).Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, model.Header{"DAY", "TOTAL_ACTIONS", "COST", "WHEN"}, got.Header())
		assert.Equal(t, raw.Records(), got.Records())
		assert.Equal(t, model.Header{"Day", "total actions", "Cost", "When"}, raw.Header(), "input must not change")
	})

	t.Run("semantic renames", func(t *testing.T) {
		t.Parallel()

		table := model.NewTable("report",
			model.Header{"total actions", "View Rate", "Clicks"},
			[]model.Record{{"2023-01-01", "0.5", "3"}},
		)
		got, err := NewNormalizer(true).Normalize(table)
		require.NoError(t, err)
		assert.Equal(t, model.Header{"ACTION_NAME", "VIEW_RATE", "CLICKS"}, got.Header())
		assert.Equal(t, table.RowCount(), got.RowCount())
	})

	t.Run("date rule collision", func(t *testing.T) {
		t.Parallel()

		_, err := NewNormalizer(true).Normalize(raw)
		require.ErrorIs(t, err, ErrColumnCollision)
		require.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Contains(t, err.Error(), `DAY <- "Day", "When"`)
	})

	t.Run("canonical collision", func(t *testing.T) {
		t.Parallel()

		table := model.NewTable("report", model.Header{"unique clicks", "UNIQUE_CLICKS"}, nil)
		_, err := NewNormalizer(false).Normalize(table)
		require.ErrorIs(t, err, ErrColumnCollision)
	})
}
