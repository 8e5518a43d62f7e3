package colmatch

import (
	"testing"

	"github.com/nao1215/colmatch/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) model.Schema {
	t.Helper()

	schema, err := model.NewSchema([]string{"DAY", "ACTION_NAME", "CLICKS", "COST"})
	require.NoError(t, err)
	return schema
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	tests := []struct {
		name            string
		header          model.Header
		wantExisting    []string
		wantNotExisting []string
	}{
		{
			name:            "mixed",
			header:          model.Header{"CLICKS", "FOO", "DAY", "BAR"},
			wantExisting:    []string{"CLICKS", "DAY"},
			wantNotExisting: []string{"FOO", "BAR"},
		},
		{
			name:         "all known",
			header:       model.Header{"COST", "DAY"},
			wantExisting: []string{"COST", "DAY"},
		},
		{
			name:            "none known",
			header:          model.Header{"FOO"},
			wantNotExisting: []string{"FOO"},
		},
		{
			name:            "match is exact",
			header:          model.Header{"Day"},
			wantNotExisting: []string{"Day"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := Reconcile(tt.header, schema)
			assert.Equal(t, tt.wantExisting, r.Existing)
			assert.Equal(t, tt.wantNotExisting, r.NotExisting)
			assert.Equal(t, len(tt.header), len(r.Existing)+len(r.NotExisting))
		})
	}
}

func TestProject(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)

	t.Run("schema order", func(t *testing.T) {
		t.Parallel()

		table := model.NewTable("report",
			model.Header{"CLICKS", "FOO", "DAY"},
			[]model.Record{
				{"10", "x", "2023-01-01"},
				{"12", "y", "2023-01-02"},
			},
		)
		out, r, err := Project(table, schema)
		require.NoError(t, err)
		assert.Equal(t, []string{"CLICKS", "DAY"}, r.Existing)
		assert.Equal(t, model.Header{"DAY", "CLICKS"}, out.Header())
		assert.Equal(t, []model.Record{
			{"2023-01-01", "10"},
			{"2023-01-02", "12"},
		}, out.Records())
		assert.Equal(t, table.RowCount(), out.RowCount())
	})

	t.Run("no match keeps rows", func(t *testing.T) {
		t.Parallel()

		table := model.NewTable("report", model.Header{"FOO"}, []model.Record{{"x"}, {"y"}})
		out, r, err := Project(table, schema)
		require.NoError(t, err)
		assert.False(t, r.Matched())
		assert.Equal(t, 0, out.ColumnCount())
		assert.Equal(t, 2, out.RowCount())
	})
}
