package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "colmatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, DefaultColumns, cfg.Columns)
	assert.False(t, cfg.ChangeColName)
	assert.True(t, cfg.ShowMatchCol)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())

	cfg.Columns[0] = "CHANGED"
	assert.Equal(t, "DAY", DefaultColumns[0], "Default must copy the column list")
}

func TestConfig_Schema(t *testing.T) {
	t.Parallel()

	schema, err := Default().Schema()
	require.NoError(t, err)
	assert.Equal(t, 15, schema.Len())
	assert.Equal(t, 0, schema.Index("DAY"))
	assert.Equal(t, 14, schema.Index("CHANNEL"))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			modify: func(*Config) {},
		},
		{
			name:    "empty columns",
			modify:  func(c *Config) { c.Columns = nil },
			wantErr: "COLMATCH_COLUMNS",
		},
		{
			name:    "non canonical column",
			modify:  func(c *Config) { c.Columns = []string{"Day"} },
			wantErr: "COLMATCH_COLUMNS",
		},
		{
			name:    "duplicate column",
			modify:  func(c *Config) { c.Columns = []string{"DAY", "DAY"} },
			wantErr: "COLMATCH_COLUMNS",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "COLMATCH_LOG_LEVEL",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "COLMATCH_LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
columns: [DAY, CLICKS, COST]
change_col_name: true
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DAY", "CLICKS", "COST"}, cfg.Columns)
	assert.True(t, cfg.ChangeColName)
	assert.True(t, cfg.ShowMatchCol, "keys missing from the file keep their default")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "columns: [DAY]\nshow_match_col: true\n")
	t.Setenv("COLMATCH_COLUMNS", " DAY , CLICKS,,")
	t.Setenv("COLMATCH_SHOW_MATCH_COL", "false")
	t.Setenv("COLMATCH_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DAY", "CLICKS"}, cfg.Columns)
	assert.False(t, cfg.ShowMatchCol)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "columns: [DAY\n"))
		require.Error(t, err)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("COLMATCH_CHANGE_COL_NAME", "maybe")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COLMATCH_CHANGE_COL_NAME")
	})

	t.Run("invalid columns", func(t *testing.T) {
		t.Setenv("COLMATCH_COLUMNS", "day")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation")
	})
}
