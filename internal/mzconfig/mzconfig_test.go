package mzconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_ParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marzipan.toml")
	content := `
[[reserved_names]]
name = "gem"

[[reserved_names]]
name = "torch"

[codepage]
table_path = "cp437.toml"

[server]
listen_address = ":8080"
token_secret = "shh"
database = "builds.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gem", "torch"}, cfg.ReservedNameList())
	assert.Equal(t, "cp437.toml", cfg.Codepage.TablePath)
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, "shh", cfg.Server.TokenSecret)
	assert.Equal(t, "builds.db", cfg.Server.Database)
}

func Test_Load_MissingFile_Errors(t *testing.T) {
	_, err := Load("/nonexistent/marzipan.toml")
	assert.Error(t, err)
}

func Test_ZeroConfig_IsValid(t *testing.T) {
	var cfg Config
	assert.Empty(t, cfg.ReservedNameList())
}
