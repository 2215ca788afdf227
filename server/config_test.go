package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		connStr   string
		expect    Database
		expectErr bool
	}{
		{
			name:    "inmem",
			connStr: "inmem",
			expect:  Database{Type: DatabaseInMemory},
		},
		{
			name:    "sqlite with path",
			connStr: "sqlite:/var/data/synparse",
			expect:  Database{Type: DatabaseSQLite, DataDir: "/var/data/synparse"},
		},
		{
			name:      "sqlite missing path",
			connStr:   "sqlite",
			expectErr: true,
		},
		{
			name:      "inmem with extraneous params",
			connStr:   "inmem:foo",
			expectErr: true,
		},
		{
			name:      "none is rejected",
			connStr:   "none",
			expectErr: true,
		},
		{
			name:      "unknown engine",
			connStr:   "postgres:localhost",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			got, err := ParseDBConnString(tc.connStr)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if assert.NoError(err) {
				assert.Equal(tc.expect, got)
			}
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()

	assert.NotEmpty(cfg.TokenSecret)
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(1000, cfg.UnauthDelayMillis)
	assert.Equal("localhost:8080", cfg.ListenAddress)
	assert.NoError(cfg.Validate())
}

func Test_Config_Validate_rejectsShortSecret(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{TokenSecret: []byte("too-short"), DB: Database{Type: DatabaseInMemory}}
	assert.Error(cfg.Validate())
}

func Test_LoadConfigFile(t *testing.T) {
	assert := assert.New(t)

	contents := `
token_secret = "0123456789012345678901234567890123456789"
db = "inmem"
listen_address = "0.0.0.0:9090"
unauth_delay_millis = 250
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write config file: %s", err)
	}

	cfg, err := LoadConfigFile(path)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("0123456789012345678901234567890123456789", string(cfg.TokenSecret))
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal("0.0.0.0:9090", cfg.ListenAddress)
	assert.Equal(250, cfg.UnauthDelayMillis)
}
