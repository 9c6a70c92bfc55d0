package postgres

import (
	"testing"
	"time"

	"github.com/Rrens/careops/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:             "db.internal",
		Port:             5433,
		User:             "careops",
		Password:         "p@ss:w/rd",
		Database:         "careops",
		SSLMode:          "disable",
		MaxConns:         12,
		MinConns:         3,
		StatementTimeout: 10 * time.Second,
	}

	poolConfig, err := newPoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(12), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, "db.internal", poolConfig.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolConfig.ConnConfig.Port)
	assert.Equal(t, "p@ss:w/rd", poolConfig.ConnConfig.Password)
	assert.Equal(t, "careops", poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "10000", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestNewPoolConfig_NoStatementTimeout(t *testing.T) {
	poolConfig, err := newPoolConfig(config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "careops", Database: "careops", SSLMode: "disable",
	})
	require.NoError(t, err)

	_, ok := poolConfig.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
	assert.Equal(t, "careops", poolConfig.ConnConfig.RuntimeParams["application_name"])
}
