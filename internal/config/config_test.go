package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/garage_market/internal/models"
)

func setSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("REFRESH_SECRET", "refresh-secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, "/api/auth", cfg.RefreshPath)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, RevocationMemory, cfg.RevocationKind)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "garages", cfg.ESIndex)
}

func TestFromEnv_Overrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REVOCATION_BACKEND", "DB")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, RevocationDB, cfg.RevocationKind)
	assert.False(t, cfg.CookieSecure)
}

func TestFromEnv_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secrets": {"JWT_SECRET": "", "REFRESH_SECRET": ""},
		"equal secrets":   {"JWT_SECRET": "same", "REFRESH_SECRET": "same"},
		"bad ttl":         {"ACCESS_TOKEN_TTL": "soon"},
		"postgres no url": {"DB_DRIVER": "postgres"},
		"unknown driver":  {"DB_DRIVER": "oracle"},
		"unknown backend": {"REVOCATION_BACKEND": "redis"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setSecrets(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestInitDB_SQLiteMigrates(t *testing.T) {
	cfg := &Config{DBDriver: DriverSQLite, DatabaseURL: ":memory:"}

	db, err := InitDB(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestInitDB_PostgresBadURL(t *testing.T) {
	_, err := InitDB(context.Background(), &Config{DBDriver: DriverPostgres, DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
