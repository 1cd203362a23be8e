package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpire(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"90m", 90 * time.Minute},
		{" 12h ", 12 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseExpire(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "d", "-1d", "abc", "0s", "xd"} {
		_, err := ParseExpire(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expire.Duration())
	assert.Equal(t, uint(100), cfg.RateLimit.Max)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, int64(5<<20), cfg.Policy.MaxUploadBytes)
	assert.False(t, cfg.Policy.AllowAdminRegistration)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRE", "2d")
	t.Setenv("ALLOW_ORIGIN", "http://a.example,http://b.example")
	t.Setenv("RATE_LIMIT_MAX", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.JWT.Expire.Duration())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, uint(5), cfg.RateLimit.Max)
}

func TestDatabaseDSN(t *testing.T) {
	_, err := DatabaseConfig{UseConnStr: true}.DSN()
	assert.Error(t, err)

	dsn, err := DatabaseConfig{UseConnStr: true, ConnStr: "host=x"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "host=x", dsn)

	_, err = DatabaseConfig{Host: "db"}.DSN()
	assert.Error(t, err)

	dsn, err = DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "campus"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/campus?sslmode=disable", dsn)
}

func TestDatabaseDSN_EscapesPassword(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss/w:rd?#", DBName: "campus"}

	dsn, err := cfg.DSN()
	require.NoError(t, err)

	parsed, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "/campus", parsed.Path)
	assert.Equal(t, "app", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss/w:rd?#", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}
