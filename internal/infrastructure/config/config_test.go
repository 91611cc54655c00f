package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"MENUHUB_APP_ENV",
	"MENUHUB_APP_ROOT_DOMAIN",
	"ROOT_DOMAIN",
	"MENUHUB_AUTH_SUPERADMIN_SECRET",
	"SUPERADMIN_SECRET",
	"MENUHUB_JWT_SECRET",
	"MENUHUB_DATABASE_PASSWORD",
	"MENUHUB_DATABASE_SSLMODE",
	"MENUHUB_DATABASE_MAX_OPEN_CONNS",
	"MENUHUB_DATABASE_MAX_IDLE_CONNS",
	"MENUHUB_STORAGE_DRIVER",
	"MENUHUB_AUTH_BCRYPT_COST",
	"MENUHUB_TELEMETRY_SAMPLING_RATIO",
}

// isolateEnv clears every variable Load reads and restores them after the test
func isolateEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string, len(configEnvKeys))
	for _, k := range configEnvKeys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "menuhub", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "localhost", cfg.App.RootDomain)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Tenant-ID")
}

func TestLoad_UnprefixedAliases(t *testing.T) {
	isolateEnv(t)
	os.Setenv("ROOT_DOMAIN", "MenuHub.App ")
	os.Setenv("SUPERADMIN_SECRET", "bootstrap-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "menuhub.app", cfg.App.RootDomain)
	assert.Equal(t, "bootstrap-secret", cfg.Auth.SuperAdminSecret)
}

func TestLoad_PrefixedWinsOverAlias(t *testing.T) {
	isolateEnv(t)
	os.Setenv("ROOT_DOMAIN", "alias.app")
	os.Setenv("MENUHUB_APP_ROOT_DOMAIN", "prefixed.app")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed.app", cfg.App.RootDomain)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("max_idle_conns cannot exceed max_open_conns", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("MENUHUB_DATABASE_MAX_OPEN_CONNS", "5")
		os.Setenv("MENUHUB_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("MENUHUB_STORAGE_DRIVER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})

	t.Run("rejects bcrypt cost out of range", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("MENUHUB_AUTH_BCRYPT_COST", "40")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bcrypt_cost")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("MENUHUB_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("MENUHUB_APP_ENV", "production")
		os.Setenv("MENUHUB_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("MENUHUB_DATABASE_PASSWORD", "secure-password")
		os.Setenv("MENUHUB_DATABASE_SSLMODE", "require")
		os.Setenv("ROOT_DOMAIN", "menuhub.app")
		os.Setenv("MENUHUB_STORAGE_DRIVER", "s3")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	tests := []struct {
		name    string
		mutate  func()
		wantErr string
	}{
		{"requires jwt.secret", func() { os.Unsetenv("MENUHUB_JWT_SECRET") }, "jwt.secret is required in production"},
		{"requires long jwt.secret", func() { os.Setenv("MENUHUB_JWT_SECRET", "short") }, "at least 32 characters"},
		{"requires database.password", func() { os.Unsetenv("MENUHUB_DATABASE_PASSWORD") }, "database.password is required"},
		{"requires ssl", func() { os.Setenv("MENUHUB_DATABASE_SSLMODE", "disable") }, "sslmode cannot be 'disable'"},
		{"requires root domain", func() { os.Unsetenv("ROOT_DOMAIN") }, "root_domain"},
		{"requires s3 storage", func() { os.Setenv("MENUHUB_STORAGE_DRIVER", "memory") }, "must be 's3' in production"},
		{"rejects short superadmin secret", func() { os.Setenv("SUPERADMIN_SECRET", "abc") }, "superadmin_secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			setValidProductionBase()
			tt.mutate()

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
