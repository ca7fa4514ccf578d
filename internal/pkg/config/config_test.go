package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")

		cfg, err := Load(discardLogger())
		require.NoError(t, err)

		assert.Equal(t, "pharmacy-api", cfg.App.Name)
		assert.Equal(t, "test", cfg.App.Environment)
		assert.Equal(t, "env", cfg.Secrets.Source)
		assert.Equal(t, "0 2 * * *", cfg.Report.Schedule)
		assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
		assert.Equal(t, 24*time.Hour, cfg.Security.JWTExpiration)
		assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	})

	t.Run("environment_overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "6432")
		t.Setenv("LOW_STOCK_THRESHOLD", "3")
		t.Setenv("JWT_EXPIRATION", "2h")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("REPORT_SCHEDULE", "@hourly")

		cfg, err := Load(discardLogger())
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
		assert.Equal(t, 2*time.Hour, cfg.Security.JWTExpiration)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
		assert.Equal(t, "@hourly", cfg.Report.Schedule)
		assert.Contains(t, cfg.GetDatabaseURL(), "@db.internal:6432/")
	})

	t.Run("production_without_jwt_secret_fails", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")

		_, err := Load(discardLogger())
		require.Error(t, err)
	})

	t.Run("unknown_secrets_source_fails", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		t.Setenv("SECRETS_SOURCE", "vault")

		_, err := Load(discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown secrets source")
	})
}

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "production"},
		Database:  DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "pharmacy", SSLMode: "require", MaxConnections: 10, MinConnections: 2},
		Redis:     RedisConfig{PoolSize: 10},
		Security:  SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef", JWTExpiration: time.Hour, BcryptCost: 12, RateLimitRequests: 10, AllowedOrigins: []string{"https://app.example"}, SecureHeaders: true},
		Secrets:   SecretsConfig{Source: "env"},
		Inventory: InventoryConfig{LowStockThreshold: 5},
		Server:    ServerConfig{Port: "8080"},
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid_production_config", mutate: func(*Config) {}},
		{name: "missing_database_host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "Database.Host"},
		{name: "ssl_disabled", mutate: func(c *Config) { c.Database.SSLMode = "disable" }, wantErr: "database SSL must be enabled"},
		{name: "short_jwt_secret", mutate: func(c *Config) { c.Security.JWTSecret = "short" }, wantErr: "at least 32 characters"},
		{name: "wildcard_origin", mutate: func(c *Config) { c.Security.AllowedOrigins = []string{"*"} }, wantErr: "wildcard origin"},
		{name: "default_secret", mutate: func(c *Config) { c.Security.JWTSecret = "development-secret-change-in-production" }, wantErr: "default JWT secret"},
		{name: "aws_secrets_without_name", mutate: func(c *Config) { c.Secrets.Source = "aws" }, wantErr: "secrets name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			var err error
			for _, v := range ValidatorsFor(cfg) {
				if err = v.Validate(cfg); err != nil {
					break
				}
			}

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatorsFor_Development(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "development"

	assert.Len(t, ValidatorsFor(cfg), 1)
}

func TestMissingRequiredIsSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Name = ""

	err := (&BasicValidator{}).Validate(cfg)
	assert.True(t, errors.Is(err, ErrMissingRequiredConfig))
}

type fakeSecretsClient struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsClient) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecretsManager(t *testing.T) {
	ctx := context.Background()

	t.Run("caches_within_ttl", func(t *testing.T) {
		client := &fakeSecretsClient{secret: `{"DB_PASSWORD":"from-aws","JWT_SECRET":"jwt-from-aws"}`}
		sm := newAWSSecretsManager(client, "pharmacy/test", discardLogger())

		v, err := sm.GetSecret(ctx, SecretKeyDatabasePassword)
		require.NoError(t, err)
		assert.Equal(t, "from-aws", v)

		_, err = sm.GetSecret(ctx, SecretKeyJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("unknown_key", func(t *testing.T) {
		client := &fakeSecretsClient{secret: `{"OTHER":"x"}`}
		sm := newAWSSecretsManager(client, "pharmacy/test", discardLogger())

		_, err := sm.GetSecret(ctx, SecretKeyJWTSecret)
		require.Error(t, err)
	})

	t.Run("apply_overrides_config", func(t *testing.T) {
		client := &fakeSecretsClient{secret: `{"DB_PASSWORD":"from-aws","JWT_SECRET":"jwt-from-aws"}`}
		sm := newAWSSecretsManager(client, "pharmacy/test", discardLogger())
		cfg := validConfig()

		require.NoError(t, ApplySecrets(ctx, cfg, sm))
		assert.Equal(t, "from-aws", cfg.Database.Password)
		assert.Equal(t, "jwt-from-aws", cfg.Security.JWTSecret)
	})

	t.Run("client_error", func(t *testing.T) {
		client := &fakeSecretsClient{err: errors.New("access denied")}
		sm := newAWSSecretsManager(client, "pharmacy/test", discardLogger())

		err := ApplySecrets(ctx, validConfig(), sm)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}

func TestEnvSecretsManager(t *testing.T) {
	t.Setenv(SecretKeyJWTSecret, "env-jwt")
	t.Setenv(SecretKeyDatabasePassword, "")
	cfg := validConfig()

	require.NoError(t, ApplySecrets(context.Background(), cfg, NewEnvSecretsManager()))
	assert.Equal(t, "env-jwt", cfg.Security.JWTSecret)
	assert.Equal(t, "p", cfg.Database.Password)
}
