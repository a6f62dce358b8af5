package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	cfg := LoadConfig()

	// APP_PORT set to empty string is honoured, as LookupEnv sees it
	assert.Equal(t, "", cfg.AppPort)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, RegistryMemory, cfg.RegistryDriver)
	assert.Equal(t, 5<<20, cfg.MaxImageBytes)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("REGISTRY_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAX_IMAGE_BYTES", "not-a-number")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SEED_DEV_DATA", "true")

	cfg := LoadConfig()

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, RegistryRedis, cfg.RegistryDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5<<20, cfg.MaxImageBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDevData)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", cfg.PostgresDSN())
}
