package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "KAFKA_BROKERS", "SESSION_MAX_AGE", "MINIO_ENDPOINT", "MINIO_SECURE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 86400*14, cfg.SessionMaxAge)
	assert.Empty(t, cfg.MinioEndpoint)
	assert.False(t, cfg.MinioSecure)
	assert.Equal(t, "products", cfg.MinioBucket)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("SESSION_MAX_AGE", "60")
	t.Setenv("MINIO_SECURE", "true")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 60, cfg.SessionMaxAge)
	assert.True(t, cfg.MinioSecure)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE", "abc")
	t.Setenv("MINIO_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, 86400*14, cfg.SessionMaxAge)
	assert.False(t, cfg.MinioSecure)
}
