package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voltstore/catalog-api/internal/config"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(config.DebugModeEnv, "true")
	t.Setenv(config.MongoURIEnv, "mongodb://localhost:27017")
	t.Setenv(config.MongoDatabaseEnv, "catalog")
	t.Setenv(config.HTTPServerPortEnv, "8080")
	t.Setenv(config.MetricsServerPortEnv, "9090")
	t.Setenv(config.AWSRegionEnv, "us-east-1")
	t.Setenv(config.AWSEndpointEnv, "http://localhost:4566")
	t.Setenv(config.SQSQueueURLEnv, "http://localhost:4566/000000000000/catalog-events")
	t.Setenv(config.ImageBucketEnv, "catalog-images")
	t.Setenv(config.ImageBaseURLEnv, "http://localhost:4566/catalog-images")

	conf, err := config.LoadFromEnv()
	require.NoError(t, err, "loading config should not return error")

	assert.True(t, conf.DebugMode, "DebugMode should be true")
	assert.Equal(t, "mongodb://localhost:27017", conf.Mongo.URI, "Mongo URI should match")
	assert.Equal(t, "catalog", conf.Mongo.Database, "Mongo database should match")
	assert.Equal(t, "8080", conf.HTTPServer.Port, "HTTP Server Port should be '8080'")
	assert.Equal(t, "9090", conf.MetricsServer.Port, "Metrics Server Port should be '9090'")
	assert.Equal(t, "us-east-1", conf.AWS.Region, "AWS region should match")
	assert.Equal(t, "http://localhost:4566", conf.AWS.Endpoint, "AWS endpoint should match")
	assert.Equal(t, "catalog-images", conf.ObjectStore.Bucket, "image bucket should match")
	assert.Equal(t, "http://localhost:4566/catalog-images", conf.ObjectStore.PublicBaseURL, "image base URL should match")
}

func TestLoadFromEnvMissingMongo(t *testing.T) {
	t.Setenv(config.MongoURIEnv, "")
	t.Setenv(config.MongoDatabaseEnv, "catalog")
	t.Setenv(config.HTTPServerPortEnv, "8080")
	t.Setenv(config.MetricsServerPortEnv, "9090")
	t.Setenv(config.SQSQueueURLEnv, "http://localhost:4566/000000000000/catalog-events")
	t.Setenv(config.ImageBucketEnv, "catalog-images")

	_, err := config.LoadFromEnv()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"GetEnvAsBool_True", "true", false, true},
		{"GetEnvAsBool_False", "false", true, false},
		{"GetEnvAsBool_Invalid", "invalid", true, true},
		{"GetEnvAsBool_Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV", tt.envValue)
			got := config.GetEnvAsBool("TEST_ENV", tt.defaultValue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNumbers_Valid", map[string]string{"key1": "123", "key2": "456", "key3": "789"}, false},
		{"AllNumbers_Invalid", map[string]string{"key1": "123", "key2": "abc", "key3": "789"}, true},
		{"AllNumbers_EmptyString", map[string]string{"key1": "123", "key2": "", "key3": "789"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNumbers(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllNonEmpty(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]string
		wantErr bool
	}{
		{"AllNonEmpty_Valid", map[string]string{"key1": "host", "key2": "user", "key3": "pass"}, false},
		{"AllNonEmpty_EmptyString", map[string]string{"key1": "host", "key2": "", "key3": "pass"}, true},
		{"AllNonEmpty_AllEmpty", map[string]string{"key1": "", "key2": "", "key3": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.AllNonEmpty(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
