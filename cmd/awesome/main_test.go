package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	t.Run("dev", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		options, err := loadOptions("../../config/default.yaml", "../../config/override.yaml")
		require.NoError(t, err)

		assert.Equal(t, "mysql", options.DB.Driver)
		assert.Equal(t, "127.0.0.1", options.DB.Host)
		assert.Equal(t, 3306, options.DB.Port)
		assert.Equal(t, "ormuser", options.DB.User)
		assert.Equal(t, "awesome", options.DB.Database)
		assert.Equal(t, 10, options.DB.MaxPoolSize)
		assert.Equal(t, 5*time.Second, options.DB.ConnectTimeout)
		assert.Equal(t, time.Hour, options.DB.ConnMaxLifetime)
		require.NotNil(t, options.DB.Autocommit)
		assert.True(t, *options.DB.Autocommit)
		assert.Equal(t, "awesome", options.Executor.Name)
		assert.Equal(t, 500*time.Millisecond, options.Executor.SlowThreshold)
		assert.Equal(t, "text", options.Log.Format)
		assert.Equal(t, ":9090", options.Metrics.Addr)
		assert.Equal(t, "strict", options.RowCountPolicy)
	})

	t.Run("pro", func(t *testing.T) {
		t.Setenv("APP_ENV", "pro")
		options, err := loadOptions("../../config/default.yaml", "../../config/override.yaml")
		require.NoError(t, err)

		assert.Equal(t, "awesome", options.DB.User)
		assert.Equal(t, "password", options.DB.Password)
		assert.Equal(t, "json", options.Log.Format)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")
		t.Setenv("AWESOME_DB_HOST", "db.internal")
		t.Setenv("AWESOME_DB_MAX_POOL_SIZE", "20")
		options, err := loadOptions("../../config/default.yaml", "../../config/override.yaml")
		require.NoError(t, err)

		assert.Equal(t, "db.internal", options.DB.Host)
		assert.Equal(t, 20, options.DB.MaxPoolSize)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadOptions("not-exists.yaml", "")
		assert.Error(t, err)
	})
}
