package cfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type defDBConfig struct {
	Host       string        `def:"localhost"`
	Port       int           `def:"3306"`
	Autocommit *bool         `def:"true"`
	Timeout    time.Duration `def:"5s"`
	Ratio      float64       `def:"0.5"`
	Tags       []string      `def:"a, b"`
	Password   string
}

type defConfig struct {
	Name  string `def:"awesome"`
	DB    defDBConfig
	Cache *defDBConfig
}

func TestSetDefaults(t *testing.T) {
	c := &defConfig{}
	require.NoError(t, SetDefaults(c))

	assert.Equal(t, "awesome", c.Name)
	assert.Equal(t, "localhost", c.DB.Host)
	assert.Equal(t, 3306, c.DB.Port)
	require.NotNil(t, c.DB.Autocommit)
	assert.True(t, *c.DB.Autocommit)
	assert.Equal(t, 5*time.Second, c.DB.Timeout)
	assert.Equal(t, 0.5, c.DB.Ratio)
	assert.Equal(t, []string{"a", "b"}, c.DB.Tags)
	assert.Empty(t, c.DB.Password)
	assert.Nil(t, c.Cache)
}

func TestSetDefaults_KeepExplicitValues(t *testing.T) {
	off := false
	c := &defConfig{
		Name:  "blog",
		DB:    defDBConfig{Port: 3307, Autocommit: &off},
		Cache: &defDBConfig{},
	}
	require.NoError(t, SetDefaults(c))

	assert.Equal(t, "blog", c.Name)
	assert.Equal(t, 3307, c.DB.Port)
	assert.False(t, *c.DB.Autocommit)
	assert.Equal(t, "localhost", c.Cache.Host)
}

func TestSetDefaults_Errors(t *testing.T) {
	assert.Error(t, SetDefaults(nil))
	assert.Error(t, SetDefaults(defConfig{}))

	var nilPtr *defConfig
	assert.Error(t, SetDefaults(nilPtr))

	type bad struct {
		Port int `def:"abc"`
	}
	assert.Error(t, SetDefaults(&bad{}))
}

func TestMerge(t *testing.T) {
	defaults := map[string]any{
		"db": map[string]any{
			"host":     "127.0.0.1",
			"port":     3306,
			"user":     "ormuser",
			"password": "password",
		},
		"session": map[string]any{"secret": "AwEsOmE"},
	}
	override := map[string]any{
		"db":    map[string]any{"user": "awesome", "extra": "ignored"},
		"other": "ignored",
	}

	merged := Merge(defaults, override)
	db := merged["db"].(map[string]any)
	assert.Equal(t, "awesome", db["user"])
	assert.Equal(t, "127.0.0.1", db["host"])
	assert.Equal(t, 3306, db["port"])
	assert.NotContains(t, db, "extra")
	assert.NotContains(t, merged, "other")
	assert.Equal(t, map[string]any{"secret": "AwEsOmE"}, merged["session"])

	// 原 map 不被修改
	assert.Equal(t, "ormuser", defaults["db"].(map[string]any)["user"])
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "MIN_POOL_SIZE", envName("minPoolSize"))
	assert.Equal(t, "HOST", envName("host"))
	assert.Equal(t, "TIME_FORMAT", envName("timeFormat"))
}

func TestApplyEnv(t *testing.T) {
	type db struct {
		Host        string `cfg:"host"`
		MinPoolSize int    `cfg:"minPoolSize"`
		Autocommit  *bool  `cfg:"autocommit"`
	}
	type conf struct {
		DB     db             `cfg:"db"`
		Fields map[string]any `cfg:"fields"`
	}

	env := map[string]string{
		"AWESOME_DB_HOST":          "10.0.0.1",
		"AWESOME_DB_MIN_POOL_SIZE": "3",
		"AWESOME_DB_AUTOCOMMIT":    "false",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := &conf{}
	require.NoError(t, applyEnv(c, "awesome", lookup))
	assert.Equal(t, "10.0.0.1", c.DB.Host)
	assert.Equal(t, 3, c.DB.MinPoolSize)
	require.NotNil(t, c.DB.Autocommit)
	assert.False(t, *c.DB.Autocommit)

	env["AWESOME_DB_MIN_POOL_SIZE"] = "many"
	assert.Error(t, applyEnv(c, "AWESOME", lookup))
}
