package mongo_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/mongo"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := env.ParseAsWithOptions[mongo.Config](env.Options{Environment: map[string]string{
		"MONGODB_DATABASE": "shop_test",
	}})
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.ConnectionURL)
	assert.Equal(t, "shop_test", cfg.Database)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, uint64(100), cfg.MaxPoolSize)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.True(t, cfg.RetryWrites)
}
