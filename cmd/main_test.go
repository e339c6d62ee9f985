package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campuskart/config"
)

func TestCORSConfig_EmptyOriginsAllowsAll(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: ""}

	c := corsConfig(cfg.CORSOrigins())

	require.NoError(t, c.Validate(), "cors.New panics on an invalid config")
	assert.True(t, c.AllowAllOrigins)
	assert.False(t, c.AllowCredentials)
	assert.Empty(t, c.AllowOrigins)
}

func TestCORSConfig_ExplicitOrigins(t *testing.T) {
	c := corsConfig([]string{"http://localhost:3000", "https://campuskart.test"})

	require.NoError(t, c.Validate())
	assert.False(t, c.AllowAllOrigins)
	assert.True(t, c.AllowCredentials)
	assert.Equal(t, []string{"http://localhost:3000", "https://campuskart.test"}, c.AllowOrigins)
}
