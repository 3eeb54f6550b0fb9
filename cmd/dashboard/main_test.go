package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawgrammers/internal/platform/config"
)

func TestRootCmd_FlagDefaultsFromEnv(t *testing.T) {
	t.Setenv("PETS_API_BASE", "")
	t.Setenv("DASHBOARD_LOG_FILE", "")

	cmd := newRootCmd()

	assert.Equal(t, config.DefaultAPIBase, cmd.Flags().Lookup("api-base").DefValue)
	assert.Equal(t, config.DefaultLogFile, cmd.Flags().Lookup("log-file").DefValue)
	assert.Equal(t, "info", cmd.Flags().Lookup("log-level").DefValue)

	t.Setenv("PETS_API_BASE", "http://pets.internal:8080")
	cmd = newRootCmd()
	assert.Equal(t, "http://pets.internal:8080", cmd.Flags().Lookup("api-base").DefValue)
}

func TestRootCmd_FlagsParse(t *testing.T) {
	cmd := newRootCmd()

	require.NoError(t, cmd.ParseFlags([]string{"--api-base", "http://x:1", "--token", "t0k", "--log-level", "debug"}))

	v, err := cmd.Flags().GetString("api-base")
	require.NoError(t, err)
	assert.Equal(t, "http://x:1", v)
	assert.True(t, cmd.Flags().Changed("log-level"))
}
