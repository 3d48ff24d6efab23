package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigPath(), cfg.Connection.ConfigPath)
	assert.Empty(t, cfg.Connection.Profile)
	assert.Equal(t, DefaultRefreshInterval, cfg.Runtime.RefreshInterval)
	assert.Equal(t, DefaultPageSize, cfg.Runtime.PageSize)
	assert.Equal(t, DefaultHistoryPageSize, cfg.Runtime.HistoryPageSize)
	assert.Equal(t, DefaultRequestTimeout, cfg.Runtime.RequestTimeout)
	assert.Equal(t, DefaultConnectTimeout, cfg.Runtime.ConnectTimeout)
	assert.False(t, cfg.Runtime.AutoRefresh)
	assert.False(t, cfg.Audit.Disabled)
	assert.False(t, cfg.Logging.Trace)
	assert.Equal(t, "50", cfg.Flags["page-size"])
}

func TestLoadArgsEnvironment(t *testing.T) {
	env := []string{
		"TUIPORAL_PROFILE=prod",
		"TUIPORAL_NAMESPACE=payments",
		"TUIPORAL_TRACE=true",
		"TUIPORAL_REFRESH_INTERVAL=2s",
		"TUIPORAL_AUTO_REFRESH=1",
		"TUIPORAL_PAGE_SIZE=25",
		"TUIPORAL_NO_AUDIT=yes",
		"TUIPORAL_WIDTH=100",
		"MALFORMED",
	}
	cfg, err := LoadArgs(nil, env)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Connection.Profile)
	assert.Equal(t, "payments", cfg.Connection.Namespace)
	assert.True(t, cfg.Logging.Trace)
	assert.Equal(t, 2*time.Second, cfg.Runtime.RefreshInterval)
	assert.True(t, cfg.Runtime.AutoRefresh)
	assert.Equal(t, 25, cfg.Runtime.PageSize)
	// "yes" is not a valid bool and falls back to the default.
	assert.False(t, cfg.Audit.Disabled)
	assert.Equal(t, 100, cfg.Runtime.Width)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	env := []string{"TUIPORAL_PAGE_SIZE=25", "TUIPORAL_PROFILE=prod"}
	args := []string{"--page-size", "10", "--profile", "staging", "-n", "orders", "--no-audit"}
	cfg, err := LoadArgs(args, env)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Runtime.PageSize)
	assert.Equal(t, "staging", cfg.Connection.Profile)
	assert.Equal(t, "orders", cfg.Connection.Namespace)
	assert.True(t, cfg.Audit.Disabled)
	assert.Equal(t, args, cfg.Args)
}

func TestLoadArgsInvalidEnvFallsBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"TUIPORAL_PAGE_SIZE=lots", "TUIPORAL_REQUEST_TIMEOUT=soon"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, cfg.Runtime.PageSize)
	assert.Equal(t, DefaultRequestTimeout, cfg.Runtime.RequestTimeout)
}

func TestLoadArgsValidation(t *testing.T) {
	cases := map[string][]string{
		"page size":         {"--page-size", "0"},
		"history page size": {"--history-page-size", "-1"},
		"refresh interval":  {"--refresh-interval", "0s"},
		"request timeout":   {"--request-timeout", "0s"},
		"connect timeout":   {"--connect-timeout", "-1s"},
		"min call interval": {"--min-call-interval", "-5ms"},
		"width":             {"--width", "-1"},
		"height":            {"--height", "-2"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadArgs(args, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadArgsUnknownFlag(t *testing.T) {
	_, err := LoadArgs([]string{"--bogus"}, nil)
	assert.Error(t, err)
}
